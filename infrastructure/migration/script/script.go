// Package script cria o schema do motor de performance. Todas as instruções são idempotentes.
package script

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type statement struct {
	name string
	sql  string
}

var statements = []statement{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		role_name TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`},
	{"teams", `CREATE TABLE IF NOT EXISTS teams (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		region_id BIGINT
	)`},
	{"team_members", `CREATE TABLE IF NOT EXISTS team_members (
		team_id BIGINT NOT NULL REFERENCES teams (id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		role_name TEXT,
		contribution_percentage NUMERIC(5, 2) NOT NULL DEFAULT 100,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		left_at TIMESTAMPTZ,
		UNIQUE (team_id, user_id)
	)`},
	{"leads", `CREATE TABLE IF NOT EXISTS leads (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT,
		lead_value NUMERIC(14, 2) NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'open',
		closed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`},
	{"sales_targets", `CREATE TABLE IF NOT EXISTS sales_targets (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		assignee_type TEXT NOT NULL,
		assignee_id BIGINT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		period_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		achieved_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		progress_percentage NUMERIC(7, 2) NOT NULL DEFAULT 0,
		last_calculated_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`},
	{"sales_targets_assignee_idx", `CREATE INDEX IF NOT EXISTS sales_targets_assignee_idx
		ON sales_targets (assignee_type, assignee_id, status)`},
	{"sales_target_assignments", `CREATE TABLE IF NOT EXISTS sales_target_assignments (
		id BIGSERIAL PRIMARY KEY,
		target_id BIGINT NOT NULL REFERENCES sales_targets (id) ON DELETE CASCADE,
		assignee_type TEXT NOT NULL,
		assignee_id BIGINT NOT NULL,
		allocated_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		achieved_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		allocation_percentage NUMERIC(5, 2) NOT NULL DEFAULT 0,
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (target_id, assignee_type, assignee_id)
	)`},
	{"sales_conversions", `CREATE TABLE IF NOT EXISTS sales_conversions (
		id BIGSERIAL PRIMARY KEY,
		lead_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		sales_target_id BIGINT,
		amount NUMERIC(14, 2) NOT NULL,
		conversion_date DATE NOT NULL,
		conversion_type TEXT NOT NULL DEFAULT 'new_logo',
		is_counted BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (lead_id, user_id)
	)`},
	{"sales_conversions_user_date_idx", `CREATE INDEX IF NOT EXISTS sales_conversions_user_date_idx
		ON sales_conversions (user_id, conversion_date) WHERE is_counted`},
	{"sales_performance", `CREATE TABLE IF NOT EXISTS sales_performance (
		id BIGSERIAL PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		entity_name TEXT NOT NULL DEFAULT '',
		sales_target_id BIGINT,
		parent_performance_id BIGINT,
		is_team_aggregate BOOLEAN NOT NULL DEFAULT FALSE,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		period_type TEXT NOT NULL,
		target_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		achieved_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
		achievement_percentage NUMERIC(7, 2) NOT NULL DEFAULT 0,
		leads_count INTEGER NOT NULL DEFAULT 0,
		won_leads_count INTEGER NOT NULL DEFAULT 0,
		lost_leads_count INTEGER NOT NULL DEFAULT 0,
		conversion_rate NUMERIC(7, 2) NOT NULL DEFAULT 0,
		average_deal_size NUMERIC(14, 2) NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		rank INTEGER,
		member_contributions JSONB,
		calculated_at TIMESTAMPTZ,
		last_synced_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (entity_type, entity_id, period_start, period_end, period_type)
	)`},
	{"sales_performance_parent_idx", `CREATE INDEX IF NOT EXISTS sales_performance_parent_idx
		ON sales_performance (parent_performance_id)`},
	{"sales_performance_ranking_idx", `CREATE INDEX IF NOT EXISTS sales_performance_ranking_idx
		ON sales_performance (entity_type, period_type, period_start DESC)`},
}

// Apply executa o schema em uma única transação
func Apply(ctx context.Context, db *sql.DB) error {
	startTime := time.Now()
	logrus.WithField("statements", len(statements)).Info("Aplicando schema do banco de dados")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "erro ao iniciar transação de migração")
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.sql); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "erro ao aplicar %s", stmt.name)
		}
		logrus.WithField("statement", stmt.name).Debug("Instrução de schema aplicada")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "erro ao confirmar migração")
	}

	logrus.WithField("duration", time.Since(startTime).String()).Info("Schema aplicado com sucesso")
	return nil
}
