package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/consistency"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/reporting"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Comandos aceitos por --run
const (
	commandResync      = "resync"
	commandSweep       = "sweep"
	commandValidate    = "validate"
	commandRank        = "rank"
	commandRecalculate = "recalculate"
	commandSyncLead    = "sync-lead"
	commandLeaveTeam   = "leave-team"
	commandReport      = "report"
)

var ErrUnknownCommand = errors.New("unknown command")

// runCommand executa um comando avulso e escreve o resultado em JSON
func runCommand(ctx context.Context, eng *engine, cfg *config.Config, opts options, out io.Writer) error {
	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx).WithField("command", opts.command)
	logger.Info("Executando comando")

	var (
		result any
		err    error
	)

	switch opts.command {
	case commandResync:
		result, err = eng.consistency.FullResync(ctx)

	case commandSweep:
		policy := domain.FixPolicy{}
		if opts.fix {
			policy = consistency.PolicyFromConfig(cfg.ConsistencySweep)
		}
		result, err = eng.consistency.Sweep(ctx, policy)

	case commandValidate:
		result, err = eng.consistency.Validate(ctx)

	case commandRank:
		result, err = eng.ranking.RankAll(ctx)

	case commandRecalculate:
		if opts.targetID <= 0 {
			return errors.New("--target-id is required for recalculate")
		}
		if _, err = eng.targeting.RefreshAchieved(ctx, opts.targetID); err != nil {
			return err
		}
		result, err = eng.calculator.RecalculateTarget(ctx, opts.targetID)

	case commandSyncLead:
		if opts.leadID <= 0 {
			return errors.New("--lead-id is required for sync-lead")
		}
		result, err = syncLead(ctx, eng, opts.leadID)

	case commandLeaveTeam:
		if opts.teamID <= 0 || opts.userID <= 0 {
			return errors.New("--team-id and --user-id are required for leave-team")
		}
		if err = eng.membership.Deactivate(ctx, opts.teamID, opts.userID); err != nil {
			return err
		}
		result = map[string]any{"team_id": opts.teamID, "user_id": opts.userID, "active": false}

	case commandReport:
		periodType := domain.PeriodType(opts.periodType)
		if periodType != "" && !periodType.Valid() {
			return errors.Errorf("invalid period type %q", opts.periodType)
		}
		result, err = eng.reporting.Summary(ctx, reporting.Query{PeriodType: periodType})

	default:
		return errors.Wrap(ErrUnknownCommand, opts.command)
	}

	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return errors.Wrap(err, "erro ao escrever resultado")
	}

	logger.Info("Comando finalizado")
	return nil
}

func syncLead(ctx context.Context, eng *engine, leadID int64) (map[string]any, error) {
	lead, err := eng.repos.Leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar lead %d", leadID)
	}
	if lead == nil {
		return nil, errors.Errorf("lead %d not found", leadID)
	}

	if err := eng.ledger.SyncLead(ctx, lead); err != nil {
		return nil, err
	}

	return map[string]any{
		"lead_id":     lead.ID,
		"convertible": lead.Convertible(),
	}, nil
}

// waitForSignal bloqueia até um sinal de término ou o cancelamento do contexto
func waitForSignal(ctx context.Context) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
	}
}
