package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

const leadTable = "leads"

type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	CountsForUser(ctx context.Context, userID int64, period domain.DateRange) (domain.LeadCounts, error)
}

type leadRepository struct {
	conn *postgres.Connection
}

func NewLeadRepository(conn *postgres.Connection) LeadRepository {
	return &leadRepository{
		conn: conn,
	}
}

func (r *leadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	query, args, err := squirrel.
		Select("id, user_id, lead_value, status, closed_at, created_at").
		From(leadTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	lead := &domain.Lead{}
	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(
		&lead.ID,
		&lead.UserID,
		&lead.Value,
		&lead.Status,
		&lead.CloseDate,
		&lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar lead %d", id)
	}

	return lead, nil
}

// CountsForUser conta os leads criados no período, separados por status
func (r *leadRepository) CountsForUser(ctx context.Context, userID int64, period domain.DateRange) (domain.LeadCounts, error) {
	query, args, err := squirrel.
		Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE status = 'won')",
			"COUNT(*) FILTER (WHERE status = 'lost')",
		).
		From(leadTable).
		Where(squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.GtOrEq{"created_at": period.Start},
			squirrel.Lt{"created_at": period.End.AddDate(0, 0, 1)},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.LeadCounts{}, errors.Wrap(err, "erro ao construir a query")
	}

	var counts domain.LeadCounts
	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&counts.Total, &counts.Won, &counts.Lost)
	if err != nil {
		return domain.LeadCounts{}, errors.Wrapf(err, "erro ao contar leads do usuário %d", userID)
	}

	return counts, nil
}
