package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

const conversionTable = "sales_conversions"

type ConversionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ConversionRecord, error)
	List(ctx context.Context, filter ConversionFilter) ([]*domain.ConversionRecord, error)
	Upsert(ctx context.Context, conversion *domain.ConversionRecord) error
	SetCounted(ctx context.Context, id int64, counted bool) error
	ClearTarget(ctx context.Context, targetID int64) (int64, error)
	SumForUser(ctx context.Context, userID int64, period domain.DateRange) (float64, error)
	SumForTarget(ctx context.Context, targetID int64) (float64, error)
	CountByType(ctx context.Context, userID int64, period domain.DateRange) (map[domain.ConversionType]int, error)
}

type conversionRepository struct {
	conn *postgres.Connection
}

func NewConversionRepository(conn *postgres.Connection) ConversionRepository {
	return &conversionRepository{
		conn: conn,
	}
}

func (r *conversionRepository) selectBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select("id, lead_id, user_id, sales_target_id, amount, conversion_date, conversion_type, is_counted, created_at, updated_at").
		From(conversionTable).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *conversionRepository) GetByID(ctx context.Context, id int64) (*domain.ConversionRecord, error) {
	query, args, err := r.selectBuilder().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	conversion, err := scanConversion(r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar conversão %d", id)
	}

	return conversion, nil
}

func (r *conversionRepository) List(ctx context.Context, filter ConversionFilter) ([]*domain.ConversionRecord, error) {
	builder := r.selectBuilder().OrderBy("id ASC")

	if filter.LeadID != 0 {
		builder = builder.Where(squirrel.Eq{"lead_id": filter.LeadID})
	}
	if filter.UserID != 0 {
		builder = builder.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.TargetID != nil {
		builder = builder.Where(squirrel.Eq{"sales_target_id": *filter.TargetID})
	}
	if filter.Counted != nil {
		builder = builder.Where(squirrel.Eq{"is_counted": *filter.Counted})
	}
	if filter.Range != nil {
		builder = builder.Where(squirrel.And{
			squirrel.GtOrEq{"conversion_date": filter.Range.Start},
			squirrel.LtOrEq{"conversion_date": filter.Range.End},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Queryer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar conversões")
	}
	defer rows.Close()

	conversions := make([]*domain.ConversionRecord, 0)
	for rows.Next() {
		conversion, err := scanConversion(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear conversão")
		}
		conversions = append(conversions, conversion)
	}

	return conversions, errors.Wrap(rows.Err(), "erro durante a iteração de linhas")
}

// Upsert grava a conversão usando (lead_id, user_id) como chave
func (r *conversionRepository) Upsert(ctx context.Context, c *domain.ConversionRecord) error {
	query, args, err := squirrel.
		Insert(conversionTable).
		Columns("lead_id", "user_id", "sales_target_id", "amount", "conversion_date", "conversion_type", "is_counted").
		Values(c.LeadID, c.UserID, c.TargetID, c.Amount, c.Date, c.Type, c.Counted).
		Suffix(`ON CONFLICT (lead_id, user_id) DO UPDATE SET
			sales_target_id = EXCLUDED.sales_target_id,
			amount = EXCLUDED.amount,
			conversion_date = EXCLUDED.conversion_date,
			is_counted = EXCLUDED.is_counted,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, conversion_type, created_at, updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "erro ao salvar conversão do lead %d", c.LeadID)
	}

	return nil
}

func (r *conversionRepository) SetCounted(ctx context.Context, id int64, counted bool) error {
	return r.exec(ctx, squirrel.
		Update(conversionTable).
		Set("is_counted", counted).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar))
}

func (r *conversionRepository) ClearTarget(ctx context.Context, targetID int64) (int64, error) {
	query, args, err := squirrel.
		Update(conversionTable).
		Set("sales_target_id", nil).
		Where(squirrel.Eq{"sales_target_id": targetID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir a query")
	}

	result, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "erro ao limpar referência à meta %d", targetID)
	}

	return result.RowsAffected()
}

func (r *conversionRepository) SumForUser(ctx context.Context, userID int64, period domain.DateRange) (float64, error) {
	return r.sum(ctx, squirrel.And{
		squirrel.Eq{"user_id": userID, "is_counted": true},
		squirrel.GtOrEq{"conversion_date": period.Start},
		squirrel.LtOrEq{"conversion_date": period.End},
	})
}

func (r *conversionRepository) SumForTarget(ctx context.Context, targetID int64) (float64, error) {
	return r.sum(ctx, squirrel.Eq{"sales_target_id": targetID, "is_counted": true})
}

func (r *conversionRepository) sum(ctx context.Context, where squirrel.Sqlizer) (float64, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(amount), 0)").
		From(conversionTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir a query")
	}

	var total float64
	if err := r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "erro ao somar conversões")
	}

	return total, nil
}

func (r *conversionRepository) CountByType(ctx context.Context, userID int64, period domain.DateRange) (map[domain.ConversionType]int, error) {
	query, args, err := squirrel.
		Select("conversion_type, COUNT(*)").
		From(conversionTable).
		Where(squirrel.And{
			squirrel.Eq{"user_id": userID, "is_counted": true},
			squirrel.GtOrEq{"conversion_date": period.Start},
			squirrel.LtOrEq{"conversion_date": period.End},
		}).
		GroupBy("conversion_type").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Queryer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao contar conversões por tipo")
	}
	defer rows.Close()

	counts := make(map[domain.ConversionType]int)
	for rows.Next() {
		var (
			conversionType domain.ConversionType
			count          int
		)
		if err := rows.Scan(&conversionType, &count); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear contagem")
		}
		counts[conversionType] = count
	}

	return counts, errors.Wrap(rows.Err(), "erro durante a iteração de linhas")
}

func (r *conversionRepository) exec(ctx context.Context, builder squirrel.UpdateBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	if _, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao atualizar conversão")
	}

	return nil
}

func scanConversion(row scanner) (*domain.ConversionRecord, error) {
	c := &domain.ConversionRecord{}

	if err := row.Scan(
		&c.ID,
		&c.LeadID,
		&c.UserID,
		&c.TargetID,
		&c.Amount,
		&c.Date,
		&c.Type,
		&c.Counted,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Date = c.Date.UTC()

	return c, nil
}
