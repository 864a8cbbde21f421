package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

const (
	targetTable           = "sales_targets"
	targetAssignmentTable = "sales_target_assignments"
)

var targetColumns = []string{
	"name",
	"amount",
	"assignee_type",
	"assignee_id",
	"start_date",
	"end_date",
	"period_type",
	"status",
	"achieved_amount",
	"progress_percentage",
	"last_calculated_at",
}

type TargetRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Target, error)
	List(ctx context.Context, filter TargetFilter) ([]*domain.Target, error)
	Create(ctx context.Context, target *domain.Target) error
	Update(ctx context.Context, target *domain.Target) error
	Delete(ctx context.Context, id int64) error
	ListAssignments(ctx context.Context, targetID int64) ([]*domain.TargetAssignment, error)
	GetAssignment(ctx context.Context, id int64) (*domain.TargetAssignment, error)
	SaveAssignment(ctx context.Context, assignment *domain.TargetAssignment) error
}

type targetRepository struct {
	conn *postgres.Connection
}

func NewTargetRepository(conn *postgres.Connection) TargetRepository {
	return &targetRepository{
		conn: conn,
	}
}

func (r *targetRepository) selectBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select(append([]string{"id"}, append(targetColumns, "created_at", "updated_at")...)...).
		From(targetTable).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *targetRepository) GetByID(ctx context.Context, id int64) (*domain.Target, error) {
	query, args, err := r.selectBuilder().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	target, err := scanTarget(r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar meta %d", id)
	}

	return target, nil
}

func (r *targetRepository) List(ctx context.Context, filter TargetFilter) ([]*domain.Target, error) {
	builder := r.selectBuilder().OrderBy("id ASC")

	if len(filter.IDs) > 0 {
		builder = builder.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.AssigneeType != "" {
		builder = builder.Where(squirrel.Eq{"assignee_type": filter.AssigneeType})
	}
	if filter.AssigneeID != 0 {
		builder = builder.Where(squirrel.Eq{"assignee_id": filter.AssigneeID})
	}
	if filter.Overlapping != nil {
		builder = builder.Where(squirrel.And{
			squirrel.LtOrEq{"start_date": filter.Overlapping.End},
			squirrel.GtOrEq{"end_date": filter.Overlapping.Start},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Queryer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar metas")
	}
	defer rows.Close()

	targets := make([]*domain.Target, 0)
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear meta")
		}
		targets = append(targets, target)
	}

	return targets, errors.Wrap(rows.Err(), "erro durante a iteração de linhas")
}

func (r *targetRepository) Create(ctx context.Context, target *domain.Target) error {
	query, args, err := squirrel.
		Insert(targetTable).
		Columns(targetColumns...).
		Values(targetValues(target)...).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&target.ID, &target.CreatedAt, &target.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "erro ao criar meta")
	}

	return nil
}

func (r *targetRepository) Update(ctx context.Context, target *domain.Target) error {
	builder := squirrel.Update(targetTable).PlaceholderFormat(squirrel.Dollar)
	for i, value := range targetValues(target) {
		builder = builder.Set(targetColumns[i], value)
	}

	query, args, err := builder.
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": target.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de atualização")
	}

	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&target.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "erro ao atualizar meta %d", target.ID)
	}

	return nil
}

func (r *targetRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := squirrel.
		Delete(targetTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de remoção")
	}

	if _, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "erro ao remover meta %d", id)
	}

	return nil
}

func (r *targetRepository) assignmentSelect() squirrel.SelectBuilder {
	return squirrel.
		Select("id, target_id, assignee_type, assignee_id, allocated_amount, achieved_amount, allocation_percentage, is_primary").
		From(targetAssignmentTable).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *targetRepository) ListAssignments(ctx context.Context, targetID int64) ([]*domain.TargetAssignment, error) {
	query, args, err := r.assignmentSelect().
		Where(squirrel.Eq{"target_id": targetID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Queryer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao listar divisões da meta %d", targetID)
	}
	defer rows.Close()

	assignments := make([]*domain.TargetAssignment, 0)
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear divisão da meta")
		}
		assignments = append(assignments, assignment)
	}

	return assignments, errors.Wrap(rows.Err(), "erro durante a iteração de linhas")
}

func (r *targetRepository) GetAssignment(ctx context.Context, id int64) (*domain.TargetAssignment, error) {
	query, args, err := r.assignmentSelect().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	assignment, err := scanAssignment(r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar divisão %d", id)
	}

	return assignment, nil
}

func (r *targetRepository) SaveAssignment(ctx context.Context, a *domain.TargetAssignment) error {
	query, args, err := squirrel.
		Insert(targetAssignmentTable).
		Columns("target_id", "assignee_type", "assignee_id", "allocated_amount", "achieved_amount", "allocation_percentage", "is_primary").
		Values(a.TargetID, a.AssigneeType, a.AssigneeID, a.AllocatedAmount, a.AchievedAmount, a.AllocationPct, a.IsPrimary).
		Suffix(`ON CONFLICT (target_id, assignee_type, assignee_id) DO UPDATE SET
			allocated_amount = EXCLUDED.allocated_amount,
			achieved_amount = EXCLUDED.achieved_amount,
			allocation_percentage = EXCLUDED.allocation_percentage,
			is_primary = EXCLUDED.is_primary
		RETURNING id`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	if err := r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return errors.Wrap(err, "erro ao salvar divisão da meta")
	}

	return nil
}

func targetValues(t *domain.Target) []any {
	return []any{
		t.Name,
		t.Amount,
		t.AssigneeType,
		t.AssigneeID,
		t.StartDate,
		t.EndDate,
		t.PeriodType,
		t.Status,
		t.AchievedAmount,
		t.ProgressPct,
		t.LastCalculatedAt,
	}
}

func scanTarget(row scanner) (*domain.Target, error) {
	t := &domain.Target{}

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Amount,
		&t.AssigneeType,
		&t.AssigneeID,
		&t.StartDate,
		&t.EndDate,
		&t.PeriodType,
		&t.Status,
		&t.AchievedAmount,
		&t.ProgressPct,
		&t.LastCalculatedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.StartDate = t.StartDate.UTC()
	t.EndDate = t.EndDate.UTC()

	return t, nil
}

func scanAssignment(row scanner) (*domain.TargetAssignment, error) {
	a := &domain.TargetAssignment{}

	if err := row.Scan(
		&a.ID,
		&a.TargetID,
		&a.AssigneeType,
		&a.AssigneeID,
		&a.AllocatedAmount,
		&a.AchievedAmount,
		&a.AllocationPct,
		&a.IsPrimary,
	); err != nil {
		return nil, err
	}

	return a, nil
}
