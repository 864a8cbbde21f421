package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

const (
	performanceTable = "sales_performance"
	performanceKey   = "entity_type, entity_id, period_start, period_end, period_type"
)

var performanceColumns = []string{
	"entity_type",
	"entity_id",
	"entity_name",
	"sales_target_id",
	"parent_performance_id",
	"is_team_aggregate",
	"period_start",
	"period_end",
	"period_type",
	"target_amount",
	"achieved_amount",
	"achievement_percentage",
	"leads_count",
	"won_leads_count",
	"lost_leads_count",
	"conversion_rate",
	"average_deal_size",
	"score",
	"rank",
	"member_contributions",
	"calculated_at",
	"last_synced_at",
}

type PerformanceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PerformanceRecord, error)
	GetByKey(ctx context.Context, key domain.PerformanceKey) (*domain.PerformanceRecord, error)
	List(ctx context.Context, filter PerformanceFilter) ([]*domain.PerformanceRecord, error)
	Save(ctx context.Context, record *domain.PerformanceRecord) error
	SetParent(ctx context.Context, ids []int64, parentID *int64) error
	SetRanks(ctx context.Context, ranks map[int64]int) error
	Delete(ctx context.Context, ids []int64) error
	ClearTarget(ctx context.Context, targetID int64) (int64, error)
}

type performanceRepository struct {
	conn *postgres.Connection
}

func NewPerformanceRepository(conn *postgres.Connection) PerformanceRepository {
	return &performanceRepository{
		conn: conn,
	}
}

func (r *performanceRepository) selectBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select(append([]string{"id"}, append(performanceColumns, "created_at", "updated_at")...)...).
		From(performanceTable).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *performanceRepository) GetByID(ctx context.Context, id int64) (*domain.PerformanceRecord, error) {
	return r.getOne(ctx, r.selectBuilder().Where(squirrel.Eq{"id": id}))
}

// GetByKey retorna o registro de menor id da chave
func (r *performanceRepository) GetByKey(ctx context.Context, key domain.PerformanceKey) (*domain.PerformanceRecord, error) {
	return r.getOne(ctx, r.selectBuilder().
		Where(squirrel.Eq{
			"entity_type":  key.EntityType,
			"entity_id":    key.EntityID,
			"period_start": key.Period.Start,
			"period_end":   key.Period.End,
			"period_type":  key.Period.Type,
		}).
		OrderBy("id ASC").
		Limit(1))
}

func (r *performanceRepository) getOne(ctx context.Context, builder squirrel.SelectBuilder) (*domain.PerformanceRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	row := r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...)
	record, err := scanPerformance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao escanear performance")
	}

	return record, nil
}

func (r *performanceRepository) List(ctx context.Context, filter PerformanceFilter) ([]*domain.PerformanceRecord, error) {
	builder := r.selectBuilder().OrderBy("id ASC")

	if len(filter.IDs) > 0 {
		builder = builder.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.EntityType != "" {
		builder = builder.Where(squirrel.Eq{"entity_type": filter.EntityType})
	}
	if len(filter.EntityIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"entity_id": filter.EntityIDs})
	}
	if filter.PeriodType != "" {
		builder = builder.Where(squirrel.Eq{"period_type": filter.PeriodType})
	}
	if filter.IsTeamAggregate != nil {
		builder = builder.Where(squirrel.Eq{"is_team_aggregate": *filter.IsTeamAggregate})
	}
	if filter.TargetID != nil {
		builder = builder.Where(squirrel.Eq{"sales_target_id": *filter.TargetID})
	}
	if filter.ParentPerformanceID != nil {
		builder = builder.Where(squirrel.Eq{"parent_performance_id": *filter.ParentPerformanceID})
	}
	if filter.StartFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"period_start": *filter.StartFrom})
	}
	if filter.EndTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"period_end": *filter.EndTo})
	}
	if filter.Overlapping != nil {
		builder = builder.Where(squirrel.And{
			squirrel.LtOrEq{"period_start": filter.Overlapping.End},
			squirrel.GtOrEq{"period_end": filter.Overlapping.Start},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Queryer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a query")
	}
	defer rows.Close()

	records := make([]*domain.PerformanceRecord, 0)
	for rows.Next() {
		record, err := scanPerformance(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear performance")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return records, nil
}

// Save insere pela chave de unicidade quando o registro é novo ou atualiza pelo id
func (r *performanceRepository) Save(ctx context.Context, record *domain.PerformanceRecord) error {
	values, err := performanceValues(record)
	if err != nil {
		return err
	}

	if record.ID != 0 {
		return r.update(ctx, record, values)
	}

	query, args, err := squirrel.
		Insert(performanceTable).
		Columns(performanceColumns...).
		Values(values...).
		Suffix(`ON CONFLICT (` + performanceKey + `) DO UPDATE SET
			entity_name = EXCLUDED.entity_name,
			sales_target_id = EXCLUDED.sales_target_id,
			is_team_aggregate = EXCLUDED.is_team_aggregate,
			target_amount = EXCLUDED.target_amount,
			achieved_amount = EXCLUDED.achieved_amount,
			achievement_percentage = EXCLUDED.achievement_percentage,
			leads_count = EXCLUDED.leads_count,
			won_leads_count = EXCLUDED.won_leads_count,
			lost_leads_count = EXCLUDED.lost_leads_count,
			conversion_rate = EXCLUDED.conversion_rate,
			average_deal_size = EXCLUDED.average_deal_size,
			score = EXCLUDED.score,
			member_contributions = EXCLUDED.member_contributions,
			calculated_at = EXCLUDED.calculated_at,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "erro ao salvar performance")
	}

	return nil
}

// update grava pelo id sem tocar no vínculo com o time nem no ranking,
// que pertencem a SetParent e SetRanks
func (r *performanceRepository) update(ctx context.Context, record *domain.PerformanceRecord, values []any) error {
	query, args, err := performanceUpdate(record.ID, values).ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de atualização")
	}

	var rank sql.NullInt64
	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&record.UpdatedAt, &record.ParentPerformanceID, &rank)
	if postgres.IsUniqueViolation(err) {
		return errors.Wrapf(ErrDuplicateKey, "performance %d (%s)", record.ID, record.Key())
	}
	if err != nil {
		return errors.Wrapf(err, "erro ao atualizar performance %d", record.ID)
	}

	record.Rank = nil
	if rank.Valid {
		value := int(rank.Int64)
		record.Rank = &value
	}

	return nil
}

// linkColumns são mantidas por SetParent e SetRanks
var linkColumns = map[string]bool{
	"parent_performance_id": true,
	"rank":                  true,
}

func performanceUpdate(id int64, values []any) squirrel.UpdateBuilder {
	builder := squirrel.Update(performanceTable).PlaceholderFormat(squirrel.Dollar)
	for i, column := range performanceColumns {
		if linkColumns[column] {
			continue
		}
		builder = builder.Set(column, values[i])
	}

	return builder.
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING updated_at, parent_performance_id, rank")
}

func (r *performanceRepository) SetParent(ctx context.Context, ids []int64, parentID *int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := squirrel.
		Update(performanceTable).
		Set("parent_performance_id", parentID).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where("id = ANY(?)", pq.Array(ids)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de vínculo")
	}

	if _, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao vincular performances ao time")
	}

	return nil
}

func (r *performanceRepository) SetRanks(ctx context.Context, ranks map[int64]int) error {
	if len(ranks) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(ranks))
	values := make([]int64, 0, len(ranks))
	for id, rank := range ranks {
		ids = append(ids, id)
		values = append(values, int64(rank))
	}

	query := `UPDATE ` + performanceTable + ` sp SET rank = r.rank, updated_at = CURRENT_TIMESTAMP
		FROM (SELECT UNNEST($1::bigint[]) AS id, UNNEST($2::bigint[]) AS rank) r
		WHERE sp.id = r.id`

	if _, err := r.conn.Queryer(ctx).ExecContext(ctx, query, pq.Array(ids), pq.Array(values)); err != nil {
		return errors.Wrap(err, "erro ao atualizar ranking")
	}

	return nil
}

func (r *performanceRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := squirrel.
		Delete(performanceTable).
		Where("id = ANY(?)", pq.Array(ids)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de remoção")
	}

	if _, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "erro ao remover performances")
	}

	return nil
}

func (r *performanceRepository) ClearTarget(ctx context.Context, targetID int64) (int64, error) {
	query, args, err := squirrel.
		Update(performanceTable).
		Set("sales_target_id", nil).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"sales_target_id": targetID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao construir query")
	}

	result, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "erro ao limpar referência à meta %d", targetID)
	}

	return result.RowsAffected()
}

func performanceValues(p *domain.PerformanceRecord) ([]any, error) {
	contributions := p.MemberContributions
	if contributions == nil {
		contributions = []domain.MemberContribution{}
	}

	contributionsJSON, err := json.Marshal(contributions)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao serializar contribuições dos membros")
	}

	return []any{
		p.EntityType,
		p.EntityID,
		p.EntityName,
		p.TargetID,
		p.ParentPerformanceID,
		p.IsTeamAggregate,
		p.PeriodStart,
		p.PeriodEnd,
		p.PeriodType,
		p.TargetAmount,
		p.AchievedAmount,
		p.AchievementPct,
		p.LeadsCount,
		p.WonLeadsCount,
		p.LostLeadsCount,
		p.ConversionRate,
		p.AvgDealSize,
		p.Score,
		p.Rank,
		contributionsJSON,
		p.CalculatedAt,
		p.LastSyncedAt,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerformance(row scanner) (*domain.PerformanceRecord, error) {
	p := &domain.PerformanceRecord{}

	var (
		contributionsJSON []byte
		rank              sql.NullInt64
		periodStart       time.Time
		periodEnd         time.Time
	)

	err := row.Scan(
		&p.ID,
		&p.EntityType,
		&p.EntityID,
		&p.EntityName,
		&p.TargetID,
		&p.ParentPerformanceID,
		&p.IsTeamAggregate,
		&periodStart,
		&periodEnd,
		&p.PeriodType,
		&p.TargetAmount,
		&p.AchievedAmount,
		&p.AchievementPct,
		&p.LeadsCount,
		&p.WonLeadsCount,
		&p.LostLeadsCount,
		&p.ConversionRate,
		&p.AvgDealSize,
		&p.Score,
		&rank,
		&contributionsJSON,
		&p.CalculatedAt,
		&p.LastSyncedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PeriodStart = periodStart.UTC()
	p.PeriodEnd = periodEnd.UTC()

	if rank.Valid {
		value := int(rank.Int64)
		p.Rank = &value
	}

	if len(contributionsJSON) > 0 {
		if err := json.Unmarshal(contributionsJSON, &p.MemberContributions); err != nil {
			return nil, errors.Wrap(err, "erro ao deserializar contribuições dos membros")
		}
	}

	return p, nil
}
