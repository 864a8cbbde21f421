// Package reporting monta as projeções de leitura dos painéis de performance.
// Ausência de dados é um estado válido: as consultas devolvem resultados zerados em vez de erro.
package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/ranking"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

const (
	defaultLeaderboardLimit = 10
	topPerformersLimit      = 5
)

type View string

const (
	ViewIndividual View = "individual"
	ViewTeam       View = "team"
	ViewBoth       View = "both"
	ViewTotal      View = "total"
)

// Query filtra os registros por intervalo de datas quando informado; caso contrário, pelo tipo de período
type Query struct {
	PeriodType domain.PeriodType
	Range      *domain.DateRange
}

func (q Query) periodType() domain.PeriodType {
	if q.PeriodType == "" {
		return domain.PeriodMonthly
	}
	return q.PeriodType
}

func (q Query) hasRange() bool {
	return q.Range != nil && q.Range.Valid()
}

// filter aplica o cruzamento de datas ou o tipo de período ao filtro base
func (q Query) filter(base repository.PerformanceFilter) repository.PerformanceFilter {
	if q.hasRange() {
		base.Overlapping = q.Range
		return base
	}
	base.PeriodType = q.periodType()
	return base
}

// startsWithin mantém os registros cujo início cai no intervalo, ou do tipo de período quando não há intervalo
func (q Query) startsWithin(record *domain.PerformanceRecord) bool {
	if q.hasRange() {
		return q.Range.Contains(record.PeriodStart)
	}
	return record.PeriodType == q.periodType()
}

// metricValues lista as métricas aceitas em Trends
var metricValues = map[string]func(*domain.PerformanceRecord) float64{
	"achievement_percentage": func(p *domain.PerformanceRecord) float64 { return p.AchievementPct },
	"achieved_amount":        func(p *domain.PerformanceRecord) float64 { return p.AchievedAmount },
	"target_amount":          func(p *domain.PerformanceRecord) float64 { return p.TargetAmount },
	"conversion_rate":        func(p *domain.PerformanceRecord) float64 { return p.ConversionRate },
	"average_deal_size":      func(p *domain.PerformanceRecord) float64 { return p.AvgDealSize },
	"score":                  func(p *domain.PerformanceRecord) float64 { return float64(p.Score) },
	"leads_count":            func(p *domain.PerformanceRecord) float64 { return float64(p.LeadsCount) },
	"won_leads_count":        func(p *domain.PerformanceRecord) float64 { return float64(p.WonLeadsCount) },
}

type Service struct {
	performances repository.PerformanceRepository
}

func NewService(performances repository.PerformanceRepository) Reporter {
	return &Service{performances: performances}
}

func (s *Service) list(ctx context.Context, filter repository.PerformanceFilter) ([]*domain.PerformanceRecord, error) {
	records, err := s.performances.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar performances")
	}
	return records, nil
}

func (s *Service) Summary(ctx context.Context, query Query) (*domain.PerformanceSummary, error) {
	records, err := s.list(ctx, query.filter(repository.PerformanceFilter{}))
	if err != nil {
		return nil, err
	}

	summary := &domain.PerformanceSummary{TotalRecords: len(records)}
	if len(records) == 0 {
		return summary, nil
	}

	var achievement, conversion float64
	for _, record := range records {
		summary.TotalTarget += record.TargetAmount
		summary.TotalAchieved += record.AchievedAmount
		achievement += record.AchievementPct
		conversion += record.ConversionRate
	}

	summary.TotalTarget = utils.RoundWithTwoDecimalPlace(summary.TotalTarget)
	summary.TotalAchieved = utils.RoundWithTwoDecimalPlace(summary.TotalAchieved)
	summary.OverallAchievement = utils.RoundWithTwoDecimalPlace(utils.Percentage(summary.TotalAchieved, summary.TotalTarget))
	summary.AverageAchievement = utils.RoundWithTwoDecimalPlace(achievement / float64(len(records)))
	summary.AverageConversion = utils.RoundWithTwoDecimalPlace(conversion / float64(len(records)))

	return summary, nil
}

func (s *Service) Leaderboard(ctx context.Context, entityType domain.EntityType, query Query, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	filter := repository.PerformanceFilter{
		EntityType:      entityType,
		PeriodType:      query.periodType(),
		IsTeamAggregate: repository.Bool(entityType == domain.EntityTeam),
	}
	if query.hasRange() {
		filter.StartFrom = &query.Range.Start
		filter.EndTo = &query.Range.End
	}

	records, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}

	// período mais recente de cada entidade
	latest := make(map[int64]*domain.PerformanceRecord)
	for _, record := range records {
		current, ok := latest[record.EntityID]
		if !ok || record.PeriodStart.After(current.PeriodStart) {
			latest[record.EntityID] = record
		}
	}

	candidates := make([]*domain.PerformanceRecord, 0, len(latest))
	for _, record := range latest {
		candidates = append(candidates, record)
	}
	positions := ranking.AssignRanks(candidates)

	entries := make([]domain.LeaderboardEntry, 0, len(candidates))
	for _, record := range candidates {
		entries = append(entries, domain.LeaderboardEntry{
			Position:       positions[record.ID],
			PerformanceID:  record.ID,
			EntityType:     record.EntityType,
			EntityID:       record.EntityID,
			EntityName:     record.EntityName,
			Score:          record.Score,
			AchievementPct: record.AchievementPct,
			AchievedAmount: record.AchievedAmount,
			TargetAmount:   record.TargetAmount,
			PeriodStart:    record.PeriodStart,
			PeriodEnd:      record.PeriodEnd,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func viewFilter(view View) ([]repository.PerformanceFilter, error) {
	individual := repository.PerformanceFilter{EntityType: domain.EntityIndividual, IsTeamAggregate: repository.Bool(false)}
	team := repository.PerformanceFilter{EntityType: domain.EntityTeam, IsTeamAggregate: repository.Bool(true)}

	switch view {
	case "", ViewIndividual:
		return []repository.PerformanceFilter{individual}, nil
	case ViewTeam:
		return []repository.PerformanceFilter{team}, nil
	case ViewBoth:
		return []repository.PerformanceFilter{individual, team}, nil
	case ViewTotal:
		return []repository.PerformanceFilter{{}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownView, view)
}

func (s *Service) TargetVsActual(ctx context.Context, view View, query Query) ([]domain.TargetVsActual, error) {
	filters, err := viewFilter(view)
	if err != nil {
		return nil, err
	}

	var records []*domain.PerformanceRecord
	for _, filter := range filters {
		found, err := s.list(ctx, query.filter(filter))
		if err != nil {
			return nil, err
		}
		records = append(records, found...)
	}

	if view == ViewTotal {
		if len(records) == 0 {
			return []domain.TargetVsActual{}, nil
		}
		total := domain.TargetVsActual{EntityName: "Total"}
		for _, record := range records {
			total.TargetAmount += record.TargetAmount
			total.AchievedAmount += record.AchievedAmount
		}
		total.TargetAmount = utils.RoundWithTwoDecimalPlace(total.TargetAmount)
		total.AchievedAmount = utils.RoundWithTwoDecimalPlace(total.AchievedAmount)
		total.AchievementPct = domain.AchievementPercentage(total.AchievedAmount, total.TargetAmount)
		return []domain.TargetVsActual{total}, nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.PeriodStart.Equal(b.PeriodStart) {
			return a.PeriodStart.Before(b.PeriodStart)
		}
		if a.AchievementPct != b.AchievementPct {
			return a.AchievementPct > b.AchievementPct
		}
		return a.ID < b.ID
	})

	rows := make([]domain.TargetVsActual, 0, len(records))
	for _, record := range records {
		rows = append(rows, domain.TargetVsActual{
			EntityType:     record.EntityType,
			EntityID:       record.EntityID,
			EntityName:     record.EntityName,
			TargetAmount:   record.TargetAmount,
			AchievedAmount: record.AchievedAmount,
			AchievementPct: record.AchievementPct,
			PeriodStart:    record.PeriodStart,
			PeriodEnd:      record.PeriodEnd,
			Rank:           record.Rank,
			Score:          record.Score,
		})
	}
	return rows, nil
}

func (s *Service) Trends(ctx context.Context, metric string, view View, query Query) ([]domain.TrendPoint, error) {
	value, ok := metricValues[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}

	filter := repository.PerformanceFilter{}
	if view == "" || view == ViewIndividual {
		filter.EntityType = domain.EntityIndividual
	}

	records, err := s.list(ctx, query.filter(filter))
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sum, min, max float64
		count         int
	}
	buckets := make(map[time.Time]*bucket)
	starts := make([]time.Time, 0)

	for _, record := range records {
		v := value(record)
		b, ok := buckets[record.PeriodStart]
		if !ok {
			b = &bucket{min: math.Inf(1), max: math.Inf(-1)}
			buckets[record.PeriodStart] = b
			starts = append(starts, record.PeriodStart)
		}
		b.sum += v
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
		b.count++
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	points := make([]domain.TrendPoint, 0, len(starts))
	for _, start := range starts {
		b := buckets[start]
		points = append(points, domain.TrendPoint{
			PeriodStart: start,
			Average:     utils.RoundWithTwoDecimalPlace(b.sum / float64(b.count)),
			Min:         b.min,
			Max:         b.max,
			Count:       b.count,
		})
	}
	return points, nil
}

// latest devolve o registro de início mais recente que passa no filtro da consulta
func latest(records []*domain.PerformanceRecord, query Query) *domain.PerformanceRecord {
	var found *domain.PerformanceRecord
	for _, record := range records {
		if !query.startsWithin(record) {
			continue
		}
		if found == nil || record.PeriodStart.After(found.PeriodStart) {
			found = record
		}
	}
	return found
}

func (s *Service) TeamWithMembers(ctx context.Context, teamID int64, query Query) (*domain.TeamBreakdown, error) {
	breakdown := &domain.TeamBreakdown{
		Members:       []*domain.PerformanceRecord{},
		Contributions: []domain.MemberContribution{},
	}

	records, err := s.list(ctx, repository.PerformanceFilter{
		EntityType:      domain.EntityTeam,
		EntityIDs:       []int64{teamID},
		IsTeamAggregate: repository.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	team := latest(records, query)
	if team == nil {
		return breakdown, nil
	}
	breakdown.Team = team
	if team.MemberContributions != nil {
		breakdown.Contributions = team.MemberContributions
	}

	members, err := s.list(ctx, repository.PerformanceFilter{
		EntityType:          domain.EntityIndividual,
		ParentPerformanceID: &team.ID,
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].AchievementPct > members[j].AchievementPct
	})
	breakdown.Members = members

	return breakdown, nil
}

func (s *Service) IndividualWithTeamContext(ctx context.Context, userID int64, query Query) (*domain.IndividualContext, error) {
	result := &domain.IndividualContext{}

	records, err := s.list(ctx, repository.PerformanceFilter{
		EntityType:      domain.EntityIndividual,
		EntityIDs:       []int64{userID},
		IsTeamAggregate: repository.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	individual := latest(records, query)
	if individual == nil {
		return result, nil
	}
	result.Individual = individual

	if individual.ParentPerformanceID == nil {
		return result, nil
	}

	team, err := s.performances.GetByID(ctx, *individual.ParentPerformanceID)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar performance do time %d", *individual.ParentPerformanceID)
	}
	if team == nil {
		return result, nil
	}
	result.Team = team

	for _, contribution := range team.MemberContributions {
		if contribution.UserID == userID {
			result.Share = utils.RoundWithTwoDecimalPlace(utils.Percentage(contribution.ContributedAmount, team.AchievedAmount))
			break
		}
	}

	return result, nil
}

func groupStats(records []*domain.PerformanceRecord) domain.GroupStats {
	stats := domain.GroupStats{Records: len(records), TopPerformers: []*domain.PerformanceRecord{}}
	if len(records) == 0 {
		return stats
	}

	var achievement float64
	for _, record := range records {
		stats.TotalTarget += record.TargetAmount
		stats.TotalAchieved += record.AchievedAmount
		achievement += record.AchievementPct
	}
	stats.TotalTarget = utils.RoundWithTwoDecimalPlace(stats.TotalTarget)
	stats.TotalAchieved = utils.RoundWithTwoDecimalPlace(stats.TotalAchieved)
	stats.AverageAchievement = utils.RoundWithTwoDecimalPlace(achievement / float64(len(records)))

	top := append([]*domain.PerformanceRecord(nil), records...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].AchievementPct > top[j].AchievementPct })
	if len(top) > topPerformersLimit {
		top = top[:topPerformersLimit]
	}
	stats.TopPerformers = top

	return stats
}

func (s *Service) Comparison(ctx context.Context, query Query) (*domain.Comparison, error) {
	individuals, err := s.list(ctx, repository.PerformanceFilter{
		EntityType:      domain.EntityIndividual,
		IsTeamAggregate: repository.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	teams, err := s.list(ctx, repository.PerformanceFilter{
		EntityType:      domain.EntityTeam,
		IsTeamAggregate: repository.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	comparison := &domain.Comparison{
		Individual: groupStats(within(individuals, query)),
		Team:       groupStats(within(teams, query)),
	}
	comparison.AchievementDelta = utils.RoundWithTwoDecimalPlace(comparison.Individual.AverageAchievement - comparison.Team.AverageAchievement)
	comparison.PerformanceGap = utils.RoundWithTwoDecimalPlace(
		(comparison.Individual.TotalAchieved + comparison.Team.TotalAchieved) -
			(comparison.Individual.TotalTarget + comparison.Team.TotalTarget),
	)

	return comparison, nil
}

func within(records []*domain.PerformanceRecord, query Query) []*domain.PerformanceRecord {
	out := make([]*domain.PerformanceRecord, 0, len(records))
	for _, record := range records {
		if query.startsWithin(record) {
			out = append(out, record)
		}
	}
	return out
}
