// Package ranking ordena os registros de performance e atribui as posições
package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

type RankingService interface {
	Rank(ctx context.Context, entityType domain.EntityType, periodType domain.PeriodType) (*Partition, error)
	RankAll(ctx context.Context) ([]*Partition, error)
}

// Partition é o resultado do ranqueamento de um par (tipo de entidade, tipo de período)
type Partition struct {
	EntityType  domain.EntityType `json:"entity_type"`
	PeriodType  domain.PeriodType `json:"period_type"`
	PeriodStart time.Time         `json:"period_start"`
	PeriodEnd   time.Time         `json:"period_end"`
	Ranked      int               `json:"ranked"`
}

type PerformanceRankingService struct {
	performances repository.PerformanceRepository
	metrics      *metrics.Recorder
	recentMonths int
	now          func() time.Time
}

func NewPerformanceRankingService(performances repository.PerformanceRepository, recorder *metrics.Recorder, recentMonths int) *PerformanceRankingService {
	return &PerformanceRankingService{
		performances: performances,
		metrics:      recorder,
		recentMonths: recentMonths,
		now:          time.Now,
	}
}

// Rank ranqueia os registros do período mais recente da partição.
// Times só competem com agregados de time e indivíduos só com registros individuais.
func (s *PerformanceRankingService) Rank(ctx context.Context, entityType domain.EntityType, periodType domain.PeriodType) (*Partition, error) {
	partition := &Partition{EntityType: entityType, PeriodType: periodType}

	records, err := s.performances.List(ctx, repository.PerformanceFilter{
		EntityType:      entityType,
		PeriodType:      periodType,
		IsTeamAggregate: repository.Bool(entityType == domain.EntityTeam),
		StartFrom:       s.cutoff(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao listar performances %s/%s", entityType, periodType)
	}

	latest := LatestPeriod(records)
	if len(latest) == 0 {
		return partition, nil
	}

	ranks := AssignRanks(latest)
	if err := s.performances.SetRanks(ctx, ranks); err != nil {
		return nil, errors.Wrapf(err, "erro ao gravar ranking %s/%s", entityType, periodType)
	}

	partition.PeriodStart = latest[0].PeriodStart
	partition.PeriodEnd = latest[0].PeriodEnd
	partition.Ranked = len(ranks)

	s.metrics.AddRanked(string(entityType), string(periodType), len(ranks))

	log.ForContext(ctx).WithFields(logrus.Fields{
		"entity_type":  entityType,
		"period_type":  periodType,
		"period_start": partition.PeriodStart.Format(time.DateOnly),
		"ranked":       partition.Ranked,
	}).Info("Ranking atualizado")

	return partition, nil
}

// RankAll ranqueia todas as partições presentes dentro da janela recente
func (s *PerformanceRankingService) RankAll(ctx context.Context) ([]*Partition, error) {
	records, err := s.performances.List(ctx, repository.PerformanceFilter{StartFrom: s.cutoff()})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar performances para ranking")
	}

	type partitionKey struct {
		entityType domain.EntityType
		periodType domain.PeriodType
	}

	seen := make(map[partitionKey]bool)
	keys := make([]partitionKey, 0)
	for _, record := range records {
		key := partitionKey{record.EntityType, record.PeriodType}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].entityType != keys[j].entityType {
			return keys[i].entityType < keys[j].entityType
		}
		return keys[i].periodType < keys[j].periodType
	})

	partitions := make([]*Partition, 0, len(keys))
	for _, key := range keys {
		partition, err := s.Rank(ctx, key.entityType, key.periodType)
		if err != nil {
			return partitions, err
		}
		partitions = append(partitions, partition)
	}

	return partitions, nil
}

// cutoff limita a busca aos últimos recentMonths meses; zero desliga o limite
func (s *PerformanceRankingService) cutoff() *time.Time {
	if s.recentMonths <= 0 {
		return nil
	}
	cutoff := utils.FirstDayOfMonth(s.now()).AddDate(0, -s.recentMonths, 0)
	return &cutoff
}

// LatestPeriod retorna os registros do período mais recente: maior início e, no empate, maior fim
func LatestPeriod(records []*domain.PerformanceRecord) []*domain.PerformanceRecord {
	var start, end time.Time
	for _, record := range records {
		if record.PeriodStart.After(start) || (record.PeriodStart.Equal(start) && record.PeriodEnd.After(end)) {
			start, end = record.PeriodStart, record.PeriodEnd
		}
	}

	latest := make([]*domain.PerformanceRecord, 0)
	for _, record := range records {
		if record.PeriodStart.Equal(start) && record.PeriodEnd.Equal(end) {
			latest = append(latest, record)
		}
	}
	return latest
}

// AssignRanks ordena por pontuação e atingimento (desc) e desempata por entidade e id (asc).
// As posições vão de 1 a N sem lacunas.
func AssignRanks(records []*domain.PerformanceRecord) map[int64]int {
	sorted := append([]*domain.PerformanceRecord(nil), records...)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.AchievementPct != b.AchievementPct {
			return a.AchievementPct > b.AchievementPct
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return a.ID < b.ID
	})

	ranks := make(map[int64]int, len(sorted))
	for i, record := range sorted {
		position := i + 1
		record.Rank = &position
		ranks[record.ID] = position
	}

	return ranks
}
