// Package consistency reúne os reparos idempotentes, a ressincronização completa e a varredura de integridade
package consistency

import (
	"context"
	"time"

	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/performance"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/ranking"
)

// Recalculator é a parte do cálculo de performance usada pelos reparos
type Recalculator interface {
	RecalculateTarget(ctx context.Context, targetID int64) (*domain.PerformanceRecord, error)
	CalculateForTarget(ctx context.Context, target *domain.Target) (*domain.PerformanceRecord, error)
	ReaggregateTeam(ctx context.Context, record *domain.PerformanceRecord) (*performance.AggregationResult, error)
}

// TargetRefresher reconcilia o atingido da meta com o ledger de conversões
type TargetRefresher interface {
	RefreshAchieved(ctx context.Context, targetID int64) (*domain.Target, error)
}

type Options struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	// Deadline limita a ressincronização inteira; metas não iniciadas a tempo ficam para a próxima
	Deadline time.Duration
}

func OptionsFromConfig(cfg config.PerformanceSync) Options {
	return Options{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        time.Duration(cfg.JobTimeoutSeconds) * time.Second,
		Deadline:          time.Duration(cfg.DeadlineSeconds) * time.Second,
	}
}

// PolicyFromConfig monta a política de correção da varredura agendada
func PolicyFromConfig(cfg config.ConsistencySweep) domain.FixPolicy {
	if !cfg.AutoFix {
		return domain.FixPolicy{}
	}

	policy := domain.FixAll()
	policy.ClampNegativeAchieved = cfg.ClampNegativeAchieved
	policy.ExcludeInvalidConversions = cfg.ExcludeInvalidConversions
	policy.FillRoleNames = cfg.FillRoleNames
	return policy
}

type Service struct {
	targets      repository.TargetRepository
	conversions  repository.ConversionRepository
	directory    repository.DirectoryRepository
	performances repository.PerformanceRepository
	tx           repository.Transactor
	calculator   Recalculator
	refresher    TargetRefresher
	ranking      ranking.RankingService
	metrics      *metrics.Recorder
	options      Options
	now          func() time.Time
}

func NewService(
	repos repository.Repositories,
	tx repository.Transactor,
	calculator Recalculator,
	rankingService ranking.RankingService,
	recorder *metrics.Recorder,
	options Options,
) *Service {
	if options.MaxConcurrentJobs <= 0 {
		options.MaxConcurrentJobs = 1
	}

	return &Service{
		targets:      repos.Targets,
		conversions:  repos.Conversions,
		directory:    repos.Directory,
		performances: repos.Performances,
		tx:           tx,
		calculator:   calculator,
		ranking:      rankingService,
		metrics:      recorder,
		options:      options,
		now:          time.Now,
	}
}

// WithTargetRefresher faz a varredura reconciliar o atingido das metas afetadas pelas correções
func (s *Service) WithTargetRefresher(refresher TargetRefresher) *Service {
	s.refresher = refresher
	return s
}
