package consistency

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/performance"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

const deadlineReason = "deadline exceeded, will retry on next sync"

// FullResync recalcula todas as metas ativas e refaz o ranking.
// Metas individuais vão primeiro para que os agregados de time leiam valores atualizados.
// Falhas de uma meta não interrompem o lote.
func (s *Service) FullResync(ctx context.Context) (*domain.BatchReport, error) {
	ctx = log.WithRunID(ctx, utils.MustGenerateID())
	logger := log.ForContext(ctx)

	report := &domain.BatchReport{RunID: log.GetRunID(ctx), StartedAt: s.now()}
	started := time.Now()

	targets, err := s.targets.List(ctx, repository.TargetFilter{Status: domain.TargetActive})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao listar metas ativas")
	}

	var individuals, teams []*domain.Target
	for _, target := range targets {
		if target.AssigneeType == domain.EntityIndividual {
			individuals = append(individuals, target)
		} else {
			teams = append(teams, target)
		}
	}

	logger.WithFields(logrus.Fields{
		"individual_targets": len(individuals),
		"team_targets":       len(teams),
		"max_jobs":           s.options.MaxConcurrentJobs,
	}).Info("Iniciando ressincronização completa de performance")

	deadlineCtx := ctx
	if s.options.Deadline > 0 {
		var cancel context.CancelFunc
		deadlineCtx, cancel = context.WithTimeout(ctx, s.options.Deadline)
		defer cancel()
	}

	var mu sync.Mutex
	s.runPhase(deadlineCtx, individuals, report, &mu)
	s.runPhase(deadlineCtx, teams, report, &mu)

	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].TargetID < report.Items[j].TargetID
	})

	var rankErr error
	if s.ranking != nil {
		if _, err := s.ranking.RankAll(ctx); err != nil {
			rankErr = pkgerrors.Wrap(err, "erro ao refazer ranking")
		}
	}

	report.FinishedAt = s.now()
	duration := time.Since(started)
	s.metrics.ObserveBatch("full_resync", report.Succeeded, report.Failed, report.Skipped, duration)

	logger.WithFields(logrus.Fields{
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"skipped":   report.Skipped,
		"duration":  duration.String(),
	}).Info("Ressincronização completa de performance concluída")

	return report, rankErr
}

// runPhase processa as metas com no máximo MaxConcurrentJobs cálculos simultâneos
func (s *Service) runPhase(ctx context.Context, targets []*domain.Target, report *domain.BatchReport, mu *sync.Mutex) {
	add := func(item domain.BatchItemResult) {
		mu.Lock()
		report.Add(item)
		mu.Unlock()
	}

	semaphore := make(chan struct{}, s.options.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, target := range targets {
		if ctx.Err() != nil {
			add(domain.BatchItemResult{TargetID: target.ID, Status: domain.BatchItemSkipped, Error: deadlineReason})
			continue
		}

		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			add(domain.BatchItemResult{TargetID: target.ID, Status: domain.BatchItemSkipped, Error: deadlineReason})
			continue
		}

		wg.Add(1)
		go func(t *domain.Target) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			add(s.resyncTarget(ctx, t))
		}(target)
	}

	wg.Wait()
}

func (s *Service) resyncTarget(ctx context.Context, target *domain.Target) domain.BatchItemResult {
	jobCtx := ctx
	if s.options.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.options.JobTimeout)
		defer cancel()
	}

	_, err := s.calculator.CalculateForTarget(jobCtx, target)

	switch {
	case err == nil:
		return domain.BatchItemResult{TargetID: target.ID, Status: domain.BatchItemSucceeded}
	case performance.IsSkippable(err):
		return domain.BatchItemResult{TargetID: target.ID, Status: domain.BatchItemSkipped, Error: err.Error()}
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil:
		return domain.BatchItemResult{TargetID: target.ID, Status: domain.BatchItemSkipped, Error: deadlineReason}
	}

	log.ForContext(ctx).WithFields(logrus.Fields{
		"target_id": target.ID,
		"error":     err.Error(),
	}).Error("Erro ao ressincronizar meta")

	return domain.BatchItemResult{TargetID: target.ID, Status: domain.BatchItemFailed, Error: err.Error()}
}
