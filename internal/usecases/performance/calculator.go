// Package performance calcula os registros de performance individuais e de times
package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

// Calculator mantém exatamente um registro de performance por entidade e período.
// Escritas no mesmo registro são serializadas por chave e cada cálculo roda em uma transação.
type Calculator struct {
	targets      repository.TargetRepository
	conversions  repository.ConversionRepository
	leads        repository.LeadRepository
	directory    repository.DirectoryRepository
	performances repository.PerformanceRepository
	tx           repository.Transactor
	resolver     *Resolver
	aggregator   *Aggregator
	metrics      *metrics.Recorder
	now          func() time.Time
}

func NewCalculator(repos repository.Repositories, tx repository.Transactor, recorder *metrics.Recorder) *Calculator {
	resolver := NewResolver(repos.Directory)
	aggregator := NewAggregator(resolver, repos.Performances, tx, recorder)

	return &Calculator{
		targets:      repos.Targets,
		conversions:  repos.Conversions,
		leads:        repos.Leads,
		directory:    repos.Directory,
		performances: repos.Performances,
		tx:           tx,
		resolver:     resolver,
		aggregator:   aggregator,
		metrics:      recorder,
		now:          time.Now,
	}
}

func (c *Calculator) Aggregator() *Aggregator {
	return c.aggregator
}

// SetClock troca a fonte de horário do cálculo e da agregação
func (c *Calculator) SetClock(now func() time.Time) {
	c.now = now
	c.aggregator.now = now
}

// RecalculateTarget recalcula a performance da meta informada
func (c *Calculator) RecalculateTarget(ctx context.Context, targetID int64) (*domain.PerformanceRecord, error) {
	target, err := c.targets.GetByID(ctx, targetID)
	if err != nil {
		return nil, NewCalculationError(err, CodeStorage, targetID, "erro ao buscar meta")
	}
	if target == nil {
		log.ForContext(ctx).WithField("target_id", targetID).Warn("Meta não encontrada para recálculo")
		return nil, NewCalculationError(ErrTargetNotFound, CodeNotFound, targetID, "")
	}

	return c.CalculateForTarget(ctx, target)
}

// CalculateForTarget despacha o cálculo conforme a variante do responsável pela meta
func (c *Calculator) CalculateForTarget(ctx context.Context, target *domain.Target) (*domain.PerformanceRecord, error) {
	started := time.Now()

	logger := log.ForContext(ctx).WithFields(logrus.Fields{
		"target_id":    target.ID,
		"entity_type":  target.AssigneeType,
		"entity_id":    target.AssigneeID,
		"period_start": target.StartDate.Format(time.DateOnly),
		"period_end":   target.EndDate.Format(time.DateOnly),
		"period_type":  target.PeriodType,
	})

	var (
		record *domain.PerformanceRecord
		err    error
	)

	entity, entityErr := target.Assignee()
	switch {
	case entityErr != nil:
		err = NewCalculationError(entityErr, CodeInvalidState, target.ID, "responsável inválido")
	case !target.Period().Range().Valid():
		err = NewCalculationError(ErrInvalidTarget, CodeInvalidState, target.ID, "período com início depois do fim")
	default:
		switch e := entity.(type) {
		case domain.IndividualEntity:
			record, err = c.calculateIndividual(ctx, target, e)
		case domain.TeamEntity:
			record, err = c.calculateTeam(ctx, target, e)
		case domain.RegionEntity:
			err = NewCalculationError(ErrRegionNotImplemented, CodeNotImplemented, target.ID, fmt.Sprintf("região %d", e.RegionID))
		}
	}

	duration := time.Since(started)
	logger = logger.WithField("duration", duration.String())

	switch {
	case err == nil:
		c.metrics.ObserveCalculation(string(target.AssigneeType), metrics.OutcomeSuccess, duration)
		logger.WithFields(logrus.Fields{
			"performance_id":  record.ID,
			"achieved_amount": record.AchievedAmount,
			"score":           record.Score,
		}).Debug("Performance recalculada")
	case IsSkippable(err):
		c.metrics.ObserveCalculation(string(target.AssigneeType), metrics.OutcomeSkipped, duration)
		logger.WithField("error", err.Error()).Warn("Cálculo de performance ignorado")
	default:
		c.metrics.ObserveCalculation(string(target.AssigneeType), metrics.OutcomeFailed, duration)
		logger.WithField("error", err.Error()).Error("Erro ao calcular performance")
	}

	return record, err
}

func (c *Calculator) calculateIndividual(ctx context.Context, target *domain.Target, entity domain.IndividualEntity) (*domain.PerformanceRecord, error) {
	name, err := c.resolver.ResolveName(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, NewCalculationError(err, CodeNotFound, target.ID, "")
		}
		return nil, NewCalculationError(err, CodeStorage, target.ID, "")
	}

	key := domain.PerformanceKey{
		EntityType: domain.EntityIndividual,
		EntityID:   entity.UserID,
		Period:     target.Period(),
	}

	targetID := target.ID
	record, err := c.writeIndividual(ctx, key, name, &targetID, target.Amount)
	if err != nil {
		return nil, NewCalculationError(err, CodeStorage, target.ID, "")
	}

	if err := c.cascadeToTeams(ctx, entity.UserID, target.Period()); err != nil {
		return record, NewCalculationError(err, CodeStorage, target.ID, "erro ao propagar para os times")
	}

	return record, nil
}

// writeIndividual faz o ciclo completo de leitura, cálculo e gravação do registro individual
func (c *Calculator) writeIndividual(ctx context.Context, key domain.PerformanceKey, name string, targetID *int64, targetAmount float64) (*domain.PerformanceRecord, error) {
	unlock := c.aggregator.locks.Lock(key.String())
	defer unlock()

	var record *domain.PerformanceRecord

	err := c.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := c.performances.GetByKey(ctx, key)
		if err != nil {
			return pkgerrors.Wrap(err, "erro ao buscar registro de performance")
		}
		record = existing
		if record == nil {
			record = domain.NewPerformanceRecord(key)
		}

		period := key.Period.Range()

		achieved, err := c.conversions.SumForUser(ctx, key.EntityID, period)
		if err != nil {
			return pkgerrors.Wrap(err, "erro ao somar conversões")
		}

		counts, err := c.leads.CountsForUser(ctx, key.EntityID, period)
		if err != nil {
			return pkgerrors.Wrap(err, "erro ao contar leads")
		}

		record.EntityName = name
		record.TargetID = targetID
		record.TargetAmount = targetAmount
		record.AchievedAmount = achieved
		record.LeadsCount = counts.Total
		record.WonLeadsCount = counts.Won
		record.LostLeadsCount = counts.Lost
		record.Recalculate(c.now())

		return pkgerrors.Wrap(c.performances.Save(ctx, record), "erro ao gravar registro de performance")
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// cascadeToTeams reagrega as metas de time ativas que se sobrepõem ao período do membro
func (c *Calculator) cascadeToTeams(ctx context.Context, userID int64, period domain.Period) error {
	memberships, err := c.directory.ListActiveMemberships(ctx, userID)
	if err != nil {
		return pkgerrors.Wrapf(err, "erro ao listar times do usuário %d", userID)
	}

	var errs []error
	for _, membership := range memberships {
		overlapping := period.Range()
		teamTargets, err := c.targets.List(ctx, repository.TargetFilter{
			Status:       domain.TargetActive,
			AssigneeType: domain.EntityTeam,
			AssigneeID:   membership.TeamID,
			Overlapping:  &overlapping,
		})
		if err != nil {
			errs = append(errs, pkgerrors.Wrapf(err, "erro ao listar metas do time %d", membership.TeamID))
			continue
		}

		for _, teamTarget := range teamTargets {
			_, err := c.CalculateForTarget(ctx, teamTarget)
			if err != nil && !IsSkippable(err) {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (c *Calculator) calculateTeam(ctx context.Context, target *domain.Target, entity domain.TeamEntity) (*domain.PerformanceRecord, error) {
	team, err := c.directory.GetTeam(ctx, entity.TeamID)
	if err != nil {
		return nil, NewCalculationError(err, CodeStorage, target.ID, "erro ao buscar time")
	}
	if team == nil {
		return nil, NewCalculationError(fmt.Errorf("%w: %d", ErrTeamNotFound, entity.TeamID), CodeNotFound, target.ID, "")
	}

	result, err := c.aggregator.Aggregate(ctx, team, target.Period(), target)
	if err != nil {
		return nil, NewCalculationError(err, CodeStorage, target.ID, "erro ao agregar time")
	}

	return result.Record, nil
}

// ReaggregateTeam reconstrói o agregado de um registro de time já existente
func (c *Calculator) ReaggregateTeam(ctx context.Context, record *domain.PerformanceRecord) (*AggregationResult, error) {
	switch record.EntityType {
	case domain.EntityTeam:
	case domain.EntityRegion:
		return nil, NewCalculationError(ErrRegionNotImplemented, CodeNotImplemented, 0, fmt.Sprintf("registro %d", record.ID))
	default:
		return nil, NewCalculationError(ErrNotTeamAggregate, CodeInvalidState, 0, fmt.Sprintf("registro %d", record.ID))
	}

	team, err := c.directory.GetTeam(ctx, record.EntityID)
	if err != nil {
		return nil, NewCalculationError(err, CodeStorage, 0, "erro ao buscar time")
	}
	if team == nil {
		return nil, NewCalculationError(fmt.Errorf("%w: %d", ErrTeamNotFound, record.EntityID), CodeNotFound, 0, "")
	}

	var target *domain.Target
	if record.TargetID != nil {
		target, err = c.targets.GetByID(ctx, *record.TargetID)
		if err != nil {
			return nil, NewCalculationError(err, CodeStorage, *record.TargetID, "erro ao buscar meta do time")
		}
	}

	return c.aggregator.Aggregate(ctx, team, record.Period(), target)
}
