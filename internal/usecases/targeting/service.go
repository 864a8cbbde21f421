// Package targeting concentra o ciclo de vida das metas e o cache do valor atingido
package targeting

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

type Service struct {
	targets      repository.TargetRepository
	conversions  repository.ConversionRepository
	performances repository.PerformanceRepository
	tx           repository.Transactor
	publisher    events.Publisher
	now          func() time.Time
}

func NewService(
	targets repository.TargetRepository,
	conversions repository.ConversionRepository,
	performances repository.PerformanceRepository,
	tx repository.Transactor,
	publisher events.Publisher,
) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{
		targets:      targets,
		conversions:  conversions,
		performances: performances,
		tx:           tx,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Target, error) {
	target, err := s.targets.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar meta %d", id)
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}
	return target, nil
}

// Create valida e grava a meta já com o valor atingido calculado
func (s *Service) Create(ctx context.Context, target *domain.Target) error {
	if target.Status == "" {
		target.Status = domain.TargetActive
	}
	target.StartDate = utils.TruncateDay(target.StartDate)
	target.EndDate = utils.TruncateDay(target.EndDate)

	if err := target.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	// meta nova ainda não tem conversões vinculadas, mas pode ter divisões
	if _, err := s.UpdateAchievedAmount(ctx, target); err != nil {
		return err
	}

	if err := s.targets.Create(ctx, target); err != nil {
		return errors.Wrap(err, "erro ao criar meta")
	}

	logrus.WithFields(logrus.Fields{
		"target_id":     target.ID,
		"assignee_type": target.AssigneeType,
		"assignee_id":   target.AssigneeID,
		"amount":        target.Amount,
	}).Info("Meta criada")

	return s.publisher.Publish(ctx, events.TargetChanged{
		TargetID:      target.ID,
		ChangedFields: target.ChangedFields(nil),
	})
}

// Update grava a meta e publica apenas os campos alterados.
// O recálculo de performance só acontece quando algum campo relevante mudou.
func (s *Service) Update(ctx context.Context, target *domain.Target) error {
	previous, err := s.Get(ctx, target.ID)
	if err != nil {
		return err
	}

	target.StartDate = utils.TruncateDay(target.StartDate)
	target.EndDate = utils.TruncateDay(target.EndDate)

	if err := target.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	if _, err := s.UpdateAchievedAmount(ctx, target); err != nil {
		return err
	}

	if err := s.targets.Update(ctx, target); err != nil {
		return errors.Wrapf(err, "erro ao atualizar meta %d", target.ID)
	}

	changed := target.ChangedFields(previous)

	logrus.WithFields(logrus.Fields{
		"target_id":      target.ID,
		"changed_fields": changed,
	}).Info("Meta atualizada")

	return s.publisher.Publish(ctx, events.TargetChanged{
		TargetID:      target.ID,
		ChangedFields: changed,
	})
}

// Delete remove a meta e limpa as referências em performances e conversões
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.performances.ClearTarget(ctx, id); err != nil {
			return err
		}
		if _, err := s.conversions.ClearTarget(ctx, id); err != nil {
			return err
		}
		return s.targets.Delete(ctx, id)
	})
	if err != nil {
		return errors.Wrapf(err, "erro ao remover meta %d", id)
	}

	logrus.WithField("target_id", id).Info("Meta removida")

	return s.publisher.Publish(ctx, events.TargetChanged{TargetID: id, Deleted: true})
}

// UpdateAchievedAmount recalcula o valor atingido a partir das duas fontes
// (ledger e divisões da meta), atualiza o progresso e retorna o detalhamento.
// Não persiste a meta.
func (s *Service) UpdateAchievedAmount(ctx context.Context, target *domain.Target) (domain.AchievedBreakdown, error) {
	var ledgerSum, assignmentSum float64

	if target.ID != 0 {
		sum, err := s.conversions.SumForTarget(ctx, target.ID)
		if err != nil {
			return domain.AchievedBreakdown{}, errors.Wrapf(err, "erro ao somar conversões da meta %d", target.ID)
		}
		ledgerSum = sum

		assignments, err := s.targets.ListAssignments(ctx, target.ID)
		if err != nil {
			return domain.AchievedBreakdown{}, errors.Wrapf(err, "erro ao listar divisões da meta %d", target.ID)
		}
		for _, assignment := range assignments {
			assignmentSum += assignment.AchievedAmount
		}
	}

	breakdown := domain.ResolveAchieved(ledgerSum, utils.RoundWithTwoDecimalPlace(assignmentSum))
	if breakdown.AssignmentSum > breakdown.LedgerSum {
		logrus.WithFields(logrus.Fields{
			"target_id":      target.ID,
			"ledger_sum":     breakdown.LedgerSum,
			"assignment_sum": breakdown.AssignmentSum,
		}).Debug("Divisões da meta reportam valor maior que o ledger")
	}

	target.AchievedAmount = breakdown.Achieved
	target.UpdateProgress(s.now())

	return breakdown, nil
}

// RefreshAchieved recalcula e persiste o valor atingido de uma meta existente
func (s *Service) RefreshAchieved(ctx context.Context, id int64) (*domain.Target, error) {
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.UpdateAchievedAmount(ctx, target); err != nil {
		return nil, err
	}

	if err := s.targets.Update(ctx, target); err != nil {
		return nil, errors.Wrapf(err, "erro ao atualizar meta %d", id)
	}

	return target, nil
}

// UpdateAssignmentAchievement grava o atingido de uma divisão e propaga para a meta
func (s *Service) UpdateAssignmentAchievement(ctx context.Context, assignmentID int64, achieved float64) (*domain.Target, error) {
	assignment, err := s.targets.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar divisão %d", assignmentID)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	if achieved < 0 {
		achieved = 0
	}
	assignment.AchievedAmount = utils.RoundWithTwoDecimalPlace(achieved)

	if err := s.targets.SaveAssignment(ctx, assignment); err != nil {
		return nil, errors.Wrapf(err, "erro ao gravar divisão %d", assignmentID)
	}

	return s.RefreshAchieved(ctx, assignment.TargetID)
}

// SaveAssignment cria ou atualiza uma divisão da meta
func (s *Service) SaveAssignment(ctx context.Context, assignment *domain.TargetAssignment) error {
	target, err := s.Get(ctx, assignment.TargetID)
	if err != nil {
		return err
	}

	if assignment.AllocatedAmount == 0 && assignment.AllocationPct > 0 {
		assignment.AllocatedAmount = utils.RoundWithTwoDecimalPlace(target.Amount * assignment.AllocationPct / 100)
	}

	if err := s.targets.SaveAssignment(ctx, assignment); err != nil {
		return errors.Wrapf(err, "erro ao gravar divisão da meta %d", assignment.TargetID)
	}

	_, err = s.RefreshAchieved(ctx, assignment.TargetID)
	return err
}

func (s *Service) IsActive(target *domain.Target) bool {
	return target.IsActive(s.now())
}

// Register atualiza o cache de atingido das metas afetadas por conversões
func (s *Service) Register(bus *events.Bus) {
	bus.Subscribe(events.ConversionRecordedName, s.handleConversion)
	bus.Subscribe(events.ConversionRevokedName, s.handleConversion)
}

func (s *Service) handleConversion(ctx context.Context, event events.Event) error {
	var targetID *int64
	switch e := event.(type) {
	case events.ConversionRecorded:
		targetID = e.TargetID
	case events.ConversionRevoked:
		targetID = e.TargetID
	}

	if targetID == nil {
		return nil
	}

	_, err := s.RefreshAchieved(ctx, *targetID)
	if errors.Is(err, ErrTargetNotFound) {
		logrus.WithField("target_id", *targetID).Warn("Conversão vinculada a meta inexistente")
		return nil
	}
	return err
}
