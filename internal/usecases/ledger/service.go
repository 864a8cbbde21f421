// Package ledger mantém o registro de conversões, fonte do valor atingido
package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

type Service struct {
	conversions repository.ConversionRepository
	targets     repository.TargetRepository
	tx          repository.Transactor
	publisher   events.Publisher
	now         func() time.Time
}

func NewService(
	conversions repository.ConversionRepository,
	targets repository.TargetRepository,
	tx repository.Transactor,
	publisher events.Publisher,
) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{
		conversions: conversions,
		targets:     targets,
		tx:          tx,
		publisher:   publisher,
		now:         time.Now,
	}
}

// RecordConversion grava (ou atualiza) a conversão de um lead ganho.
// Leads não ganhos, sem responsável ou sem valor são ignorados e retornam nil.
func (s *Service) RecordConversion(ctx context.Context, lead *domain.Lead) (*domain.ConversionRecord, error) {
	if lead == nil {
		return nil, ErrLeadRequired
	}

	if !lead.Convertible() {
		logrus.WithFields(logrus.Fields{
			"lead_id": lead.ID,
			"status":  lead.Status,
			"value":   lead.Value,
		}).Debug("Lead não gera conversão")
		return nil, nil
	}

	date := s.now()
	if lead.CloseDate != nil {
		date = *lead.CloseDate
	}
	date = utils.TruncateDay(date)

	conversion := &domain.ConversionRecord{
		LeadID:  lead.ID,
		UserID:  *lead.UserID,
		Amount:  utils.RoundWithTwoDecimalPlace(lead.Value),
		Date:    date,
		Type:    domain.ConversionNewLogo,
		Counted: true,
	}

	target, err := s.applicableTarget(ctx, conversion.UserID, date)
	if err != nil {
		return nil, err
	}
	if target != nil {
		conversion.TargetID = &target.ID
	}

	if err := s.conversions.Upsert(ctx, conversion); err != nil {
		return nil, errors.Wrapf(err, "erro ao registrar conversão do lead %d", lead.ID)
	}

	logrus.WithFields(logrus.Fields{
		"conversion_id": conversion.ID,
		"lead_id":       lead.ID,
		"user_id":       conversion.UserID,
		"amount":        conversion.Amount,
	}).Info("Conversão registrada")

	err = s.publisher.Publish(ctx, events.ConversionRecorded{
		ConversionID: conversion.ID,
		LeadID:       conversion.LeadID,
		UserID:       conversion.UserID,
		TargetID:     conversion.TargetID,
		Date:         conversion.Date,
	})
	if err != nil {
		return conversion, errors.Wrap(err, "conversão registrada, mas o recálculo falhou")
	}

	return conversion, nil
}

// applicableTarget escolhe a meta individual ativa do usuário cujo período contém a data.
// Havendo mais de uma, vence a de início mais recente e, no empate, a de menor id.
func (s *Service) applicableTarget(ctx context.Context, userID int64, date time.Time) (*domain.Target, error) {
	candidates, err := s.targets.List(ctx, repository.TargetFilter{
		Status:       domain.TargetActive,
		AssigneeType: domain.EntityIndividual,
		AssigneeID:   userID,
		Overlapping:  &domain.DateRange{Start: date, End: date},
	})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar meta aplicável")
	}

	var chosen *domain.Target
	for _, candidate := range candidates {
		if chosen == nil || candidate.StartDate.After(chosen.StartDate) {
			chosen = candidate
		}
	}

	return chosen, nil
}

// SyncLead aplica o estado atual do lead: ganho grava a conversão, qualquer outro revoga
func (s *Service) SyncLead(ctx context.Context, lead *domain.Lead) error {
	if lead == nil {
		return ErrLeadRequired
	}

	if lead.Convertible() {
		_, err := s.RecordConversion(ctx, lead)
		return err
	}

	_, err := s.RevokeLead(ctx, lead.ID)
	return err
}

// RevokeLead desconsidera todas as conversões do lead sem apagá-las
func (s *Service) RevokeLead(ctx context.Context, leadID int64) (int, error) {
	conversions, err := s.conversions.List(ctx, repository.ConversionFilter{
		LeadID:  leadID,
		Counted: repository.Bool(true),
	})
	if err != nil {
		return 0, errors.Wrapf(err, "erro ao listar conversões do lead %d", leadID)
	}

	if len(conversions) == 0 {
		return 0, nil
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, conversion := range conversions {
			if err := s.conversions.SetCounted(ctx, conversion.ID, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "erro ao revogar conversões do lead %d", leadID)
	}

	logrus.WithFields(logrus.Fields{
		"lead_id":     leadID,
		"conversions": len(conversions),
	}).Info("Conversões do lead desconsideradas")

	var errs []error
	for _, conversion := range conversions {
		if err := s.publisher.Publish(ctx, revoked(conversion)); err != nil {
			errs = append(errs, err)
		}
	}

	return len(conversions), joinErrors(errs)
}

// ToggleCounted inclui ou exclui a conversão dos totais mantendo o histórico
func (s *Service) ToggleCounted(ctx context.Context, id int64, counted bool) error {
	conversion, err := s.conversions.GetByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "erro ao buscar conversão %d", id)
	}
	if conversion == nil {
		return ErrConversionNotFound
	}

	if conversion.Counted == counted {
		return nil
	}

	if err := s.conversions.SetCounted(ctx, id, counted); err != nil {
		return errors.Wrapf(err, "erro ao atualizar conversão %d", id)
	}
	conversion.Counted = counted

	if counted {
		return s.publisher.Publish(ctx, events.ConversionRecorded{
			ConversionID: conversion.ID,
			LeadID:       conversion.LeadID,
			UserID:       conversion.UserID,
			TargetID:     conversion.TargetID,
			Date:         conversion.Date,
		})
	}

	return s.publisher.Publish(ctx, revoked(conversion))
}

func (s *Service) SumForUser(ctx context.Context, userID int64, period domain.DateRange) (float64, error) {
	return s.conversions.SumForUser(ctx, userID, period)
}

func (s *Service) SumForTarget(ctx context.Context, targetID int64) (float64, error) {
	return s.conversions.SumForTarget(ctx, targetID)
}

func (s *Service) CountByType(ctx context.Context, userID int64, period domain.DateRange) (map[domain.ConversionType]int, error) {
	return s.conversions.CountByType(ctx, userID, period)
}

func revoked(c *domain.ConversionRecord) events.ConversionRevoked {
	return events.ConversionRevoked{
		ConversionID: c.ID,
		LeadID:       c.LeadID,
		UserID:       c.UserID,
		TargetID:     c.TargetID,
		Date:         c.Date,
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errs[0], "erro ao propagar revogação")
}
