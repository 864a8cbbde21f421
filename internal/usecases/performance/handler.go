package performance

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

// Register inscreve o recálculo de performance nos eventos que o exigem
func (c *Calculator) Register(bus *events.Bus) {
	bus.Subscribe(events.TargetChangedName, c.handleTargetChanged)
	bus.Subscribe(events.ConversionRecordedName, c.handleConversion)
	bus.Subscribe(events.ConversionRevokedName, c.handleConversion)
	bus.Subscribe(events.MembershipChangedName, c.handleMembershipChanged)
}

func (c *Calculator) handleTargetChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.TargetChanged)
	if !ok || e.Deleted || !e.Requires() {
		return nil
	}

	_, err := c.RecalculateTarget(ctx, e.TargetID)
	return err
}

func (c *Calculator) handleConversion(ctx context.Context, event events.Event) error {
	var (
		userID   int64
		targetID *int64
		date     time.Time
	)

	switch e := event.(type) {
	case events.ConversionRecorded:
		userID, targetID, date = e.UserID, e.TargetID, e.Date
	case events.ConversionRevoked:
		userID, targetID, date = e.UserID, e.TargetID, e.Date
	default:
		return nil
	}

	ids, err := c.affectedTargets(ctx, userID, targetID, date)
	if err != nil {
		return err
	}

	return c.recalculateEach(ctx, ids)
}

// affectedTargets reúne a meta vinculada à conversão e as metas individuais ativas
// do usuário cujo período contém a data da conversão
func (c *Calculator) affectedTargets(ctx context.Context, userID int64, targetID *int64, date time.Time) ([]int64, error) {
	seen := make(map[int64]bool)
	ids := make([]int64, 0, 2)

	if targetID != nil {
		seen[*targetID] = true
		ids = append(ids, *targetID)
	}

	if userID == 0 || date.IsZero() {
		return ids, nil
	}

	targets, err := c.targets.List(ctx, repository.TargetFilter{
		Status:       domain.TargetActive,
		AssigneeType: domain.EntityIndividual,
		AssigneeID:   userID,
		Overlapping:  &domain.DateRange{Start: date, End: date},
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "erro ao listar metas do usuário %d", userID)
	}

	for _, target := range targets {
		if !seen[target.ID] {
			seen[target.ID] = true
			ids = append(ids, target.ID)
		}
	}

	return ids, nil
}

func (c *Calculator) handleMembershipChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.MembershipChanged)
	if !ok {
		return nil
	}

	targets, err := c.targets.List(ctx, repository.TargetFilter{
		Status:       domain.TargetActive,
		AssigneeType: domain.EntityTeam,
		AssigneeID:   e.TeamID,
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "erro ao listar metas do time %d", e.TeamID)
	}

	ids := make([]int64, 0, len(targets))
	for _, target := range targets {
		ids = append(ids, target.ID)
	}

	return c.recalculateEach(ctx, ids)
}

// recalculateEach recalcula todas as metas; entidades ausentes são apenas registradas
func (c *Calculator) recalculateEach(ctx context.Context, ids []int64) error {
	var errs []error
	for _, id := range ids {
		if _, err := c.RecalculateTarget(ctx, id); err != nil {
			if IsSkippable(err) {
				log.ForContext(ctx).WithField("target_id", id).Debug("Recálculo ignorado")
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
