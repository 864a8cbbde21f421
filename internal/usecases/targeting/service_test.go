package targeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository/memory"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
)

var (
	january   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	endOfJan  = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	reference = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)
)

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func newService(store *memory.Store, publisher events.Publisher) *Service {
	service := NewService(store.Targets(), store.Conversions(), store.Performances(), store, publisher)
	service.now = func() time.Time { return reference }
	return service
}

func individualTarget(amount float64) *domain.Target {
	return &domain.Target{
		Name:         "Meta de janeiro",
		Amount:       amount,
		AssigneeType: domain.EntityIndividual,
		AssigneeID:   7,
		StartDate:    january,
		EndDate:      endOfJan,
		PeriodType:   domain.PeriodMonthly,
	}
}

func addConversion(t *testing.T, store *memory.Store, leadID, targetID int64, amount float64) *domain.ConversionRecord {
	t.Helper()
	conversion := &domain.ConversionRecord{
		LeadID:   leadID,
		UserID:   7,
		TargetID: &targetID,
		Amount:   amount,
		Date:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Type:     domain.ConversionNewLogo,
		Counted:  true,
	}
	require.NoError(t, store.Conversions().Upsert(context.Background(), conversion))
	return conversion
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		target    *domain.Target
		wantErr   error
		wantEvent bool
	}{
		{
			name:      "Meta válida é criada ativa e publica todos os campos",
			target:    individualTarget(10000),
			wantEvent: true,
		},
		{
			name:    "Meta com valor zero é rejeitada",
			target:  individualTarget(0),
			wantErr: ErrInvalidTarget,
		},
		{
			name: "Meta com início depois do fim é rejeitada",
			target: func() *domain.Target {
				target := individualTarget(100)
				target.StartDate, target.EndDate = target.EndDate, target.StartDate
				return target
			}(),
			wantErr: ErrInvalidTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			publisher := &recordingPublisher{}
			service := newService(store, publisher)

			err := service.Create(context.Background(), tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, publisher.published)
				return
			}
			require.NoError(t, err)

			assert.NotZero(t, tt.target.ID)
			assert.Equal(t, domain.TargetActive, tt.target.Status)
			assert.NotNil(t, tt.target.LastCalculatedAt)

			require.Len(t, publisher.published, 1)
			event := publisher.published[0].(events.TargetChanged)
			assert.Equal(t, tt.target.ID, event.TargetID)
			assert.ElementsMatch(t, domain.RecalculationFields, event.ChangedFields)
		})
	}
}

func TestService_Update_PublishesChangedFields(t *testing.T) {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	service := newService(store, publisher)
	ctx := context.Background()

	target := individualTarget(10000)
	require.NoError(t, service.Create(ctx, target))

	renamed := *target
	renamed.Name = "Novo nome"
	require.NoError(t, service.Update(ctx, &renamed))

	raised := renamed
	raised.Amount = 20000
	require.NoError(t, service.Update(ctx, &raised))

	require.Len(t, publisher.published, 3)

	nameOnly := publisher.published[1].(events.TargetChanged)
	assert.Empty(t, nameOnly.ChangedFields)
	assert.False(t, nameOnly.Requires())

	amount := publisher.published[2].(events.TargetChanged)
	assert.Equal(t, []string{domain.FieldAmount}, amount.ChangedFields)
	assert.True(t, amount.Requires())
}

func TestService_Update_NotFound(t *testing.T) {
	service := newService(memory.NewStore(), nil)

	target := individualTarget(100)
	target.ID = 42

	err := service.Update(context.Background(), target)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestService_Delete_ClearsReferences(t *testing.T) {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	service := newService(store, publisher)
	ctx := context.Background()

	target := individualTarget(10000)
	require.NoError(t, service.Create(ctx, target))
	conversion := addConversion(t, store, 1, target.ID, 500)

	record := domain.NewPerformanceRecord(domain.PerformanceKey{
		EntityType: domain.EntityIndividual,
		EntityID:   7,
		Period:     target.Period(),
	})
	record.TargetID = &target.ID
	require.NoError(t, store.Performances().Save(ctx, record))

	require.NoError(t, service.Delete(ctx, target.ID))

	stored, err := store.Performances().GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.TargetID)

	storedConversion, err := store.Conversions().GetByID(ctx, conversion.ID)
	require.NoError(t, err)
	assert.Nil(t, storedConversion.TargetID)

	_, err = service.Get(ctx, target.ID)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	last := publisher.published[len(publisher.published)-1].(events.TargetChanged)
	assert.True(t, last.Deleted)
}

func TestService_UpdateAchievedAmount(t *testing.T) {
	tests := []struct {
		name         string
		conversions  []float64
		assignments  []float64
		wantLedger   float64
		wantAssigned float64
		wantAchieved float64
		wantProgress float64
	}{
		{
			name:         "Soma do ledger prevalece",
			conversions:  []float64{5000},
			wantLedger:   5000,
			wantAchieved: 5000,
			wantProgress: 50,
		},
		{
			name:         "Divisões da meta reportam valor maior",
			conversions:  []float64{2000},
			assignments:  []float64{3000, 1500},
			wantLedger:   2000,
			wantAssigned: 4500,
			wantAchieved: 4500,
			wantProgress: 45,
		},
		{
			name:         "Progresso limitado a 100",
			conversions:  []float64{8000, 7000},
			wantLedger:   15000,
			wantAchieved: 15000,
			wantProgress: 100,
		},
		{
			name:         "Sem conversões nem divisões",
			wantAchieved: 0,
			wantProgress: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			service := newService(store, nil)
			ctx := context.Background()

			target := individualTarget(10000)
			require.NoError(t, service.Create(ctx, target))

			for i, amount := range tt.conversions {
				addConversion(t, store, int64(i+1), target.ID, amount)
			}
			for i, amount := range tt.assignments {
				require.NoError(t, store.Targets().SaveAssignment(ctx, &domain.TargetAssignment{
					TargetID:       target.ID,
					AssigneeType:   domain.EntityIndividual,
					AssigneeID:     int64(100 + i),
					AchievedAmount: amount,
				}))
			}

			breakdown, err := service.UpdateAchievedAmount(ctx, target)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLedger, breakdown.LedgerSum)
			assert.Equal(t, tt.wantAssigned, breakdown.AssignmentSum)
			assert.Equal(t, tt.wantAchieved, target.AchievedAmount)
			assert.Equal(t, tt.wantProgress, target.ProgressPct)
			require.NotNil(t, target.LastCalculatedAt)
			assert.Equal(t, reference, *target.LastCalculatedAt)
		})
	}
}

func TestService_ToggleCountedRestoresAchieved(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)
	ctx := context.Background()

	target := individualTarget(10000)
	require.NoError(t, service.Create(ctx, target))
	addConversion(t, store, 1, target.ID, 3000)
	toggled := addConversion(t, store, 2, target.ID, 2000)

	_, err := service.UpdateAchievedAmount(ctx, target)
	require.NoError(t, err)
	original := target.AchievedAmount
	require.Equal(t, 5000.0, original)

	require.NoError(t, store.Conversions().SetCounted(ctx, toggled.ID, false))
	_, err = service.UpdateAchievedAmount(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, target.AchievedAmount)

	require.NoError(t, store.Conversions().SetCounted(ctx, toggled.ID, true))
	_, err = service.UpdateAchievedAmount(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, original, target.AchievedAmount)
}

func TestService_UpdateAssignmentAchievement(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)
	ctx := context.Background()

	target := individualTarget(10000)
	require.NoError(t, service.Create(ctx, target))

	assignment := &domain.TargetAssignment{
		TargetID:      target.ID,
		AssigneeType:  domain.EntityIndividual,
		AssigneeID:    7,
		AllocationPct: 60,
		IsPrimary:     true,
	}
	require.NoError(t, service.SaveAssignment(ctx, assignment))
	assert.Equal(t, 6000.0, assignment.AllocatedAmount)

	updated, err := service.UpdateAssignmentAchievement(ctx, assignment.ID, 2500)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.AchievedAmount)
	assert.Equal(t, 25.0, updated.ProgressPct)

	stored, err := service.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, stored.AchievedAmount)

	_, err = service.UpdateAssignmentAchievement(ctx, 999, 10)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestService_IsActive(t *testing.T) {
	service := newService(memory.NewStore(), nil)

	tests := []struct {
		name   string
		mutate func(*domain.Target)
		want   bool
	}{
		{name: "Ativa dentro do período", mutate: func(*domain.Target) {}, want: true},
		{name: "Pausada", mutate: func(t *domain.Target) { t.Status = domain.TargetPaused }, want: false},
		{name: "Período encerrado", mutate: func(t *domain.Target) {
			t.StartDate = january.AddDate(-1, 0, 0)
			t.EndDate = endOfJan.AddDate(-1, 0, 0)
		}, want: false},
		{name: "Último dia do período", mutate: func(t *domain.Target) { t.EndDate = reference }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := individualTarget(100)
			target.Status = domain.TargetActive
			tt.mutate(target)
			assert.Equal(t, tt.want, service.IsActive(target))
		})
	}
}

func TestService_HandleConversionRefreshesTarget(t *testing.T) {
	store := memory.NewStore()
	service := newService(store, nil)
	bus := events.NewBus()
	service.Register(bus)
	ctx := context.Background()

	target := individualTarget(10000)
	require.NoError(t, service.Create(ctx, target))
	conversion := addConversion(t, store, 1, target.ID, 2500)

	require.NoError(t, bus.Publish(ctx, events.ConversionRecorded{
		ConversionID: conversion.ID,
		UserID:       7,
		TargetID:     conversion.TargetID,
	}))

	stored, err := service.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, stored.AchievedAmount)
	assert.Equal(t, 25.0, stored.ProgressPct)

	// meta removida não interrompe a propagação
	require.NoError(t, bus.Publish(ctx, events.ConversionRevoked{TargetID: repository.Int64(999)}))
}
