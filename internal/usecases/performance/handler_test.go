package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
)

func TestCalculator_HandleTargetChanged(t *testing.T) {
	tests := []struct {
		name       string
		event      events.TargetChanged
		wantRecord bool
	}{
		{
			name:       "Campo relevante alterado recalcula",
			event:      events.TargetChanged{ChangedFields: []string{domain.FieldAmount}},
			wantRecord: true,
		},
		{
			name:  "Apenas nome alterado não recalcula",
			event: events.TargetChanged{ChangedFields: []string{}},
		},
		{
			name:  "Meta removida não recalcula",
			event: events.TargetChanged{ChangedFields: domain.RecalculationFields, Deleted: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			bus := events.NewBus()
			f.calculator.Register(bus)
			f.user(7, "Ana")
			target := f.target(domain.EntityIndividual, 7, 10000)
			f.conversion(7, 1000, 2)

			tt.event.TargetID = target.ID
			require.NoError(t, bus.Publish(f.ctx, tt.event))

			record := f.record(domain.EntityIndividual, 7)
			if tt.wantRecord {
				require.NotNil(t, record)
				assert.Equal(t, 1000.0, record.AchievedAmount)
			} else {
				assert.Nil(t, record)
			}
		})
	}
}

func TestCalculator_HandleTargetChanged_PropagatesOnDemandFailure(t *testing.T) {
	f := newFixture(t)
	bus := events.NewBus()
	f.calculator.Register(bus)
	target := f.target(domain.EntityRegion, 1, 10000)

	err := bus.Publish(f.ctx, events.TargetChanged{TargetID: target.ID, ChangedFields: domain.RecalculationFields})
	assert.ErrorIs(t, err, ErrRegionNotImplemented)
}

func TestCalculator_HandleConversion(t *testing.T) {
	f := newFixture(t)
	bus := events.NewBus()
	f.calculator.Register(bus)
	f.user(7, "Ana")
	f.team(1, "Time Sul")
	f.member(1, 7, 50)
	f.target(domain.EntityIndividual, 7, 10000)
	f.target(domain.EntityTeam, 1, 10000)
	conversion := f.conversion(7, 4000, 15)

	require.NoError(t, bus.Publish(f.ctx, events.ConversionRecorded{
		ConversionID: conversion.ID,
		LeadID:       conversion.LeadID,
		UserID:       7,
		Date:         conversion.Date,
	}))

	individual := f.record(domain.EntityIndividual, 7)
	require.NotNil(t, individual)
	assert.Equal(t, 4000.0, individual.AchievedAmount)

	team := f.record(domain.EntityTeam, 1)
	require.NotNil(t, team)
	assert.Equal(t, 2000.0, team.AchievedAmount)

	require.NoError(t, f.store.Conversions().SetCounted(f.ctx, conversion.ID, false))
	require.NoError(t, bus.Publish(f.ctx, events.ConversionRevoked{
		ConversionID: conversion.ID,
		UserID:       7,
		Date:         conversion.Date,
	}))

	assert.Zero(t, f.record(domain.EntityIndividual, 7).AchievedAmount)
	assert.Zero(t, f.record(domain.EntityTeam, 1).AchievedAmount)
}

func TestCalculator_HandleConversion_OutsideAnyTarget(t *testing.T) {
	f := newFixture(t)
	bus := events.NewBus()
	f.calculator.Register(bus)
	f.user(7, "Ana")
	f.target(domain.EntityIndividual, 7, 10000)

	require.NoError(t, bus.Publish(f.ctx, events.ConversionRecorded{
		UserID: 7,
		Date:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}))

	assert.Nil(t, f.record(domain.EntityIndividual, 7))
}

func TestCalculator_HandleMembershipChanged(t *testing.T) {
	f := newFixture(t)
	bus := events.NewBus()
	f.calculator.Register(bus)
	f.user(7, "Ana")
	f.team(1, "Time Sul")
	f.target(domain.EntityTeam, 1, 10000)
	seedIndividual(f, 7, 6000, 10000)

	f.member(1, 7, 100)
	require.NoError(t, bus.Publish(f.ctx, events.MembershipChanged{TeamID: 1, UserID: 7}))
	assert.Equal(t, 6000.0, f.record(domain.EntityTeam, 1).AchievedAmount)

	f.member(1, 7, 25)
	require.NoError(t, bus.Publish(f.ctx, events.MembershipChanged{TeamID: 1, UserID: 7}))
	assert.Equal(t, 1500.0, f.record(domain.EntityTeam, 1).AchievedAmount)
}
