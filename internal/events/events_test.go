package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

func TestBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	calls := make([]string, 0)

	bus.Subscribe(TargetChangedName, func(_ context.Context, _ Event) error {
		calls = append(calls, "primeiro")
		return nil
	})
	bus.Subscribe(TargetChangedName, func(_ context.Context, _ Event) error {
		calls = append(calls, "segundo")
		return nil
	})
	bus.Subscribe(ConversionRecordedName, func(_ context.Context, _ Event) error {
		calls = append(calls, "outro evento")
		return nil
	})

	err := bus.Publish(context.Background(), TargetChanged{TargetID: 1})

	assert.NoError(t, err)
	assert.Equal(t, []string{"primeiro", "segundo"}, calls)
}

func TestBus_PublishContinuesAfterError(t *testing.T) {
	bus := NewBus()
	errBoom := errors.New("boom")
	called := false

	bus.Subscribe(ConversionRevokedName, func(context.Context, Event) error { return errBoom })
	bus.Subscribe(ConversionRevokedName, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := bus.Publish(context.Background(), ConversionRevoked{LeadID: 1})

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, called)
}

func TestTargetChanged_Requires(t *testing.T) {
	assert.True(t, TargetChanged{ChangedFields: []string{domain.FieldAmount}}.Requires())
	assert.True(t, TargetChanged{ChangedFields: []string{"name", domain.FieldStatus}}.Requires())
	assert.False(t, TargetChanged{ChangedFields: []string{"name", "achieved_amount"}}.Requires())
	assert.False(t, TargetChanged{}.Requires())
}
