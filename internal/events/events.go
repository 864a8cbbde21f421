// Package events publica as mudanças que disparam recálculo de performance
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

const (
	TargetChangedName      = "target.changed"
	ConversionRecordedName = "conversion.recorded"
	ConversionRevokedName  = "conversion.revoked"
	MembershipChangedName  = "membership.changed"
)

type Event interface {
	Name() string
}

// TargetChanged é publicado na criação, alteração ou remoção de uma meta
type TargetChanged struct {
	TargetID      int64
	ChangedFields []string
	Deleted       bool
}

func (TargetChanged) Name() string { return TargetChangedName }

// Requires indica se algum campo alterado exige recálculo
func (e TargetChanged) Requires() bool {
	for _, changed := range e.ChangedFields {
		for _, field := range domain.RecalculationFields {
			if changed == field {
				return true
			}
		}
	}
	return false
}

type ConversionRecorded struct {
	ConversionID int64
	LeadID       int64
	UserID       int64
	TargetID     *int64
	Date         time.Time
}

func (ConversionRecorded) Name() string { return ConversionRecordedName }

// ConversionRevoked é publicado quando uma conversão deixa de contar
type ConversionRevoked struct {
	ConversionID int64
	LeadID       int64
	UserID       int64
	TargetID     *int64
	Date         time.Time
}

func (ConversionRevoked) Name() string { return ConversionRevokedName }

type MembershipChanged struct {
	TeamID int64
	UserID int64
}

func (MembershipChanged) Name() string { return MembershipChangedName }

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus entrega os eventos de forma síncrona, na ordem de inscrição dos handlers
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Publish executa todos os handlers mesmo quando algum falha e agrega os erros
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Name()]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			logrus.WithFields(logrus.Fields{
				"event": event.Name(),
				"error": err.Error(),
			}).Error("Erro ao processar evento")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Nop descarta os eventos
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
