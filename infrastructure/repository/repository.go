// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

//go:generate mockgen -destination=mocks/repository_mock.go -package=mocks github.com/vfg2006/sales-performance-engine/infrastructure/repository ConversionRepository,TargetRepository,PerformanceRepository,DirectoryRepository,LeadRepository

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrDuplicateKey indica que a escrita colidiria com outro registro da mesma chave natural
var ErrDuplicateKey = errors.New("duplicate natural key")

// Transactor delimita uma transação propagada pelo contexto
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PerformanceFilter struct {
	IDs                 []int64
	EntityType          domain.EntityType
	EntityIDs           []int64
	PeriodType          domain.PeriodType
	IsTeamAggregate     *bool
	TargetID            *int64
	ParentPerformanceID *int64
	// StartFrom filtra period_start >= StartFrom
	StartFrom *time.Time
	// EndTo filtra period_end <= EndTo
	EndTo *time.Time
	// Overlapping mantém os períodos que cruzam o intervalo
	Overlapping *domain.DateRange
}

type TargetFilter struct {
	IDs          []int64
	Status       domain.TargetStatus
	AssigneeType domain.EntityType
	AssigneeID   int64
	Overlapping  *domain.DateRange
}

type ConversionFilter struct {
	LeadID   int64
	UserID   int64
	TargetID *int64
	Counted  *bool
	Range    *domain.DateRange
}

func Bool(b bool) *bool { return &b }

func Int64(i int64) *int64 { return &i }

// Repositories agrupa os repositórios usados pelos casos de uso
type Repositories struct {
	Targets      TargetRepository
	Conversions  ConversionRepository
	Leads        LeadRepository
	Directory    DirectoryRepository
	Performances PerformanceRepository
}
