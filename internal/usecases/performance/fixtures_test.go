package performance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository/memory"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

var (
	periodStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	fixedNow    = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	january     = domain.Period{Start: periodStart, End: periodEnd, Type: domain.PeriodMonthly}
)

type fixture struct {
	t          *testing.T
	ctx        context.Context
	store      *memory.Store
	calculator *Calculator
	nextLead   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	calculator := NewCalculator(store.Repositories(), store, nil)
	calculator.SetClock(func() time.Time { return fixedNow })

	return &fixture{t: t, ctx: context.Background(), store: store, calculator: calculator}
}

func (f *fixture) user(id int64, name string) {
	f.store.AddUser(domain.User{ID: id, Name: name, RoleName: "Vendedor", Active: true})
}

func (f *fixture) team(id int64, name string) {
	f.store.AddTeam(domain.Team{ID: id, Name: name})
}

func (f *fixture) member(teamID, userID int64, pct float64) {
	f.t.Helper()
	require.NoError(f.t, f.store.Directory().SaveMembership(f.ctx, &domain.TeamMembership{
		TeamID:          teamID,
		UserID:          userID,
		RoleName:        "Vendedor",
		ContributionPct: pct,
		Active:          true,
		JoinedAt:        periodStart,
	}))
}

func (f *fixture) target(assigneeType domain.EntityType, assigneeID int64, amount float64) *domain.Target {
	f.t.Helper()
	target := &domain.Target{
		Name:         "Meta",
		Amount:       amount,
		AssigneeType: assigneeType,
		AssigneeID:   assigneeID,
		StartDate:    periodStart,
		EndDate:      periodEnd,
		PeriodType:   domain.PeriodMonthly,
		Status:       domain.TargetActive,
	}
	require.NoError(f.t, f.store.Targets().Create(f.ctx, target))
	return target
}

func (f *fixture) conversion(userID int64, amount float64, day int) *domain.ConversionRecord {
	f.t.Helper()
	return f.conversionAt(userID, amount, time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC))
}

func (f *fixture) conversionAt(userID int64, amount float64, date time.Time) *domain.ConversionRecord {
	f.t.Helper()
	f.nextLead++
	conversion := &domain.ConversionRecord{
		LeadID:  f.nextLead,
		UserID:  userID,
		Amount:  amount,
		Date:    date,
		Type:    domain.ConversionNewLogo,
		Counted: true,
	}
	require.NoError(f.t, f.store.Conversions().Upsert(f.ctx, conversion))
	return conversion
}

func (f *fixture) lead(userID int64, status domain.LeadStatus, day int) {
	f.nextLead++
	f.store.AddLead(domain.Lead{
		ID:        f.nextLead,
		UserID:    &userID,
		Value:     100,
		Status:    status,
		CreatedAt: time.Date(2024, 1, day, 15, 0, 0, 0, time.UTC),
	})
}

func (f *fixture) record(entityType domain.EntityType, entityID int64) *domain.PerformanceRecord {
	f.t.Helper()
	record, err := f.store.Performances().GetByKey(f.ctx, domain.PerformanceKey{
		EntityType: entityType,
		EntityID:   entityID,
		Period:     january,
	})
	require.NoError(f.t, err)
	return record
}
