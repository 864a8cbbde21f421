package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository/memory"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

func newTestEngine(t *testing.T) (*engine, *memory.Store, *config.Config) {
	t.Helper()
	log.SetupTestLogger()

	cfg := &config.Config{
		PerformanceSync:  config.PerformanceSync{MaxConcurrentJobs: 2},
		ConsistencySweep: config.ConsistencySweep{AutoFix: true, ClampNegativeAchieved: true},
	}
	store := memory.NewStore()

	return newEngine(cfg, store.Repositories(), store, nil), store, cfg
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{
			name: "sem argumentos sobe o worker",
			args: nil,
			want: options{},
		},
		{
			name: "recalcular meta",
			args: []string{"--run=recalculate", "--target-id=42"},
			want: options{command: commandRecalculate, targetID: 42},
		},
		{
			name: "varredura com correção",
			args: []string{"--run", "sweep", "--fix"},
			want: options{command: commandSweep, fix: true},
		},
		{
			name: "saída de membro do time",
			args: []string{"--run=leave-team", "--team-id=1", "--user-id=8"},
			want: options{command: commandLeaveTeam, teamID: 1, userID: 8},
		},
		{
			name: "resumo trimestral",
			args: []string{"--run=report", "--period-type=quarterly"},
			want: options{command: commandReport, periodType: "quarterly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFlags(tt.args))
		})
	}
}

func TestRunCommand_Errors(t *testing.T) {
	eng, _, cfg := newTestEngine(t)

	tests := []struct {
		name    string
		opts    options
		wantErr error
	}{
		{
			name:    "comando desconhecido",
			opts:    options{command: "deploy"},
			wantErr: ErrUnknownCommand,
		},
		{
			name: "recalculate sem meta",
			opts: options{command: commandRecalculate},
		},
		{
			name: "sync-lead sem lead",
			opts: options{command: commandSyncLead},
		},
		{
			name: "lead inexistente",
			opts: options{command: commandSyncLead, leadID: 99},
		},
		{
			name: "leave-team sem usuário",
			opts: options{command: commandLeaveTeam, teamID: 1},
		},
		{
			name: "report com período inválido",
			opts: options{command: commandReport, periodType: "decadal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runCommand(context.Background(), eng, cfg, tt.opts, &out)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestRunCommand_SyncLeadAndRecalculate(t *testing.T) {
	eng, store, cfg := newTestEngine(t)
	ctx := context.Background()

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	store.AddUser(domain.User{ID: 7, Name: "Ana", Active: true})
	target := &domain.Target{
		Name:         "Meta mensal",
		Amount:       10000,
		AssigneeType: domain.EntityIndividual,
		AssigneeID:   7,
		StartDate:    start,
		EndDate:      end,
		PeriodType:   domain.PeriodMonthly,
		Status:       domain.TargetActive,
	}
	require.NoError(t, store.Targets().Create(ctx, target))

	userID := int64(7)
	closeDate := start.AddDate(0, 0, 2)
	store.AddLead(domain.Lead{ID: 1, UserID: &userID, Value: 5000, Status: domain.LeadWon, CloseDate: &closeDate, CreatedAt: start})

	var out bytes.Buffer
	require.NoError(t, runCommand(ctx, eng, cfg, options{command: commandSyncLead, leadID: 1}, &out))
	assert.Contains(t, out.String(), `"convertible": true`)

	out.Reset()
	require.NoError(t, runCommand(ctx, eng, cfg, options{command: commandRecalculate, targetID: target.ID}, &out))

	var record domain.PerformanceRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, 5000.0, record.AchievedAmount)
	assert.Equal(t, 10000.0, record.TargetAmount)
	assert.Equal(t, domain.EntityIndividual, record.EntityType)
	assert.Equal(t, int64(7), record.EntityID)

	out.Reset()
	require.NoError(t, runCommand(ctx, eng, cfg, options{command: commandValidate}, &out))
	assert.JSONEq(t, "[]", out.String())
}

func TestRunCommand_LeaveTeamAndReport(t *testing.T) {
	eng, store, cfg := newTestEngine(t)
	ctx := context.Background()

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	store.AddTeam(domain.Team{ID: 1, Name: "Time Sul"})
	store.AddUser(domain.User{ID: 7, Name: "Ana", RoleName: "Vendedora", Active: true})
	store.AddUser(domain.User{ID: 8, Name: "Bruno", RoleName: "Vendedor", Active: true})

	newTarget := func(assigneeType domain.EntityType, assigneeID int64, amount float64) *domain.Target {
		target := &domain.Target{
			Name:         "Meta mensal",
			Amount:       amount,
			AssigneeType: assigneeType,
			AssigneeID:   assigneeID,
			StartDate:    start,
			EndDate:      end,
			PeriodType:   domain.PeriodMonthly,
			Status:       domain.TargetActive,
		}
		require.NoError(t, store.Targets().Create(ctx, target))
		return target
	}
	ana := newTarget(domain.EntityIndividual, 7, 10000)
	bruno := newTarget(domain.EntityIndividual, 8, 10000)
	team := newTarget(domain.EntityTeam, 1, 20000)

	for userID, amount := range map[int64]float64{7: 5000, 8: 3000} {
		require.NoError(t, store.Conversions().Upsert(ctx, &domain.ConversionRecord{
			LeadID:  userID,
			UserID:  userID,
			Amount:  amount,
			Date:    start.AddDate(0, 0, 2),
			Type:    domain.ConversionNewLogo,
			Counted: true,
		}))
		require.NoError(t, eng.membership.Save(ctx, &domain.TeamMembership{
			TeamID:          1,
			UserID:          userID,
			ContributionPct: 100,
			Active:          true,
		}))
	}

	var out bytes.Buffer
	for _, id := range []int64{ana.ID, bruno.ID} {
		out.Reset()
		require.NoError(t, runCommand(ctx, eng, cfg, options{command: commandRecalculate, targetID: id}, &out))
	}

	teamKey := domain.PerformanceKey{EntityType: domain.EntityTeam, EntityID: 1, Period: team.Period()}
	record, err := store.Performances().GetByKey(ctx, teamKey)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 8000.0, record.AchievedAmount)

	out.Reset()
	require.NoError(t, runCommand(ctx, eng, cfg, options{command: commandLeaveTeam, teamID: 1, userID: 8}, &out))
	assert.Contains(t, out.String(), `"active": false`)

	record, err = store.Performances().GetByKey(ctx, teamKey)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, record.AchievedAmount)
	require.Len(t, record.MemberContributions, 1)
	assert.Equal(t, int64(7), record.MemberContributions[0].UserID)

	out.Reset()
	require.NoError(t, runCommand(ctx, eng, cfg, options{command: commandReport}, &out))

	var summary domain.PerformanceSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, 40000.0, summary.TotalTarget)
	assert.Equal(t, 13000.0, summary.TotalAchieved)
}
