package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository/memory"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
	"go.uber.org/mock/gomock"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	published []events.Event
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return p.err
}

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestService_RecordConversion(t *testing.T) {
	closeDate := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lead      *domain.Lead
		setup     func(conversions *mocks.MockConversionRepository, targets *mocks.MockTargetRepository)
		wantNil   bool
		wantEvent bool
		validate  func(t *testing.T, c *domain.ConversionRecord)
	}{
		{
			name:    "Lead aberto não gera conversão",
			lead:    &domain.Lead{ID: 1, UserID: int64Ptr(7), Value: 500, Status: domain.LeadOpen},
			setup:   func(*mocks.MockConversionRepository, *mocks.MockTargetRepository) {},
			wantNil: true,
		},
		{
			name:    "Lead ganho sem responsável não gera conversão",
			lead:    &domain.Lead{ID: 2, Value: 500, Status: domain.LeadWon},
			setup:   func(*mocks.MockConversionRepository, *mocks.MockTargetRepository) {},
			wantNil: true,
		},
		{
			name: "Lead ganho vincula a meta de início mais recente",
			lead: &domain.Lead{ID: 3, UserID: int64Ptr(7), Value: 1234.567, Status: domain.LeadWon, CloseDate: timePtr(closeDate)},
			setup: func(conversions *mocks.MockConversionRepository, targets *mocks.MockTargetRepository) {
				targets.EXPECT().
					List(gomock.Any(), repository.TargetFilter{
						Status:       domain.TargetActive,
						AssigneeType: domain.EntityIndividual,
						AssigneeID:   7,
						Overlapping:  &domain.DateRange{Start: day, End: day},
					}).
					Return([]*domain.Target{
						{ID: 10, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
						{ID: 11, StartDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
						{ID: 12, StartDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
					}, nil)

				conversions.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *domain.ConversionRecord) error {
						c.ID = 99
						return nil
					})
			},
			wantEvent: true,
			validate: func(t *testing.T, c *domain.ConversionRecord) {
				assert.Equal(t, int64(99), c.ID)
				assert.Equal(t, int64(7), c.UserID)
				assert.Equal(t, 1234.57, c.Amount)
				assert.Equal(t, day, c.Date)
				assert.True(t, c.Counted)
				require.NotNil(t, c.TargetID)
				assert.Equal(t, int64(11), *c.TargetID)
			},
		},
		{
			name: "Lead ganho sem meta aplicável grava conversão sem vínculo",
			lead: &domain.Lead{ID: 4, UserID: int64Ptr(7), Value: 100, Status: domain.LeadWon, CloseDate: timePtr(closeDate)},
			setup: func(conversions *mocks.MockConversionRepository, targets *mocks.MockTargetRepository) {
				targets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
				conversions.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantEvent: true,
			validate: func(t *testing.T, c *domain.ConversionRecord) {
				assert.Nil(t, c.TargetID)
				assert.Equal(t, 100.0, c.Amount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			conversions := mocks.NewMockConversionRepository(ctrl)
			targets := mocks.NewMockTargetRepository(ctrl)
			publisher := &recordingPublisher{}
			tt.setup(conversions, targets)

			service := NewService(conversions, targets, passthroughTx{}, publisher)
			service.now = func() time.Time { return closeDate }

			result, err := service.RecordConversion(context.Background(), tt.lead)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, result)
				assert.Empty(t, publisher.published)
				return
			}

			require.NotNil(t, result)
			if tt.validate != nil {
				tt.validate(t, result)
			}
			if tt.wantEvent {
				require.Len(t, publisher.published, 1)
				event, ok := publisher.published[0].(events.ConversionRecorded)
				require.True(t, ok)
				assert.Equal(t, result.ID, event.ConversionID)
				assert.Equal(t, result.UserID, event.UserID)
			}
		})
	}
}

func TestService_RecordConversion_UsesNowWithoutCloseDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conversions := mocks.NewMockConversionRepository(ctrl)
	targets := mocks.NewMockTargetRepository(ctrl)
	now := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)

	targets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	conversions.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	service := NewService(conversions, targets, passthroughTx{}, nil)
	service.now = func() time.Time { return now }

	result, err := service.RecordConversion(context.Background(), &domain.Lead{ID: 1, UserID: int64Ptr(3), Value: 10, Status: domain.LeadWon})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), result.Date)
}

func TestService_RecordConversion_PublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conversions := mocks.NewMockConversionRepository(ctrl)
	targets := mocks.NewMockTargetRepository(ctrl)
	targets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	conversions.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	publisher := &recordingPublisher{err: errors.New("falha no recálculo")}
	service := NewService(conversions, targets, passthroughTx{}, publisher)

	result, err := service.RecordConversion(context.Background(), &domain.Lead{ID: 1, UserID: int64Ptr(3), Value: 10, Status: domain.LeadWon})
	assert.Error(t, err)
	assert.NotNil(t, result, "a conversão continua gravada mesmo com falha na propagação")
}

func TestService_RevokeLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conversions := mocks.NewMockConversionRepository(ctrl)
	targets := mocks.NewMockTargetRepository(ctrl)
	publisher := &recordingPublisher{}

	conversions.EXPECT().
		List(gomock.Any(), repository.ConversionFilter{LeadID: 5, Counted: repository.Bool(true)}).
		Return([]*domain.ConversionRecord{
			{ID: 1, LeadID: 5, UserID: 7, Counted: true},
			{ID: 2, LeadID: 5, UserID: 8, Counted: true},
		}, nil)
	conversions.EXPECT().SetCounted(gomock.Any(), int64(1), false).Return(nil)
	conversions.EXPECT().SetCounted(gomock.Any(), int64(2), false).Return(nil)

	service := NewService(conversions, targets, passthroughTx{}, publisher)

	revoked, err := service.RevokeLead(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, revoked)
	require.Len(t, publisher.published, 2)
	assert.Equal(t, events.ConversionRevokedName, publisher.published[0].Name())
}

func TestService_RevokeLead_NothingCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	conversions := mocks.NewMockConversionRepository(ctrl)
	conversions.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	publisher := &recordingPublisher{}
	service := NewService(conversions, mocks.NewMockTargetRepository(ctrl), passthroughTx{}, publisher)

	revoked, err := service.RevokeLead(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, revoked)
	assert.Empty(t, publisher.published)
}

func TestService_ToggleCounted(t *testing.T) {
	tests := []struct {
		name      string
		existing  *domain.ConversionRecord
		counted   bool
		wantErr   error
		wantEvent string
	}{
		{
			name:    "Conversão inexistente",
			counted: false,
			wantErr: ErrConversionNotFound,
		},
		{
			name:      "Desconsiderar conversão contada",
			existing:  &domain.ConversionRecord{ID: 1, UserID: 7, Counted: true},
			counted:   false,
			wantEvent: events.ConversionRevokedName,
		},
		{
			name:      "Restaurar conversão desconsiderada",
			existing:  &domain.ConversionRecord{ID: 1, UserID: 7, Counted: false},
			counted:   true,
			wantEvent: events.ConversionRecordedName,
		},
		{
			name:     "Sem alteração não publica evento",
			existing: &domain.ConversionRecord{ID: 1, UserID: 7, Counted: true},
			counted:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			conversions := mocks.NewMockConversionRepository(ctrl)
			conversions.EXPECT().GetByID(gomock.Any(), int64(1)).Return(tt.existing, nil)
			if tt.wantEvent != "" {
				conversions.EXPECT().SetCounted(gomock.Any(), int64(1), tt.counted).Return(nil)
			}

			publisher := &recordingPublisher{}
			service := NewService(conversions, mocks.NewMockTargetRepository(ctrl), passthroughTx{}, publisher)

			err := service.ToggleCounted(context.Background(), 1, tt.counted)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			if tt.wantEvent == "" {
				assert.Empty(t, publisher.published)
				return
			}
			require.Len(t, publisher.published, 1)
			assert.Equal(t, tt.wantEvent, publisher.published[0].Name())
		})
	}
}

func TestService_Aggregates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := NewService(store.Conversions(), store.Targets(), store, nil)

	january := domain.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	seed := []*domain.ConversionRecord{
		{LeadID: 1, UserID: 7, TargetID: int64Ptr(3), Amount: 1000, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Type: domain.ConversionNewLogo, Counted: true},
		{LeadID: 2, UserID: 7, TargetID: int64Ptr(3), Amount: 2500.5, Date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Type: domain.ConversionUpsell, Counted: true},
		{LeadID: 3, UserID: 7, TargetID: int64Ptr(3), Amount: 400, Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Type: domain.ConversionUpsell, Counted: true},
		{LeadID: 4, UserID: 7, Amount: 900, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Type: domain.ConversionNewLogo, Counted: true},
		{LeadID: 5, UserID: 8, TargetID: int64Ptr(3), Amount: 300, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Type: domain.ConversionRenewal, Counted: true},
	}
	for _, conversion := range seed {
		require.NoError(t, store.Conversions().Upsert(ctx, conversion))
	}
	// lead 3 desconsiderado não entra em nenhum total
	require.NoError(t, service.ToggleCounted(ctx, seed[2].ID, false))

	sumUser, err := service.SumForUser(ctx, 7, january)
	require.NoError(t, err)
	assert.Equal(t, 3500.5, sumUser)

	sumTarget, err := service.SumForTarget(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3800.5, sumTarget)

	counts, err := service.CountByType(ctx, 7, january)
	require.NoError(t, err)
	assert.Equal(t, map[domain.ConversionType]int{
		domain.ConversionNewLogo: 1,
		domain.ConversionUpsell:  1,
	}, counts)
}
