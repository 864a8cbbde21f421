package reporting

import (
	"context"

	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

// Reporter define as projeções somente leitura usadas pelos painéis
type Reporter interface {
	// Summary totaliza metas e atingidos do filtro
	Summary(ctx context.Context, query Query) (*domain.PerformanceSummary, error)

	// Leaderboard retorna as melhores entidades considerando o período mais recente de cada uma
	Leaderboard(ctx context.Context, entityType domain.EntityType, query Query, limit int) ([]domain.LeaderboardEntry, error)

	// TargetVsActual compara meta e realizado por registro, ou em uma linha única na visão total
	TargetVsActual(ctx context.Context, view View, query Query) ([]domain.TargetVsActual, error)

	// Trends agrega uma métrica por início de período
	Trends(ctx context.Context, metric string, view View, query Query) ([]domain.TrendPoint, error)

	TeamWithMembers(ctx context.Context, teamID int64, query Query) (*domain.TeamBreakdown, error)

	IndividualWithTeamContext(ctx context.Context, userID int64, query Query) (*domain.IndividualContext, error)

	Comparison(ctx context.Context, query Query) (*domain.Comparison, error)
}
