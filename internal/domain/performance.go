package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

// Pesos fixos da pontuação composta
const (
	achievementWeight = 0.5
	conversionWeight  = 0.3
	activityWeight    = 0.2
)

// PerformanceKey é a chave de unicidade de um registro de performance
type PerformanceKey struct {
	EntityType EntityType
	EntityID   int64
	Period     Period
}

func (k PerformanceKey) String() string {
	return fmt.Sprintf("%s:%d:%s", k.EntityType, k.EntityID, k.Period)
}

// MemberContribution é a participação de um membro no registro agregado do time.
// Pertence ao registro do time e é serializada junto com ele.
type MemberContribution struct {
	UserID            int64   `json:"user_id"`
	PerformanceID     int64   `json:"performance_id"`
	Name              string  `json:"name"`
	RoleName          string  `json:"role_name"`
	AchievedAmount    float64 `json:"achieved_amount"`
	ContributedAmount float64 `json:"contributed_amount"`
	TargetAmount      float64 `json:"target_amount"`
	ContributedTarget float64 `json:"contributed_target"`
	ContributionPct   float64 `json:"contribution_pct"`
	LeadsCount        int     `json:"leads_count"`
	WonLeadsCount     int     `json:"won_leads_count"`
	LostLeadsCount    int     `json:"lost_leads_count"`
}

type PerformanceRecord struct {
	ID                  int64                `json:"id"`
	EntityType          EntityType           `json:"entity_type"`
	EntityID            int64                `json:"entity_id"`
	EntityName          string               `json:"entity_name"`
	TargetID            *int64               `json:"target_id"`
	ParentPerformanceID *int64               `json:"parent_performance_id"`
	IsTeamAggregate     bool                 `json:"is_team_aggregate"`
	PeriodStart         time.Time            `json:"period_start"`
	PeriodEnd           time.Time            `json:"period_end"`
	PeriodType          PeriodType           `json:"period_type"`
	TargetAmount        float64              `json:"target_amount"`
	AchievedAmount      float64              `json:"achieved_amount"`
	AchievementPct      float64              `json:"achievement_percentage"`
	LeadsCount          int                  `json:"leads_count"`
	WonLeadsCount       int                  `json:"won_leads_count"`
	LostLeadsCount      int                  `json:"lost_leads_count"`
	ConversionRate      float64              `json:"conversion_rate"`
	AvgDealSize         float64              `json:"average_deal_size"`
	Score               int                  `json:"score"`
	Rank                *int                 `json:"rank"`
	MemberContributions []MemberContribution `json:"member_contributions"`
	CalculatedAt        *time.Time           `json:"calculated_at"`
	LastSyncedAt        *time.Time           `json:"last_synced_at"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func (p *PerformanceRecord) Key() PerformanceKey {
	return PerformanceKey{EntityType: p.EntityType, EntityID: p.EntityID, Period: p.Period()}
}

func (p *PerformanceRecord) Period() Period {
	return Period{Start: p.PeriodStart, End: p.PeriodEnd, Type: p.PeriodType}
}

// NewPerformanceRecord cria um registro vazio para a chave informada
func NewPerformanceRecord(key PerformanceKey) *PerformanceRecord {
	return &PerformanceRecord{
		EntityType:      key.EntityType,
		EntityID:        key.EntityID,
		PeriodStart:     key.Period.Start,
		PeriodEnd:       key.Period.End,
		PeriodType:      key.Period.Type,
		IsTeamAggregate: key.EntityType == EntityTeam,
	}
}

// Recalculate recomputa as métricas derivadas e marca os horários de cálculo
func (p *PerformanceRecord) Recalculate(now time.Time) {
	p.TargetAmount = utils.RoundWithTwoDecimalPlace(p.TargetAmount)
	p.AchievedAmount = utils.RoundWithTwoDecimalPlace(p.AchievedAmount)
	p.AchievementPct = AchievementPercentage(p.AchievedAmount, p.TargetAmount)
	p.ConversionRate = ConversionRate(p.WonLeadsCount, p.LeadsCount)
	p.AvgDealSize = AverageDealSize(p.AchievedAmount, p.WonLeadsCount)
	p.Score = Score(p.AchievementPct, p.ConversionRate, p.LeadsCount)
	p.CalculatedAt = &now
	p.LastSyncedAt = &now
}

// ContributedAchieved soma o valor contribuído pelos membros
func (p *PerformanceRecord) ContributedAchieved() float64 {
	var total float64
	for _, m := range p.MemberContributions {
		total += m.ContributedAmount
	}
	return total
}

func AchievementPercentage(achieved, target float64) float64 {
	return utils.RoundWithTwoDecimalPlace(utils.Percentage(achieved, target))
}

func ConversionRate(won, total int) float64 {
	if total <= 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(float64(won) / float64(total) * 100)
}

func AverageDealSize(achieved float64, won int) float64 {
	if won <= 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(achieved / float64(won))
}

// Score combina atingimento, qualidade de conversão e volume de atividade
func Score(achievementPct, conversionRate float64, leadsCount int) int {
	achievementScore := math.Min(100, achievementPct)
	conversionScore := math.Min(100, conversionRate*2)
	activityScore := math.Min(100, float64(leadsCount)/10*10)

	return int(math.Round(
		achievementScore*achievementWeight +
			conversionScore*conversionWeight +
			activityScore*activityWeight,
	))
}
