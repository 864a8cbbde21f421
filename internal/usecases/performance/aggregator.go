package performance

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

// Aggregator consolida a performance individual dos membros no registro do time
type Aggregator struct {
	resolver     *Resolver
	performances repository.PerformanceRepository
	tx           repository.Transactor
	locks        *keyLocks
	metrics      *metrics.Recorder
	now          func() time.Time
}

type AggregationResult struct {
	Record           *domain.PerformanceRecord
	PreviousAchieved float64
	Created          bool
	// Fixed indica que o valor gravado divergia do recalculado acima da tolerância
	Fixed bool
}

func NewAggregator(
	resolver *Resolver,
	performances repository.PerformanceRepository,
	tx repository.Transactor,
	recorder *metrics.Recorder,
) *Aggregator {
	return &Aggregator{
		resolver:     resolver,
		performances: performances,
		tx:           tx,
		locks:        newKeyLocks(),
		metrics:      recorder,
		now:          time.Now,
	}
}

// Aggregate recalcula o registro do time para o período.
// Com target informado, o valor da meta do time é usado; sem ele, um registro
// sem meta vinculada recebe a soma ponderada das metas individuais.
func (a *Aggregator) Aggregate(ctx context.Context, team *domain.Team, period domain.Period, target *domain.Target) (*AggregationResult, error) {
	key := domain.PerformanceKey{EntityType: domain.EntityTeam, EntityID: team.ID, Period: period}

	unlock := a.locks.Lock(key.String())
	defer unlock()

	result := &AggregationResult{}

	err := a.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		record, err := a.performances.GetByKey(ctx, key)
		if err != nil {
			return errors.Wrap(err, "erro ao buscar registro do time")
		}
		if record == nil {
			record = domain.NewPerformanceRecord(key)
			result.Created = true
		}
		result.PreviousAchieved = record.AchievedAmount

		members, err := a.resolver.ResolveMembers(ctx, domain.TeamEntity{TeamID: team.ID})
		if err != nil {
			return err
		}

		var (
			achieved          float64
			contributedTarget float64
			leads, won, lost  int
			contributions     = make([]domain.MemberContribution, 0, len(members))
			childIDs          = make([]int64, 0, len(members))
		)

		for _, member := range members {
			individual, err := a.performances.GetByKey(ctx, domain.PerformanceKey{
				EntityType: domain.EntityIndividual,
				EntityID:   member.UserID,
				Period:     period,
			})
			if err != nil {
				return errors.Wrapf(err, "erro ao buscar performance do membro %d", member.UserID)
			}
			// ausência significa ainda não calculado, não atingimento zero
			if individual == nil {
				continue
			}

			weight := member.Weight()
			contribution := domain.MemberContribution{
				UserID:            member.UserID,
				PerformanceID:     individual.ID,
				Name:              member.UserName,
				RoleName:          member.RoleName,
				AchievedAmount:    individual.AchievedAmount,
				ContributedAmount: utils.RoundWithTwoDecimalPlace(individual.AchievedAmount * weight),
				TargetAmount:      individual.TargetAmount,
				ContributedTarget: utils.RoundWithTwoDecimalPlace(individual.TargetAmount * weight),
				ContributionPct:   member.ContributionPct,
				LeadsCount:        individual.LeadsCount,
				WonLeadsCount:     individual.WonLeadsCount,
				LostLeadsCount:    individual.LostLeadsCount,
			}
			if contribution.Name == "" {
				contribution.Name = individual.EntityName
			}

			achieved += contribution.ContributedAmount
			contributedTarget += contribution.ContributedTarget
			leads += individual.LeadsCount
			won += individual.WonLeadsCount
			lost += individual.LostLeadsCount

			contributions = append(contributions, contribution)
			childIDs = append(childIDs, individual.ID)
		}

		record.EntityName = team.Name
		record.IsTeamAggregate = true
		switch {
		case target != nil:
			record.TargetID = &target.ID
			record.TargetAmount = target.Amount
		case record.TargetID == nil:
			record.TargetAmount = contributedTarget
		}
		record.AchievedAmount = achieved
		record.LeadsCount = leads
		record.WonLeadsCount = won
		record.LostLeadsCount = lost
		record.MemberContributions = contributions
		record.Recalculate(a.now())

		if err := a.performances.Save(ctx, record); err != nil {
			return errors.Wrap(err, "erro ao gravar registro do time")
		}

		if err := a.relinkChildren(ctx, record.ID, childIDs); err != nil {
			return err
		}

		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Created && !utils.AlmostEqual(result.Record.AchievedAmount, result.PreviousAchieved) {
		result.Fixed = true
		a.metrics.IncAggregationFix()

		logrus.WithFields(logrus.Fields{
			"team_id":           team.ID,
			"performance_id":    result.Record.ID,
			"period":            period.String(),
			"previous_achieved": result.PreviousAchieved,
			"achieved":          result.Record.AchievedAmount,
		}).Info("Agregado do time divergia do valor recalculado")
	}

	return result, nil
}

// relinkChildren aponta os registros individuais para o time e solta os que deixaram de compor o agregado
func (a *Aggregator) relinkChildren(ctx context.Context, parentID int64, childIDs []int64) error {
	linked, err := a.performances.List(ctx, repository.PerformanceFilter{ParentPerformanceID: &parentID})
	if err != nil {
		return errors.Wrap(err, "erro ao listar registros vinculados ao time")
	}

	current := make(map[int64]bool, len(childIDs))
	for _, id := range childIDs {
		current[id] = true
	}

	var stale []int64
	for _, record := range linked {
		if !current[record.ID] {
			stale = append(stale, record.ID)
		}
	}

	if len(stale) > 0 {
		if err := a.performances.SetParent(ctx, stale, nil); err != nil {
			return errors.Wrap(err, "erro ao desvincular registros do time")
		}
	}

	if len(childIDs) == 0 {
		return nil
	}

	return errors.Wrap(a.performances.SetParent(ctx, childIDs, &parentID), "erro ao vincular registros ao time")
}
