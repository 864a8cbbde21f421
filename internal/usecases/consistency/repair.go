package consistency

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/performance"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

// duplicateGroups agrupa os registros pela chave de unicidade, mantendo a ordem por id
func duplicateGroups(records []*domain.PerformanceRecord) [][]*domain.PerformanceRecord {
	index := make(map[string]int)
	groups := make([][]*domain.PerformanceRecord, 0)

	for _, record := range records {
		key := record.Key().String()
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, []*domain.PerformanceRecord{record})
			continue
		}
		groups[i] = append(groups[i], record)
	}

	duplicated := make([][]*domain.PerformanceRecord, 0)
	for _, group := range groups {
		if len(group) > 1 {
			duplicated = append(duplicated, group)
		}
	}
	return duplicated
}

// Deduplicate mantém o registro de menor id de cada chave e remove os demais.
// Registros que apontavam para um duplicado passam a apontar para o sobrevivente.
func (s *Service) Deduplicate(ctx context.Context) (domain.RepairResult, error) {
	var result domain.RepairResult

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		records, err := s.performances.List(ctx, repository.PerformanceFilter{})
		if err != nil {
			return pkgerrors.Wrap(err, "erro ao listar performances")
		}
		result.Examined = len(records)

		for _, group := range duplicateGroups(records) {
			keep := group[0]
			for _, record := range group[1:] {
				if record.ID < keep.ID {
					keep = record
				}
			}

			removed := make([]int64, 0, len(group)-1)
			for _, record := range group {
				if record.ID != keep.ID {
					removed = append(removed, record.ID)
				}
			}

			for _, id := range removed {
				parentID := id
				children, err := s.performances.List(ctx, repository.PerformanceFilter{ParentPerformanceID: &parentID})
				if err != nil {
					return pkgerrors.Wrap(err, "erro ao listar registros vinculados")
				}
				if len(children) == 0 {
					continue
				}
				childIDs := make([]int64, 0, len(children))
				for _, child := range children {
					childIDs = append(childIDs, child.ID)
				}
				if err := s.performances.SetParent(ctx, childIDs, &keep.ID); err != nil {
					return pkgerrors.Wrap(err, "erro ao revincular registros")
				}
			}

			if err := s.performances.Delete(ctx, removed); err != nil {
				return pkgerrors.Wrap(err, "erro ao remover duplicados")
			}

			log.ForContext(ctx).WithFields(logrus.Fields{
				"key":     keep.Key().String(),
				"kept_id": keep.ID,
				"removed": removed,
			}).Info("Registros de performance duplicados removidos")

			result.Fixed += len(removed)
		}

		return nil
	})
	if err != nil {
		return domain.RepairResult{}, err
	}

	s.metrics.AddRepairs(string(domain.IssueDuplicateGroup), result.Fixed)
	return result, nil
}

// RepairOrphans limpa referências para metas removidas e para registros de time inexistentes
func (s *Service) RepairOrphans(ctx context.Context) (domain.RepairResult, error) {
	var result domain.RepairResult

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		records, err := s.performances.List(ctx, repository.PerformanceFilter{})
		if err != nil {
			return pkgerrors.Wrap(err, "erro ao listar performances")
		}
		conversions, err := s.conversions.List(ctx, repository.ConversionFilter{})
		if err != nil {
			return pkgerrors.Wrap(err, "erro ao listar conversões")
		}
		result.Examined = len(records) + len(conversions)

		missing, err := s.missingTargets(ctx, records, conversions)
		if err != nil {
			return err
		}

		for _, targetID := range missing {
			cleared, err := s.performances.ClearTarget(ctx, targetID)
			if err != nil {
				return pkgerrors.Wrapf(err, "erro ao limpar meta %d das performances", targetID)
			}
			clearedConversions, err := s.conversions.ClearTarget(ctx, targetID)
			if err != nil {
				return pkgerrors.Wrapf(err, "erro ao limpar meta %d das conversões", targetID)
			}
			result.Fixed += int(cleared + clearedConversions)
		}

		existing := make(map[int64]bool, len(records))
		for _, record := range records {
			existing[record.ID] = true
		}

		var orphans []int64
		for _, record := range records {
			if record.ParentPerformanceID != nil && !existing[*record.ParentPerformanceID] {
				orphans = append(orphans, record.ID)
			}
		}
		if len(orphans) > 0 {
			if err := s.performances.SetParent(ctx, orphans, nil); err != nil {
				return pkgerrors.Wrap(err, "erro ao limpar vínculos órfãos")
			}
			result.Fixed += len(orphans)
		}

		return nil
	})
	if err != nil {
		return domain.RepairResult{}, err
	}

	if result.Fixed > 0 {
		log.ForContext(ctx).WithField("fixed", result.Fixed).Info("Referências órfãs corrigidas")
	}
	s.metrics.AddRepairs(string(domain.IssueOrphanTarget), result.Fixed)
	return result, nil
}

// missingTargets retorna, em ordem crescente, as metas referenciadas que não existem mais
func (s *Service) missingTargets(ctx context.Context, records []*domain.PerformanceRecord, conversions []*domain.ConversionRecord) ([]int64, error) {
	referenced := make(map[int64]bool)
	ids := make([]int64, 0)
	add := func(id *int64) {
		if id != nil && !referenced[*id] {
			referenced[*id] = true
			ids = append(ids, *id)
		}
	}
	for _, record := range records {
		add(record.TargetID)
	}
	for _, conversion := range conversions {
		add(conversion.TargetID)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	targets, err := s.targets.List(ctx, repository.TargetFilter{IDs: ids})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao buscar metas referenciadas")
	}
	found := make(map[int64]bool, len(targets))
	for _, target := range targets {
		found[target.ID] = true
	}

	missing := make([]int64, 0)
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// RepairTeamsWithoutMembers reagrega os registros de time sem contribuições de membros.
// Cada reagregação roda na própria transação do agregador.
func (s *Service) RepairTeamsWithoutMembers(ctx context.Context) (domain.RepairResult, error) {
	var result domain.RepairResult

	records, err := s.performances.List(ctx, repository.PerformanceFilter{IsTeamAggregate: repository.Bool(true)})
	if err != nil {
		return result, pkgerrors.Wrap(err, "erro ao listar agregados de time")
	}

	for _, record := range records {
		if len(record.MemberContributions) > 0 {
			continue
		}
		result.Examined++

		aggregated, err := s.calculator.ReaggregateTeam(ctx, record)
		if err != nil {
			if performance.IsSkippable(err) {
				log.ForContext(ctx).WithFields(logrus.Fields{
					"performance_id": record.ID,
					"team_id":        record.EntityID,
					"error":          err.Error(),
				}).Warn("Time sem membros não pôde ser reagregado")
				continue
			}
			return result, err
		}

		if len(aggregated.Record.MemberContributions) > 0 {
			result.Fixed++
		}
	}

	s.metrics.AddRepairs(string(domain.IssueTeamWithoutMembers), result.Fixed)
	return result, nil
}
