package consistency

import (
	"context"
	"fmt"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/performance"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

// overAchievementFactor marca como suspeito o atingido acima de 2x a meta
const overAchievementFactor = 2

type snapshot struct {
	targets      []*domain.Target
	conversions  []*domain.ConversionRecord
	performances []*domain.PerformanceRecord
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	targets, err := s.targets.List(ctx, repository.TargetFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao listar metas")
	}
	conversions, err := s.conversions.List(ctx, repository.ConversionFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao listar conversões")
	}
	performances, err := s.performances.List(ctx, repository.PerformanceFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao listar performances")
	}
	return &snapshot{targets: targets, conversions: conversions, performances: performances}, nil
}

// Validate lista os problemas de integridade sem alterar nada
func (s *Service) Validate(ctx context.Context) ([]domain.Issue, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	issues := make([]domain.Issue, 0)
	add := func(issue domain.Issue) {
		issue.Fixable = fixable(issue.Kind)
		issues = append(issues, issue)
	}

	targetIDs := make(map[int64]bool, len(data.targets))
	for _, target := range data.targets {
		targetIDs[target.ID] = true

		if target.AchievedAmount < 0 {
			add(domain.Issue{
				Kind:     domain.IssueNegativeAchieved,
				TargetID: target.ID,
				Details:  fmt.Sprintf("meta com atingido %.2f", target.AchievedAmount),
			})
		}
		if target.StartDate.After(target.EndDate) {
			add(domain.Issue{
				Kind:     domain.IssueInvalidDateRange,
				TargetID: target.ID,
				Details:  "meta com início depois do fim",
			})
		}
	}

	recordIDs := make(map[int64]bool, len(data.performances))
	for _, record := range data.performances {
		recordIDs[record.ID] = true
	}

	for _, record := range data.performances {
		switch {
		case record.AchievedAmount < 0:
			add(domain.Issue{
				Kind:          domain.IssueNegativeAchieved,
				PerformanceID: record.ID,
				Details:       fmt.Sprintf("performance com atingido %.2f", record.AchievedAmount),
			})
		case record.TargetAmount > 0 && record.AchievedAmount > record.TargetAmount*overAchievementFactor:
			add(domain.Issue{
				Kind:          domain.IssueOverAchievement,
				PerformanceID: record.ID,
				Details:       fmt.Sprintf("atingido %.2f acima de 2x a meta %.2f", record.AchievedAmount, record.TargetAmount),
			})
		}

		if record.PeriodStart.After(record.PeriodEnd) {
			add(domain.Issue{
				Kind:          domain.IssueInvalidDateRange,
				PerformanceID: record.ID,
				Details:       "período com início depois do fim",
			})
		}

		if record.CalculatedAt == nil {
			add(domain.Issue{
				Kind:          domain.IssueUncalculated,
				PerformanceID: record.ID,
				Details:       "registro nunca calculado",
			})
		}

		if record.IsTeamAggregate && len(record.MemberContributions) == 0 {
			add(domain.Issue{
				Kind:          domain.IssueTeamWithoutMembers,
				PerformanceID: record.ID,
				Details:       fmt.Sprintf("time %d sem contribuições de membros", record.EntityID),
			})
		}

		for _, contribution := range record.MemberContributions {
			if contribution.RoleName == "" {
				add(domain.Issue{
					Kind:          domain.IssueMemberMissingRole,
					PerformanceID: record.ID,
					RelatedIDs:    []int64{contribution.UserID},
					Details:       fmt.Sprintf("membro %d sem cargo", contribution.UserID),
				})
			}
		}

		if record.ParentPerformanceID != nil && !recordIDs[*record.ParentPerformanceID] {
			add(domain.Issue{
				Kind:          domain.IssueOrphanParent,
				PerformanceID: record.ID,
				RelatedIDs:    []int64{*record.ParentPerformanceID},
				Details:       "registro aponta para time inexistente",
			})
		}

		if record.TargetID != nil && !targetIDs[*record.TargetID] {
			add(domain.Issue{
				Kind:          domain.IssueOrphanTarget,
				PerformanceID: record.ID,
				TargetID:      *record.TargetID,
				Details:       "registro aponta para meta inexistente",
			})
		}
	}

	for _, group := range duplicateGroups(data.performances) {
		ids := make([]int64, 0, len(group))
		for _, record := range group {
			ids = append(ids, record.ID)
		}
		add(domain.Issue{
			Kind:          domain.IssueDuplicateGroup,
			PerformanceID: group[0].ID,
			RelatedIDs:    ids,
			Details:       group[0].Key().String(),
		})
	}

	for _, conversion := range data.conversions {
		if conversion.Counted && conversion.Amount <= 0 {
			add(domain.Issue{
				Kind:         domain.IssueInvalidConversion,
				ConversionID: conversion.ID,
				Details:      fmt.Sprintf("conversão com valor %.2f", conversion.Amount),
			})
		}
		if conversion.TargetID != nil && !targetIDs[*conversion.TargetID] {
			add(domain.Issue{
				Kind:         domain.IssueOrphanConversionRef,
				ConversionID: conversion.ID,
				TargetID:     *conversion.TargetID,
				Details:      "conversão aponta para meta inexistente",
			})
		}
	}

	for _, issue := range issues {
		s.metrics.IncIssue(string(issue.Kind))
	}

	return issues, nil
}

func fixable(kind domain.IssueKind) bool {
	switch kind {
	case domain.IssueInvalidDateRange, domain.IssueOverAchievement:
		return false
	}
	return true
}

// Sweep valida e aplica as correções permitidas pela política.
// A ordem importa: duplicados saem antes das demais correções e as metas
// afetadas por conversões desconsideradas são recalculadas antes do clamp.
func (s *Service) Sweep(ctx context.Context, policy domain.FixPolicy) (*domain.SweepReport, error) {
	ctx = log.WithRunID(ctx, utils.MustGenerateID())
	logger := log.ForContext(ctx)

	report := &domain.SweepReport{
		RunID:     log.GetRunID(ctx),
		Policy:    policy,
		Fixed:     make(map[domain.IssueKind]int),
		StartedAt: s.now(),
	}

	issues, err := s.Validate(ctx)
	if err != nil {
		return nil, err
	}
	report.Issues = issues

	found := make(map[domain.IssueKind]bool)
	for _, issue := range issues {
		found[issue.Kind] = true
	}

	// metas cujo atingido ficou defasado após desconsiderar conversões
	stale := make(map[int64]bool)

	fixes := []struct {
		kinds []domain.IssueKind
		apply func(context.Context) (int, error)
	}{
		{[]domain.IssueKind{domain.IssueDuplicateGroup}, func(ctx context.Context) (int, error) {
			result, err := s.Deduplicate(ctx)
			return result.Fixed, err
		}},
		{[]domain.IssueKind{domain.IssueOrphanParent, domain.IssueOrphanTarget, domain.IssueOrphanConversionRef}, func(ctx context.Context) (int, error) {
			result, err := s.RepairOrphans(ctx)
			return result.Fixed, err
		}},
		{[]domain.IssueKind{domain.IssueInvalidConversion}, func(ctx context.Context) (int, error) {
			n, err := s.excludeInvalidConversions(ctx, stale)
			if err != nil {
				return n, err
			}
			report.RefreshedTargets = s.settleTargets(ctx, stale)
			return n, nil
		}},
		{[]domain.IssueKind{domain.IssueNegativeAchieved}, s.clampNegativeAchieved},
		{[]domain.IssueKind{domain.IssueUncalculated}, s.recalculateUncalculated},
		{[]domain.IssueKind{domain.IssueTeamWithoutMembers}, func(ctx context.Context) (int, error) {
			result, err := s.RepairTeamsWithoutMembers(ctx)
			return result.Fixed, err
		}},
		{[]domain.IssueKind{domain.IssueMemberMissingRole}, s.fillRoleNames},
	}

	for _, fix := range fixes {
		kind := fix.kinds[0]
		if !policy.Allows(kind) || !anyFound(found, fix.kinds) {
			continue
		}

		n, err := fix.apply(ctx)
		if err != nil {
			return report, pkgerrors.Wrapf(err, "erro ao corrigir %s", kind)
		}
		if n > 0 {
			report.Fixed[kind] += n
		}
	}

	report.FinishedAt = s.now()

	logger.WithFields(logrus.Fields{
		"issues": len(report.Issues),
		"fixed":  report.TotalFixed(),
	}).Info("Varredura de consistência concluída")

	return report, nil
}

func anyFound(found map[domain.IssueKind]bool, kinds []domain.IssueKind) bool {
	for _, kind := range kinds {
		if found[kind] {
			return true
		}
	}
	return false
}

// clampNegativeAchieved zera atingidos negativos e recalcula os derivados
func (s *Service) clampNegativeAchieved(ctx context.Context) (int, error) {
	var fixed int
	parents := make(map[int64]bool)

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		data, err := s.load(ctx)
		if err != nil {
			return err
		}

		for _, target := range data.targets {
			if target.AchievedAmount >= 0 {
				continue
			}
			target.AchievedAmount = 0
			target.UpdateProgress(s.now())
			if err := s.targets.Update(ctx, target); err != nil {
				return pkgerrors.Wrapf(err, "erro ao corrigir meta %d", target.ID)
			}
			fixed++
		}

		for _, record := range data.performances {
			if record.AchievedAmount >= 0 {
				continue
			}
			record.AchievedAmount = 0
			record.Recalculate(s.now())
			if err := s.performances.Save(ctx, record); err != nil {
				return pkgerrors.Wrapf(err, "erro ao corrigir performance %d", record.ID)
			}
			if record.ParentPerformanceID != nil {
				parents[*record.ParentPerformanceID] = true
			}
			fixed++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	// o agregado do time soma os filhos; reagrega fora da transação
	for _, parentID := range sortedIDs(parents) {
		parent, err := s.performances.GetByID(ctx, parentID)
		if err != nil {
			return fixed, pkgerrors.Wrapf(err, "erro ao buscar performance %d", parentID)
		}
		if parent == nil {
			continue
		}
		if _, err := s.calculator.ReaggregateTeam(ctx, parent); err != nil && !performance.IsSkippable(err) {
			return fixed, err
		}
	}

	s.metrics.AddRepairs(string(domain.IssueNegativeAchieved), fixed)
	return fixed, nil
}

// excludeInvalidConversions desconsidera conversões com valor não positivo, mantendo o histórico.
// As metas que contavam cada conversão vão para stale.
func (s *Service) excludeInvalidConversions(ctx context.Context, stale map[int64]bool) (int, error) {
	conversions, err := s.conversions.List(ctx, repository.ConversionFilter{Counted: repository.Bool(true)})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "erro ao listar conversões")
	}

	var fixed int
	for _, conversion := range conversions {
		if conversion.Amount > 0 {
			continue
		}
		if err := s.conversions.SetCounted(ctx, conversion.ID, false); err != nil {
			return fixed, pkgerrors.Wrapf(err, "erro ao desconsiderar conversão %d", conversion.ID)
		}
		fixed++

		if err := s.markAffectedTargets(ctx, conversion, stale); err != nil {
			return fixed, err
		}
	}

	s.metrics.AddRepairs(string(domain.IssueInvalidConversion), fixed)
	return fixed, nil
}

func (s *Service) markAffectedTargets(ctx context.Context, conversion *domain.ConversionRecord, stale map[int64]bool) error {
	if conversion.TargetID != nil {
		stale[*conversion.TargetID] = true
		return nil
	}

	day := domain.DateRange{Start: utils.TruncateDay(conversion.Date), End: utils.EndOfDay(conversion.Date)}
	targets, err := s.targets.List(ctx, repository.TargetFilter{
		AssigneeType: domain.EntityIndividual,
		AssigneeID:   conversion.UserID,
		Overlapping:  &day,
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "erro ao listar metas do usuário %d", conversion.UserID)
	}
	for _, target := range targets {
		stale[target.ID] = true
	}
	return nil
}

// settleTargets reconcilia o atingido das metas e recalcula suas performances.
// Metas que falham ficam registradas no log e a varredura segue.
func (s *Service) settleTargets(ctx context.Context, stale map[int64]bool) int {
	logger := log.ForContext(ctx)

	var settled int
	for _, targetID := range sortedIDs(stale) {
		entry := logger.WithField("target_id", targetID)

		if s.refresher != nil {
			if _, err := s.refresher.RefreshAchieved(ctx, targetID); err != nil {
				entry.WithError(err).Warn("Não foi possível reconciliar o atingido da meta")
				continue
			}
		}

		if _, err := s.calculator.RecalculateTarget(ctx, targetID); err != nil {
			if performance.IsSkippable(err) {
				entry.WithError(err).Debug("Meta ignorada no recálculo da varredura")
			} else {
				entry.WithError(err).Warn("Falha ao recalcular meta na varredura")
			}
			continue
		}
		settled++
	}
	return settled
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// recalculateUncalculated recalcula pela meta quando houver; sem meta, apenas recomputa os derivados
func (s *Service) recalculateUncalculated(ctx context.Context) (int, error) {
	records, err := s.performances.List(ctx, repository.PerformanceFilter{})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "erro ao listar performances")
	}

	var fixed int
	for _, record := range records {
		if record.CalculatedAt != nil {
			continue
		}

		if record.TargetID != nil {
			_, err := s.calculator.RecalculateTarget(ctx, *record.TargetID)
			if err == nil {
				fixed++
				continue
			}
			if !performance.IsSkippable(err) {
				return fixed, err
			}
		}

		if record.IsTeamAggregate {
			_, err := s.calculator.ReaggregateTeam(ctx, record)
			if err == nil {
				fixed++
				continue
			}
			if !performance.IsSkippable(err) {
				return fixed, err
			}
		}

		current, err := s.performances.GetByID(ctx, record.ID)
		if err != nil {
			return fixed, pkgerrors.Wrapf(err, "erro ao buscar performance %d", record.ID)
		}
		if current == nil || current.CalculatedAt != nil {
			continue
		}
		current.Recalculate(s.now())
		if err := s.performances.Save(ctx, current); err != nil {
			return fixed, pkgerrors.Wrapf(err, "erro ao gravar performance %d", record.ID)
		}
		fixed++
	}

	s.metrics.AddRepairs(string(domain.IssueUncalculated), fixed)
	return fixed, nil
}

// fillRoleNames completa o cargo dos membros a partir do diretório
func (s *Service) fillRoleNames(ctx context.Context) (int, error) {
	records, err := s.performances.List(ctx, repository.PerformanceFilter{IsTeamAggregate: repository.Bool(true)})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "erro ao listar agregados de time")
	}

	var fixed int
	for _, record := range records {
		roles, err := s.teamRoles(ctx, record)
		if err != nil {
			return fixed, err
		}
		if roles == nil {
			continue
		}

		changed := 0
		for i := range record.MemberContributions {
			contribution := &record.MemberContributions[i]
			if contribution.RoleName != "" {
				continue
			}
			role := roles[contribution.UserID]
			if role == "" {
				user, err := s.directory.GetUser(ctx, contribution.UserID)
				if err != nil {
					return fixed, pkgerrors.Wrapf(err, "erro ao buscar usuário %d", contribution.UserID)
				}
				if user != nil {
					role = user.RoleName
				}
			}
			if role != "" {
				contribution.RoleName = role
				changed++
			}
		}

		if changed == 0 {
			continue
		}
		if err := s.performances.Save(ctx, record); err != nil {
			return fixed, pkgerrors.Wrapf(err, "erro ao gravar performance %d", record.ID)
		}
		fixed += changed
	}

	s.metrics.AddRepairs(string(domain.IssueMemberMissingRole), fixed)
	return fixed, nil
}

// teamRoles devolve o cargo de cada membro ativo, ou nil quando nenhum membro está sem cargo
func (s *Service) teamRoles(ctx context.Context, record *domain.PerformanceRecord) (map[int64]string, error) {
	missing := false
	for _, contribution := range record.MemberContributions {
		if contribution.RoleName == "" {
			missing = true
			break
		}
	}
	if !missing {
		return nil, nil
	}

	members, err := s.directory.ListActiveMembers(ctx, record.EntityID)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "erro ao listar membros do time %d", record.EntityID)
	}

	roles := make(map[int64]string, len(members))
	for _, member := range members {
		roles[member.UserID] = member.RoleName
	}
	return roles, nil
}
