package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

type performanceRepository struct {
	s *Store
}

func (r *performanceRepository) GetByID(_ context.Context, id int64) (*domain.PerformanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.performances[id]
	if !ok {
		return nil, nil
	}
	return clonePerformance(p), nil
}

func (r *performanceRepository) GetByKey(_ context.Context, key domain.PerformanceKey) (*domain.PerformanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p := r.findByKey(key)
	if p == nil {
		return nil, nil
	}
	return clonePerformance(p), nil
}

// findByKey retorna o registro de menor id da chave; exige mu travado
func (r *performanceRepository) findByKey(key domain.PerformanceKey) *domain.PerformanceRecord {
	var found *domain.PerformanceRecord
	for _, p := range r.s.performances {
		if !sameKey(p.Key(), key) {
			continue
		}
		if found == nil || p.ID < found.ID {
			found = p
		}
	}
	return found
}

func sameKey(a, b domain.PerformanceKey) bool {
	return a.EntityType == b.EntityType &&
		a.EntityID == b.EntityID &&
		a.Period.Type == b.Period.Type &&
		a.Period.Start.Equal(b.Period.Start) &&
		a.Period.End.Equal(b.Period.End)
}

func (r *performanceRepository) List(_ context.Context, f repository.PerformanceFilter) ([]*domain.PerformanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := toSet(f.IDs)
	entityIDs := toSet(f.EntityIDs)

	out := make([]*domain.PerformanceRecord, 0)
	for _, p := range r.s.performances {
		switch {
		case ids != nil && !ids[p.ID]:
			continue
		case f.EntityType != "" && p.EntityType != f.EntityType:
			continue
		case entityIDs != nil && !entityIDs[p.EntityID]:
			continue
		case f.PeriodType != "" && p.PeriodType != f.PeriodType:
			continue
		case f.IsTeamAggregate != nil && p.IsTeamAggregate != *f.IsTeamAggregate:
			continue
		case f.TargetID != nil && (p.TargetID == nil || *p.TargetID != *f.TargetID):
			continue
		case f.ParentPerformanceID != nil && (p.ParentPerformanceID == nil || *p.ParentPerformanceID != *f.ParentPerformanceID):
			continue
		case f.StartFrom != nil && p.PeriodStart.Before(*f.StartFrom):
			continue
		case f.EndTo != nil && p.PeriodEnd.After(*f.EndTo):
			continue
		case f.Overlapping != nil && !f.Overlapping.Overlaps(p.Period().Range()):
			continue
		}
		out = append(out, clonePerformance(p))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *performanceRepository) Save(_ context.Context, p *domain.PerformanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	if p.ID == 0 {
		if existing := r.findByKey(p.Key()); existing != nil {
			// mesmo comportamento do ON CONFLICT: vínculo com o time e ranking são preservados
			p.ID = existing.ID
			p.ParentPerformanceID = cloneInt64(existing.ParentPerformanceID)
			p.Rank = existing.Rank
			p.CreatedAt = existing.CreatedAt
		} else {
			p.ID = r.s.nextID("performances")
			p.CreatedAt = now
		}
	} else if existing, ok := r.s.performances[p.ID]; ok {
		p.ParentPerformanceID = cloneInt64(existing.ParentPerformanceID)
		p.Rank = existing.Rank
		p.CreatedAt = existing.CreatedAt
	}

	p.UpdatedAt = now
	r.s.performances[p.ID] = clonePerformance(p)
	return nil
}

func (r *performanceRepository) SetParent(_ context.Context, ids []int64, parentID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		if p, ok := r.s.performances[id]; ok {
			p.ParentPerformanceID = cloneInt64(parentID)
		}
	}
	return nil
}

func (r *performanceRepository) SetRanks(_ context.Context, ranks map[int64]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, rank := range ranks {
		if p, ok := r.s.performances[id]; ok {
			value := rank
			p.Rank = &value
		}
	}
	return nil
}

func (r *performanceRepository) Delete(_ context.Context, ids []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		delete(r.s.performances, id)
	}
	return nil
}

func (r *performanceRepository) ClearTarget(_ context.Context, targetID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var affected int64
	for _, p := range r.s.performances {
		if p.TargetID != nil && *p.TargetID == targetID {
			p.TargetID = nil
			affected++
		}
	}
	return affected, nil
}

func toSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
