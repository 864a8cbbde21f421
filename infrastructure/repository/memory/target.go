package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

type targetRepository struct {
	s *Store
}

func (r *targetRepository) GetByID(_ context.Context, id int64) (*domain.Target, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.targets[id]
	if !ok {
		return nil, nil
	}
	return cloneTarget(t), nil
}

func (r *targetRepository) List(_ context.Context, f repository.TargetFilter) ([]*domain.Target, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := toSet(f.IDs)
	out := make([]*domain.Target, 0)
	for _, t := range r.s.targets {
		switch {
		case ids != nil && !ids[t.ID]:
			continue
		case f.Status != "" && t.Status != f.Status:
			continue
		case f.AssigneeType != "" && t.AssigneeType != f.AssigneeType:
			continue
		case f.AssigneeID != 0 && t.AssigneeID != f.AssigneeID:
			continue
		case f.Overlapping != nil && !f.Overlapping.Overlaps(domain.DateRange{Start: t.StartDate, End: t.EndDate}):
			continue
		}
		out = append(out, cloneTarget(t))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *targetRepository) Create(_ context.Context, t *domain.Target) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t.ID = r.s.nextID("targets")
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.s.targets[t.ID] = cloneTarget(t)
	return nil
}

func (r *targetRepository) Update(_ context.Context, t *domain.Target) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.targets[t.ID]
	if !ok {
		return fmt.Errorf("meta %d não encontrada", t.ID)
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	r.s.targets[t.ID] = cloneTarget(t)
	return nil
}

func (r *targetRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.targets, id)
	for assignmentID, a := range r.s.assignments {
		if a.TargetID == id {
			delete(r.s.assignments, assignmentID)
		}
	}
	return nil
}

func (r *targetRepository) ListAssignments(_ context.Context, targetID int64) ([]*domain.TargetAssignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.TargetAssignment, 0)
	for _, a := range r.s.assignments {
		if a.TargetID == targetID {
			c := *a
			out = append(out, &c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *targetRepository) GetAssignment(_ context.Context, id int64) (*domain.TargetAssignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.assignments[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *targetRepository) SaveAssignment(_ context.Context, a *domain.TargetAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.ID == 0 {
		for _, existing := range r.s.assignments {
			if existing.TargetID == a.TargetID && existing.AssigneeType == a.AssigneeType && existing.AssigneeID == a.AssigneeID {
				a.ID = existing.ID
				break
			}
		}
	}
	if a.ID == 0 {
		a.ID = r.s.nextID("assignments")
	}

	c := *a
	r.s.assignments[a.ID] = &c
	return nil
}
