// Package memory implementa os repositórios em memória, usados em testes e no modo de desenvolvimento
package memory

import (
	"context"
	"sync"

	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

type txKey struct{}

// Store guarda todas as tabelas em mapas protegidos por um RWMutex.
// Transações são serializadas e restauram um snapshot em caso de erro.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	seq          map[string]int64
	users        map[int64]*domain.User
	teams        map[int64]*domain.Team
	memberships  []*domain.TeamMembership
	leads        map[int64]*domain.Lead
	targets      map[int64]*domain.Target
	assignments  map[int64]*domain.TargetAssignment
	conversions  map[int64]*domain.ConversionRecord
	performances map[int64]*domain.PerformanceRecord
}

func NewStore() *Store {
	return &Store{
		seq:          make(map[string]int64),
		users:        make(map[int64]*domain.User),
		teams:        make(map[int64]*domain.Team),
		leads:        make(map[int64]*domain.Lead),
		targets:      make(map[int64]*domain.Target),
		assignments:  make(map[int64]*domain.TargetAssignment),
		conversions:  make(map[int64]*domain.ConversionRecord),
		performances: make(map[int64]*domain.PerformanceRecord),
	}
}

func (s *Store) Performances() repository.PerformanceRepository { return &performanceRepository{s} }
func (s *Store) Targets() repository.TargetRepository           { return &targetRepository{s} }
func (s *Store) Conversions() repository.ConversionRepository   { return &conversionRepository{s} }
func (s *Store) Leads() repository.LeadRepository               { return &leadRepository{s} }
func (s *Store) Directory() repository.DirectoryRepository      { return &directoryRepository{s} }

// nextID deve ser chamado com mu travado para escrita
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

type snapshot struct {
	seq          map[string]int64
	memberships  []*domain.TeamMembership
	targets      map[int64]*domain.Target
	assignments  map[int64]*domain.TargetAssignment
	conversions  map[int64]*domain.ConversionRecord
	performances map[int64]*domain.PerformanceRecord
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		seq:          make(map[string]int64, len(s.seq)),
		memberships:  make([]*domain.TeamMembership, 0, len(s.memberships)),
		targets:      make(map[int64]*domain.Target, len(s.targets)),
		assignments:  make(map[int64]*domain.TargetAssignment, len(s.assignments)),
		conversions:  make(map[int64]*domain.ConversionRecord, len(s.conversions)),
		performances: make(map[int64]*domain.PerformanceRecord, len(s.performances)),
	}
	for k, v := range s.seq {
		snap.seq[k] = v
	}
	for _, m := range s.memberships {
		snap.memberships = append(snap.memberships, cloneMembership(m))
	}
	for id, t := range s.targets {
		snap.targets[id] = cloneTarget(t)
	}
	for id, a := range s.assignments {
		c := *a
		snap.assignments[id] = &c
	}
	for id, c := range s.conversions {
		snap.conversions[id] = cloneConversion(c)
	}
	for id, p := range s.performances {
		snap.performances[id] = clonePerformance(p)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = snap.seq
	s.memberships = snap.memberships
	s.targets = snap.targets
	s.assignments = snap.assignments
	s.conversions = snap.conversions
	s.performances = snap.performances
}

// AddUser cadastra um usuário no diretório
func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

func (s *Store) AddTeam(t domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = &t
}

// AddLead grava ou substitui um lead
func (s *Store) AddLead(l domain.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[l.ID] = cloneLead(&l)
}

func (s *Store) RemoveLead(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leads, id)
}

// InsertPerformance grava um registro sem verificar a chave de unicidade,
// permitindo reproduzir dados legados com duplicidade.
func (s *Store) InsertPerformance(p domain.PerformanceRecord) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID("performances")
	} else if p.ID > s.seq["performances"] {
		s.seq["performances"] = p.ID
	}
	s.performances[p.ID] = clonePerformance(&p)
	return p.ID
}

func cloneTarget(t *domain.Target) *domain.Target {
	c := *t
	if t.LastCalculatedAt != nil {
		at := *t.LastCalculatedAt
		c.LastCalculatedAt = &at
	}
	return &c
}

func cloneConversion(c *domain.ConversionRecord) *domain.ConversionRecord {
	out := *c
	out.TargetID = cloneInt64(c.TargetID)
	return &out
}

func cloneLead(l *domain.Lead) *domain.Lead {
	out := *l
	out.UserID = cloneInt64(l.UserID)
	if l.CloseDate != nil {
		d := *l.CloseDate
		out.CloseDate = &d
	}
	return &out
}

func cloneMembership(m *domain.TeamMembership) *domain.TeamMembership {
	out := *m
	if m.LeftAt != nil {
		at := *m.LeftAt
		out.LeftAt = &at
	}
	return &out
}

func clonePerformance(p *domain.PerformanceRecord) *domain.PerformanceRecord {
	out := *p
	out.TargetID = cloneInt64(p.TargetID)
	out.ParentPerformanceID = cloneInt64(p.ParentPerformanceID)
	if p.Rank != nil {
		rank := *p.Rank
		out.Rank = &rank
	}
	if p.MemberContributions != nil {
		out.MemberContributions = append([]domain.MemberContribution(nil), p.MemberContributions...)
	}
	if p.CalculatedAt != nil {
		at := *p.CalculatedAt
		out.CalculatedAt = &at
	}
	if p.LastSyncedAt != nil {
		at := *p.LastSyncedAt
		out.LastSyncedAt = &at
	}
	return &out
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Targets:      s.Targets(),
		Conversions:  s.Conversions(),
		Leads:        s.Leads(),
		Directory:    s.Directory(),
		Performances: s.Performances(),
	}
}
