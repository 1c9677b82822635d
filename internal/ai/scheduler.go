package ai

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

// DefaultBudget is how many agents one scheduling tick refreshes.
const DefaultBudget = 50

// Resolver maps handles to live agents.
type Resolver interface {
	ResolveAlive(h model.Handle) (*unit.Agent, bool)
}

// Refresher recomputes targeting for one agent.
type Refresher interface {
	Refresh(a *unit.Agent)
}

// Scheduler amortizes targeting refreshes across ticks.
//
// Freshly registered agents wait in a FIFO queue and are served first;
// whatever budget is left advances a round-robin cursor through the full
// list. Every live agent is refreshed at least once per
// ceil(Count/budget) ticks.
type Scheduler struct {
	mu     sync.Mutex
	agents []model.Handle
	queue  []model.Handle
	cursor int
	budget int

	resolver  Resolver
	refresher Refresher
}

// NewScheduler creates a scheduler. Non-positive budget falls back to DefaultBudget.
func NewScheduler(budget int, resolver Resolver, refresher Refresher) *Scheduler {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Scheduler{
		budget:    budget,
		resolver:  resolver,
		refresher: refresher,
	}
}

// Register adds an agent and queues it for an immediate refresh.
// Registering the same handle twice is a no-op.
func (s *Scheduler) Register(h model.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.agents, h) {
		return
	}
	s.agents = append(s.agents, h)
	s.queue = append(s.queue, h)

	if IsDebugEnabled() {
		slog.Debug("agent scheduled", "agent", h, "agents", len(s.agents))
	}
}

// Unregister removes an agent. The cursor keeps pointing at the same next agent.
func (s *Scheduler) Unregister(h model.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.agents, h)
	if i < 0 {
		return
	}
	s.agents = slices.Delete(s.agents, i, i+1)
	if i < s.cursor {
		s.cursor--
	}
	if s.cursor >= len(s.agents) {
		s.cursor = 0
	}
	if j := slices.Index(s.queue, h); j >= 0 {
		s.queue = slices.Delete(s.queue, j, j+1)
	}

	if IsDebugEnabled() {
		slog.Debug("agent unscheduled", "agent", h, "agents", len(s.agents))
	}
}

// Count returns the number of registered agents.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.agents)
}

// Queued returns how many new agents still wait for their first refresh.
func (s *Scheduler) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// IndexOf returns the position of h in the round-robin list.
func (s *Scheduler) IndexOf(h model.Handle) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.agents, h)
	if i < 0 {
		return 0, fmt.Errorf("agent %s not scheduled", h)
	}
	return i, nil
}

// Tick runs one scheduling round and returns how many agents were refreshed.
func (s *Scheduler) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.agents) == 0 && len(s.queue) == 0 {
		return 0
	}

	drained := 0
	for len(s.queue) > 0 && drained < s.budget {
		h := s.queue[0]
		s.queue = s.queue[1:]
		if a, ok := s.resolver.ResolveAlive(h); ok {
			s.refresher.Refresh(a)
			drained++
		}
	}

	refreshed := drained
	remaining := s.budget - drained
	if remaining > 0 && len(s.agents) > 0 {
		end := min(s.cursor+remaining, len(s.agents))
		for _, h := range s.agents[s.cursor:end] {
			if a, ok := s.resolver.ResolveAlive(h); ok {
				s.refresher.Refresh(a)
				refreshed++
			}
		}
		s.cursor = end
		if s.cursor >= len(s.agents) {
			s.cursor = 0
		}
	}

	if IsDebugEnabled() {
		slog.Debug("targeting tick completed",
			"queued", drained,
			"refreshed", refreshed,
			"cursor", s.cursor)
	}
	return refreshed
}
