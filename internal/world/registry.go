package world

import (
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

type slot struct {
	gen   uint32
	agent *unit.Agent
}

// Registry owns every spawned agent and hands out generation-checked handles.
// A handle whose slot was released or reused never resolves again.
type Registry struct {
	slots []slot
	free  []uint32
	count int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores the agent and assigns its handle.
func (r *Registry) Add(a *unit.Agent) model.Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{gen: 1})
	}

	s := &r.slots[idx]
	s.agent = a
	h := model.Handle{Index: idx, Gen: s.gen}
	a.SetHandle(h)
	r.count++
	return h
}

// Remove releases the slot. Returns false for a stale handle.
func (r *Registry) Remove(h model.Handle) bool {
	if _, ok := r.Resolve(h); !ok {
		return false
	}

	s := &r.slots[h.Index]
	s.agent = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	r.free = append(r.free, h.Index)
	r.count--
	return true
}

// Resolve returns the agent for h, or false if it no longer exists.
func (r *Registry) Resolve(h model.Handle) (*unit.Agent, bool) {
	if h.IsZero() || int(h.Index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[h.Index]
	if s.gen != h.Gen || s.agent == nil {
		return nil, false
	}
	return s.agent, true
}

// ResolveAlive resolves h and additionally requires the agent to be alive.
func (r *Registry) ResolveAlive(h model.Handle) (*unit.Agent, bool) {
	a, ok := r.Resolve(h)
	if !ok || !a.Alive() {
		return nil, false
	}
	return a, true
}

// Count returns number of stored agents
func (r *Registry) Count() int {
	return r.count
}

// ForEach iterates agents in slot order. If fn returns false, iteration stops.
func (r *Registry) ForEach(fn func(*unit.Agent) bool) {
	for i := range r.slots {
		a := r.slots[i].agent
		if a == nil {
			continue
		}
		if !fn(a) {
			return
		}
	}
}

// Agents returns a snapshot slice of all stored agents.
func (r *Registry) Agents() []*unit.Agent {
	out := make([]*unit.Agent, 0, r.count)
	r.ForEach(func(a *unit.Agent) bool {
		out = append(out, a)
		return true
	})
	return out
}
