package sim

import (
	"github.com/udisondev/skirmish/internal/snapshot"
	"github.com/udisondev/skirmish/internal/unit"
)

// Snapshot returns the render view of every registered agent.
func (w *World) Snapshot() []snapshot.Agent {
	out := make([]snapshot.Agent, 0, w.reg.Count())
	w.reg.ForEach(func(a *unit.Agent) bool {
		out = append(out, agentView(a))
		return true
	})
	return out
}

// Frame captures agents, projectiles and the cues fired since the
// previous frame.
func (w *World) Frame() *snapshot.Frame {
	f := &snapshot.Frame{
		Tick:   w.tick,
		Time:   w.now,
		Agents: w.Snapshot(),
	}
	if len(w.projectiles) > 0 {
		f.Projectiles = make([]snapshot.Projectile, 0, len(w.projectiles))
		for _, p := range w.projectiles {
			v := p.View()
			f.Projectiles = append(f.Projectiles, snapshot.Projectile{
				X:        v.Position.X,
				Y:        v.Position.Y,
				HX:       v.Heading.X,
				HY:       v.Heading.Y,
				Faction:  uint8(v.Faction),
				Impacted: v.Impacted,
			})
		}
	}
	if len(w.frameCues) > 0 {
		f.Cues = append([]snapshot.Cue(nil), w.frameCues...)
		w.frameCues = w.frameCues[:0]
	}
	return f
}

func agentView(a *unit.Agent) snapshot.Agent {
	h := a.Handle()
	pos, vel := a.Position(), a.Velocity()
	return snapshot.Agent{
		Index:     h.Index,
		Gen:       h.Gen,
		Template:  a.Template(),
		Faction:   uint8(a.Faction()),
		Traversal: uint8(a.Traversal()),
		State:     uint8(a.State()),
		Facing:    uint8(a.Facing()),
		FlipX:     a.FlipX(),
		X:         pos.X,
		Y:         pos.Y,
		VX:        vel.X,
		VY:        vel.Y,
		HP:        a.Health().Current(),
		MaxHP:     a.Health().Max(),
		Radius:    a.HitboxRadius(),
	}
}
