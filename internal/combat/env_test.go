package combat

import (
	"testing"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

type hitRecord struct {
	source model.Handle
	target model.Handle
	amount float64
}

// testEnv backs Env with a real registry and grid.
type testEnv struct {
	t           *testing.T
	reg         *world.Registry
	grid        *world.Grid
	cues        testutil.RecordingCues
	hits        []hitRecord
	heals       []hitRecord
	projectiles []*Projectile
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:    t,
		reg:  world.NewRegistry(),
		grid: world.NewGrid(world.DefaultCellSize, nil),
	}
}

func (e *testEnv) add(agents ...*unit.Agent) {
	for _, a := range agents {
		e.reg.Add(a)
	}
	e.refresh()
}

func (e *testEnv) refresh() {
	e.grid.Rebuild(e.reg.Agents())
}

func (e *testEnv) Cue(h model.Handle, cue string) { e.cues.Cue(h, cue) }

func (e *testEnv) Resolve(h model.Handle) (*unit.Agent, bool) { return e.reg.Resolve(h) }

func (e *testEnv) ForEachInRadius(q world.Query, fn func(*unit.Agent) bool) {
	e.grid.ForEachInRadius(q, fn)
}

func (e *testEnv) Damage(source model.Handle, target *unit.Agent, amount float64) {
	if err := target.Health().Damage(amount); err != nil {
		e.t.Errorf("Damage() error = %v", err)
		return
	}
	e.hits = append(e.hits, hitRecord{source: source, target: target.Handle(), amount: amount})
}

func (e *testEnv) Heal(source model.Handle, target *unit.Agent, amount float64) {
	if err := target.Health().Heal(amount); err != nil {
		e.t.Errorf("Heal() error = %v", err)
		return
	}
	e.heals = append(e.heals, hitRecord{source: source, target: target.Handle(), amount: amount})
}

func (e *testEnv) Launch(p *Projectile) { e.projectiles = append(e.projectiles, p) }

func (e *testEnv) Jitter() float64 { return 0.5 }

func (e *testEnv) hitsOn(h model.Handle) int {
	n := 0
	for _, r := range e.hits {
		if r.target == h {
			n++
		}
	}
	return n
}
