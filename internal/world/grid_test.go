package world

import (
	"math"
	"testing"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
	"github.com/udisondev/skirmish/internal/unit"
)

func TestGrid_CellOf(t *testing.T) {
	g := NewGrid(4, nil)

	tests := []struct {
		pos  model.Vec2
		want Cell
	}{
		{model.V(0, 0), Cell{0, 0}},
		{model.V(3.99, 7.5), Cell{0, 1}},
		{model.V(-0.1, -4), Cell{-1, -1}},
		{model.V(-4.01, 8), Cell{-2, 2}},
	}
	for _, tt := range tests {
		if got := g.CellOf(tt.pos); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestGrid_QueryRadiusFilters(t *testing.T) {
	g := NewGrid(4, nil)

	origin := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0))
	near := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0))
	far := testutil.NewAgent(t, model.FactionEnemy, model.V(20, 0))
	ally := testutil.NewAgent(t, model.FactionFriend, model.V(1, 1))
	dead := testutil.NewAgent(t, model.FactionEnemy, model.V(1, 0))
	flyer := testutil.NewAgent(t, model.FactionEnemy, model.V(0, 2), testutil.WithTraversal(model.TraversalAir))

	g.Rebuild([]*unit.Agent{origin, near, far, ally, dead, flyer})
	_ = dead.Health().Damage(1000)

	got := g.QueryRadius(Query{
		Origin:   origin,
		Radius:   4,
		Factions: []model.Faction{model.FactionEnemy},
	})
	if len(got) != 2 {
		t.Fatalf("QueryRadius() returned %d agents, want 2 (near, flyer)", len(got))
	}
	for _, a := range got {
		if a == dead || a == far || a == ally || a == origin {
			t.Errorf("QueryRadius() returned unexpected agent at %v", a.Position())
		}
	}

	ground := g.QueryRadius(Query{
		Origin:     origin,
		Radius:     4,
		Factions:   []model.Faction{model.FactionEnemy},
		Traversals: []model.Traversal{model.TraversalGround},
	})
	if len(ground) != 1 || ground[0] != near {
		t.Errorf("QueryRadius(ground) = %d agents, want only near", len(ground))
	}
}

func TestGrid_QueryRadiusCountsBothHitboxes(t *testing.T) {
	g := NewGrid(4, nil)

	origin := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0), testutil.WithRadius(1))
	edge := testutil.NewAgent(t, model.FactionEnemy, model.V(5.4, 0), testutil.WithRadius(0.5))
	g.Rebuild([]*unit.Agent{origin, edge})

	got := g.QueryRadius(Query{Origin: origin, Radius: 4, Factions: []model.Faction{model.FactionEnemy}})
	if len(got) != 1 {
		t.Errorf("with origin: got %d, want 1 (4 + 1 + 0.5 >= 5.4)", len(got))
	}

	got = g.QueryRadius(Query{Center: model.V(0, 0), Radius: 4, Factions: []model.Faction{model.FactionEnemy}})
	if len(got) != 0 {
		t.Errorf("without origin: got %d, want 0 (4 + 0.5 < 5.4)", len(got))
	}
}

func TestGrid_EmptyAllowSet(t *testing.T) {
	g := NewGrid(4, nil)
	a := testutil.NewAgent(t, model.FactionEnemy, model.V(0, 0))
	g.Rebuild([]*unit.Agent{a})

	if got := g.QueryRadius(Query{Center: model.V(0, 0), Radius: 10}); len(got) != 0 {
		t.Errorf("QueryRadius() with empty allow-set = %d agents, want 0", len(got))
	}
	if got := NewGrid(4, nil).QueryRadius(Query{Center: model.V(0, 0), Radius: 10, Factions: []model.Faction{model.FactionEnemy}}); got != nil {
		t.Errorf("QueryRadius() on empty grid = %v, want nil", got)
	}
}

type halfScreen struct{}

func (halfScreen) Visible(p model.Vec2) bool { return p.X < 10 }

func TestGrid_OnScreenCulling(t *testing.T) {
	g := NewGrid(4, halfScreen{})

	origin := testutil.NewAgent(t, model.FactionFriend, model.V(8, 0))
	visible := testutil.NewAgent(t, model.FactionEnemy, model.V(6, 0))
	hidden := testutil.NewAgent(t, model.FactionEnemy, model.V(11, 0))
	offOrigin := testutil.NewAgent(t, model.FactionFriend, model.V(12, 0))
	g.Rebuild([]*unit.Agent{origin, visible, hidden, offOrigin})

	enemies := []model.Faction{model.FactionEnemy}

	got := g.QueryRadius(Query{Origin: origin, Radius: 5, Factions: enemies, OnScreenOnly: true})
	if len(got) != 1 || got[0] != visible {
		t.Errorf("on-screen query = %d agents, want only the visible one", len(got))
	}

	got = g.QueryRadius(Query{Origin: offOrigin, Radius: 8, Factions: enemies, OnScreenOnly: true})
	if len(got) != 0 {
		t.Errorf("off-screen origin query = %d agents, want 0", len(got))
	}

	got = g.QueryRadius(Query{Origin: origin, Radius: 5, Factions: enemies})
	if len(got) != 2 {
		t.Errorf("unculled query = %d agents, want 2", len(got))
	}
}

func TestGrid_NoDuplicatesAndDistanceBound(t *testing.T) {
	g := NewGrid(2, nil)

	var agents []*unit.Agent
	for i := 0; i < 40; i++ {
		angle := float64(i) * 0.7
		r := float64(i%10) * 0.9
		agents = append(agents, testutil.NewAgent(t, model.FactionEnemy,
			model.V(r*math.Cos(angle), r*math.Sin(angle)), testutil.WithRadius(0.3)))
	}
	g.Rebuild(agents)

	const radius = 3.5
	got := g.QueryRadius(Query{Center: model.V(0, 0), Radius: radius, Factions: []model.Faction{model.FactionEnemy}})

	seen := make(map[*unit.Agent]bool)
	for _, a := range got {
		if seen[a] {
			t.Fatalf("duplicate agent at %v", a.Position())
		}
		seen[a] = true
		if d := a.Position().Len(); d > radius+a.HitboxRadius() {
			t.Errorf("agent at distance %v exceeds %v", d, radius+a.HitboxRadius())
		}
	}

	want := 0
	for _, a := range agents {
		if a.Position().Len() <= radius+a.HitboxRadius() {
			want++
		}
	}
	if len(got) != want {
		t.Errorf("QueryRadius() = %d agents, want %d", len(got), want)
	}
}
