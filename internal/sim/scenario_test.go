package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/snapshot"
	"github.com/udisondev/skirmish/internal/spawn"
)

func TestFromScenario_Default(t *testing.T) {
	frames := make(chan *snapshot.Frame, 64)
	w, err := FromScenario(Setup{
		Config:    config.DefaultSim(),
		Templates: config.DefaultTemplates(),
		Bus:       event.NewBus(),
		Frames:    frames,
	}, config.DefaultScenario())
	require.NoError(t, err)

	assert.Equal(t, 12, w.Factions()[model.FactionFriend])
	assert.Zero(t, w.Factions()[model.FactionEnemy])
	assert.Len(t, w.Wells(), 2)

	w.Advance(0.5)

	assert.Positive(t, w.Factions()[model.FactionEnemy])
	assert.NotEmpty(t, frames)
}

func TestFromScenario_BadWallLayer(t *testing.T) {
	sc := config.DefaultScenario()
	sc.Walls[0].Layer = "ceiling"

	_, err := FromScenario(Setup{Config: config.DefaultSim(), Templates: config.DefaultTemplates()}, sc)
	assert.Error(t, err)
}

func TestFromScenario_UnknownSquadTemplate(t *testing.T) {
	sc := config.DefaultScenario()
	sc.Squads[0].Template = "dragon"

	_, err := FromScenario(Setup{Config: config.DefaultSim(), Templates: config.DefaultTemplates()}, sc)
	assert.Error(t, err)
}

func TestFromScenario_TilesBlockSquads(t *testing.T) {
	sc := config.Scenario{
		Name:   "blocked",
		Bounds: config.Rect{MaxX: 10, MaxY: 10},
		Tiles: &config.TileSpec{
			Size: 2,
			Rows: []string{".....", "..#..", "....."},
		},
		Squads: []config.SquadSpec{{Point: config.Point{X: 5, Y: 3}, Template: "swordsman", Faction: "friend", Count: 1}},
	}

	_, err := FromScenario(Setup{Config: config.DefaultSim(), Templates: config.DefaultTemplates()}, sc)
	assert.ErrorIs(t, err, spawn.ErrBlocked)

	sc.Squads[0].Point = config.Point{X: 1, Y: 1}
	w, err := FromScenario(Setup{Config: config.DefaultSim(), Templates: config.DefaultTemplates()}, sc)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count())
}
