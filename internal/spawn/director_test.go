package spawn

import (
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/model"
)

type groupCall struct {
	req   Request
	count int
}

type recordingGroups struct {
	calls []groupCall
}

func (r *recordingGroups) SpawnGroup(req Request, count int) ([]model.Handle, error) {
	r.calls = append(r.calls, groupCall{req: req, count: count})
	return make([]model.Handle, count), nil
}

func directorConfig() config.DirectorConfig {
	return config.DirectorConfig{Enabled: true, WeightIncreasePerSkip: 2, RetryDelay: 0.5, MinWait: 0.1}
}

func newDirector(waves []Wave, areas ...orb.Bound) (*Director, *recordingGroups) {
	rec := &recordingGroups{}
	if len(areas) == 0 {
		areas = []orb.Bound{{Min: orb.Point{10, 10}, Max: orb.Point{12, 14}}}
	}
	return NewDirector(directorConfig(), waves, areas, rec, rand.New(rand.NewPCG(1, 2))), rec
}

func TestTargetPowerPerSecond(t *testing.T) {
	assert.InDelta(t, 2.0, TargetPowerPerSecond(0), 1e-12)
	assert.InDelta(t, 2.2, TargetPowerPerSecond(100), 1e-9)
	assert.InDelta(t, 2.0, TargetPowerPerSecond(-5), 1e-12)
}

func TestDirector_PacesSpawnsToTarget(t *testing.T) {
	d, rec := newDirector([]Wave{{Template: "swordsman", Faction: model.FactionEnemy, Count: 4, Power: 4}})

	d.Update(0)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, 4, rec.calls[0].count)
	assert.Equal(t, 4.0, d.TotalPower())
	// 4 power at 2 per second
	assert.InDelta(t, 2.0, d.NextAt(), 1e-9)

	d.Update(1)
	assert.Len(t, rec.calls, 1)

	d.Update(2)
	assert.Len(t, rec.calls, 2)
	assert.InDelta(t, 2+8/TargetPowerPerSecond(2)-2, d.NextAt(), 1e-9)
}

func TestDirector_SpawnsInsideArea(t *testing.T) {
	area := orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{12, 14}}
	d, rec := newDirector([]Wave{{Template: "swordsman", Faction: model.FactionEnemy, Count: 1, Power: 1}}, area)

	for i := range 50 {
		d.Update(float64(i))
	}
	require.NotEmpty(t, rec.calls)
	for _, c := range rec.calls {
		p := c.req.Position
		assert.True(t, area.Contains(orb.Point{p.X, p.Y}), "position %v", p)
		assert.Equal(t, model.FactionEnemy, c.req.Faction)
	}
}

func TestDirector_WaitsForEligibleWave(t *testing.T) {
	d, rec := newDirector([]Wave{{Template: "brute", Count: 1, Power: 3, After: 10}})

	d.Update(0)
	assert.Empty(t, rec.calls)
	assert.InDelta(t, 0.5, d.NextAt(), 1e-12)

	d.Update(9.5)
	assert.Empty(t, rec.calls)

	// unlocked late: catches up on the power owed since the start
	d.Update(10)
	owed := TargetPowerPerSecond(10) * 10
	assert.GreaterOrEqual(t, d.TotalPower(), owed)
	assert.Less(t, d.TotalPower(), owed+3)
	assert.Len(t, rec.calls, 7)
	assert.Equal(t, 7, d.WavesSent())
}

func TestDirector_EligibleKeepsLargestWavePerTemplate(t *testing.T) {
	d, _ := newDirector([]Wave{
		{Template: "swordsman", Count: 4, Power: 4},
		{Template: "swordsman", Count: 8, Power: 8, After: 10},
		{Template: "archer", Count: 3, Power: 3, After: 5},
	})

	// sorted latest first: swordsman x8, archer, swordsman x4
	got := d.eligible(0)
	require.Len(t, got, 1)
	assert.Equal(t, 4, d.waves[got[0]].Count)

	got = d.eligible(20)
	require.Len(t, got, 2)
	assert.Equal(t, "swordsman", d.waves[got[0]].Template)
	assert.Equal(t, 8, d.waves[got[0]].Count)
	assert.Equal(t, "archer", d.waves[got[1]].Template)
}

func TestDirector_Weights(t *testing.T) {
	areas := []orb.Bound{
		{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}},
		{Min: orb.Point{5, 5}, Max: orb.Point{6, 6}},
	}
	d, rec := newDirector([]Wave{
		{Template: "swordsman", Count: 1, Power: 1},
		{Template: "archer", Count: 1, Power: 1},
	}, areas...)

	d.Update(0)
	require.Len(t, rec.calls, 1)

	picked := 0
	if rec.calls[0].req.Template == "archer" {
		picked = 1
	}
	for i, w := range d.waveWeights {
		if i == picked {
			assert.Equal(t, 1.0, w)
		} else {
			assert.Equal(t, 3.0, w)
		}
	}

	ones := 0
	for _, w := range d.areaWeights {
		if w == 1 {
			ones++
		} else {
			assert.Equal(t, 3.0, w)
		}
	}
	assert.Equal(t, 1, ones)
}

func TestDirector_PickZeroWeightFallsBack(t *testing.T) {
	d, _ := newDirector(nil)
	assert.Equal(t, 2, d.pick([]float64{0, 0, 0}, []int{2, 0}))
	assert.Equal(t, 1, d.pick([]float64{0, 5}, nil))
}

func TestDirector_NoWavesOrAreas(t *testing.T) {
	d, rec := newDirector([]Wave{{Template: "swordsman", Count: 1, Power: 0}})
	d.Update(0)
	d.Update(5)
	assert.Empty(t, rec.calls)
}

func TestWavesFromScenario(t *testing.T) {
	tpl := config.DefaultTemplates()

	waves, err := WavesFromScenario([]config.WaveSpec{
		{Template: "swordsman", Count: 4},
		{Template: "archer", Faction: "neutral", Count: 2, Power: 7, After: 3},
		{Template: "tower", Count: 1},
	}, tpl)
	require.NoError(t, err)
	require.Len(t, waves, 2)

	assert.Equal(t, model.FactionEnemy, waves[0].Faction)
	assert.Equal(t, 4*tpl["swordsman"].Power, waves[0].Power)
	assert.Equal(t, model.FactionNeutral, waves[1].Faction)
	assert.Equal(t, 7.0, waves[1].Power)

	_, err = WavesFromScenario([]config.WaveSpec{{Template: "dragon"}}, tpl)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
