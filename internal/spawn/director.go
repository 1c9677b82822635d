package spawn

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/model"
)

// Wave is a group the director may send.
type Wave struct {
	Template string
	Faction  model.Faction
	Count    int
	Power    float64
	After    float64 // seconds since the director started
}

// WavesFromScenario converts wave specs. A zero power is derived from the
// template power times the count; waves that end up powerless are dropped.
func WavesFromScenario(specs []config.WaveSpec, templates config.Templates) ([]Wave, error) {
	out := make([]Wave, 0, len(specs))
	for i, ws := range specs {
		tpl, ok := templates[ws.Template]
		if !ok {
			return nil, fmt.Errorf("wave %d: template %q: %w", i, ws.Template, ErrUnknownTemplate)
		}
		faction := model.FactionEnemy
		if ws.Faction != "" {
			f, err := config.ParseFaction(ws.Faction)
			if err != nil {
				return nil, fmt.Errorf("wave %d: %w", i, err)
			}
			faction = f
		}
		count := max(ws.Count, 1)
		power := ws.Power
		if power == 0 {
			power = tpl.Power * float64(count)
		}
		if power <= 0 {
			slog.Warn("wave has no power, skipped", "wave", i, "template", ws.Template)
			continue
		}
		out = append(out, Wave{
			Template: ws.Template,
			Faction:  faction,
			Count:    count,
			Power:    power,
			After:    ws.After,
		})
	}
	return out, nil
}

// GroupSpawner places a group of agents.
type GroupSpawner interface {
	SpawnGroup(req Request, count int) ([]model.Handle, error)
}

// Director sends waves so that spawned power per second tracks a target
// curve that rises with elapsed time. Waves and spawn areas are picked by
// weight; every pick raises all weights and resets the picked ones.
type Director struct {
	cfg     config.DirectorConfig
	spawner GroupSpawner
	rng     *rand.Rand

	waves       []Wave
	areas       []orb.Bound
	waveWeights []float64
	areaWeights []float64

	started bool
	start   float64
	nextAt  float64
	total   float64
	sent    int
}

// NewDirector creates a director. Waves are ordered by After, latest first.
// Waves without power are ignored.
func NewDirector(cfg config.DirectorConfig, waves []Wave, areas []orb.Bound, spawner GroupSpawner, rng *rand.Rand) *Director {
	sorted := slices.DeleteFunc(slices.Clone(waves), func(w Wave) bool { return w.Power <= 0 })
	slices.SortStableFunc(sorted, func(a, b Wave) int {
		return cmp.Compare(b.After, a.After)
	})

	d := &Director{
		cfg:         cfg,
		spawner:     spawner,
		rng:         rng,
		waves:       sorted,
		areas:       slices.Clone(areas),
		waveWeights: make([]float64, len(sorted)),
		areaWeights: make([]float64, len(areas)),
	}
	for i := range d.waveWeights {
		d.waveWeights[i] = 1
	}
	for i := range d.areaWeights {
		d.areaWeights[i] = 1
	}
	return d
}

// TotalPower returns the power spawned so far.
func (d *Director) TotalPower() float64 { return d.total }

// WavesSent returns the number of waves spawned so far.
func (d *Director) WavesSent() int { return d.sent }

// NextAt returns the simulation time of the next check.
func (d *Director) NextAt() float64 { return d.nextAt }

// TargetPowerPerSecond is the allowed spawn rate at elapsed seconds.
func TargetPowerPerSecond(elapsed float64) float64 {
	return (10000 + math.Pow(max(elapsed, 0), 1.5)) / 5000
}

// Update runs the director at simulation time now. The first call starts
// the clock.
func (d *Director) Update(now float64) {
	if !d.started {
		d.started = true
		d.start = now
		d.nextAt = now
	}
	if now < d.nextAt || len(d.waves) == 0 || len(d.areas) == 0 {
		return
	}

	elapsed := now - d.start
	for d.powerPerSecond(elapsed) < TargetPowerPerSecond(elapsed) {
		eligible := d.eligible(elapsed)
		if len(eligible) == 0 {
			d.nextAt = now + d.cfg.RetryDelay
			return
		}

		wi := d.pick(d.waveWeights, eligible)
		si := d.pick(d.areaWeights, nil)
		d.send(d.waves[wi], d.areas[si])

		for i := range d.waveWeights {
			d.waveWeights[i] += d.cfg.WeightIncreasePerSkip
		}
		for i := range d.areaWeights {
			d.areaWeights[i] += d.cfg.WeightIncreasePerSkip
		}
		d.waveWeights[wi] = 1
		d.areaWeights[si] = 1
	}

	wait := d.waitTime(elapsed)
	if wait <= 0 {
		wait = d.cfg.MinWait
	}
	d.nextAt = now + wait
}

func (d *Director) powerPerSecond(elapsed float64) float64 {
	if elapsed <= 0 {
		elapsed = 0.01
	}
	return d.total / elapsed
}

// waitTime is how long until spawned power per second drops to the target.
func (d *Director) waitTime(elapsed float64) float64 {
	if d.total == 0 {
		return 0
	}
	return max(0, d.total/TargetPowerPerSecond(elapsed)-elapsed)
}

// eligible returns, per template, the unlocked wave with the highest count,
// in order of the template's first unlocked wave.
func (d *Director) eligible(elapsed float64) []int {
	best := make(map[string]int)
	var order []string
	for i, w := range d.waves {
		if elapsed < w.After {
			continue
		}
		j, seen := best[w.Template]
		if !seen {
			order = append(order, w.Template)
			best[w.Template] = i
			continue
		}
		if w.Count > d.waves[j].Count {
			best[w.Template] = i
		}
	}

	out := make([]int, len(order))
	for i, name := range order {
		out[i] = best[name]
	}
	return out
}

// pick draws an index from candidates (all indices when nil) by weight.
func (d *Director) pick(weights []float64, candidates []int) int {
	if candidates == nil {
		candidates = make([]int, len(weights))
		for i := range candidates {
			candidates[i] = i
		}
	}

	total := 0.0
	for _, i := range candidates {
		total += weights[i]
	}
	if total <= 0 {
		slog.Warn("director weights exhausted, taking first candidate", "candidates", len(candidates))
		return candidates[0]
	}

	r := d.rng.Float64() * total
	acc := 0.0
	for _, i := range candidates {
		acc += weights[i]
		if r <= acc {
			return i
		}
	}
	return candidates[len(candidates)-1]
}

func (d *Director) send(w Wave, area orb.Bound) {
	center := model.V(
		area.Min.X()+d.rng.Float64()*(area.Max.X()-area.Min.X()),
		area.Min.Y()+d.rng.Float64()*(area.Max.Y()-area.Min.Y()),
	)

	d.total += w.Power
	d.sent++

	handles, err := d.spawner.SpawnGroup(Request{
		Position: center,
		Template: w.Template,
		Faction:  w.Faction,
	}, w.Count)
	if err != nil {
		slog.Warn("wave spawn failed", "template", w.Template, "spawned", len(handles), "error", err)
		return
	}

	slog.Info("wave sent",
		"template", w.Template,
		"count", len(handles),
		"power", w.Power,
		"total", d.total)
}
