package combat

import (
	"github.com/udisondev/skirmish/internal/ballistics"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// ProjectileParams tune the Ranged variant's shot.
type ProjectileParams struct {
	Speed    float64 `yaml:"speed"`
	AngleDeg float64 `yaml:"angle"`
	AOE      bool    `yaml:"aoe"`
}

// DefaultProjectileParams: speed 5, fired at 30 degrees, single target.
func DefaultProjectileParams() ProjectileParams {
	return ProjectileParams{Speed: 5, AngleDeg: 30}
}

// ProjectileView is the render-facing state of a projectile.
type ProjectileView struct {
	Position model.Vec2
	Heading  model.Vec2
	Faction  model.Faction
	Impacted bool
}

// Projectile flies along an arc toward a predicted intercept point and
// resolves its impact exactly once.
type Projectile struct {
	source  model.Handle
	faction model.Faction
	attack  unit.AttackParams
	aoe     bool

	arc     ballistics.Arc
	elapsed float64
	pos     model.Vec2
	heading model.Vec2

	hitRadius float64
	jitter    float64
	linger    float64
	impacted  bool
	done      bool
}

// NewProjectile aims a shot from shooter at target, leading the target's
// current velocity.
func NewProjectile(cfg Config, shooter, target *unit.Agent, attack unit.AttackParams, pp ProjectileParams) *Projectile {
	origin := shooter.Position()
	aim, _ := ballistics.Intercept(origin, target.Position(), target.Velocity(), pp.Speed, cfg.LeadFactor)
	arc := ballistics.NewArc(origin, aim, pp.Speed, pp.AngleDeg)

	return &Projectile{
		source:    shooter.Handle(),
		faction:   shooter.Faction(),
		attack:    attack,
		aoe:       pp.AOE,
		arc:       arc,
		pos:       origin,
		heading:   arc.Heading(0),
		hitRadius: cfg.ProjectileHitRadius,
		jitter:    cfg.ImpactJitter,
		linger:    cfg.ProjectileLinger,
	}
}

func (p *Projectile) Source() model.Handle { return p.source }
func (p *Projectile) Faction() model.Faction { return p.faction }
func (p *Projectile) Position() model.Vec2 { return p.pos }
func (p *Projectile) Heading() model.Vec2 { return p.heading }
func (p *Projectile) Target() model.Vec2 { return p.arc.End() }
func (p *Projectile) Impacted() bool { return p.impacted }

// Done reports whether the projectile finished lingering and can be dropped.
func (p *Projectile) Done() bool { return p.done }

func (p *Projectile) View() ProjectileView {
	return ProjectileView{Position: p.pos, Heading: p.heading, Faction: p.faction, Impacted: p.impacted}
}

// Tick advances flight by dt. Impact happens on the tick t reaches 1.
func (p *Projectile) Tick(env Env, dt float64) {
	if p.done {
		return
	}
	if p.impacted {
		p.linger -= dt
		if p.linger <= 0 {
			p.done = true
		}
		return
	}

	p.elapsed += dt
	t := p.arc.Progress(p.elapsed)
	if t >= 1 {
		p.pos = p.arc.End()
		p.impacted = true
		p.impact(env)
		if p.linger <= 0 {
			p.done = true
		}
		return
	}

	p.pos = p.arc.Position(t)
	if h := p.arc.Heading(t); !h.NearZero() {
		p.heading = h
	}
}

func (p *Projectile) impact(env Env) {
	var (
		victims []*unit.Agent
		nearest *unit.Agent
		bestSq  float64
	)
	env.ForEachInRadius(world.Query{
		Center:   p.pos,
		Radius:   p.hitRadius,
		Factions: p.faction.Hostiles(),
	}, func(a *unit.Agent) bool {
		if !a.Alive() || !model.CanTarget(p.faction, a.Faction()) {
			return true
		}
		victims = append(victims, a)
		if sq := p.pos.DistanceSquared(a.Position()); nearest == nil || sq < bestSq {
			nearest, bestSq = a, sq
		}
		return true
	})
	if nearest == nil {
		return
	}
	if !p.aoe {
		victims = []*unit.Agent{nearest}
	}

	// Nudge the push origin so a target sitting exactly on the impact
	// point still gets a direction.
	from := p.pos.Add(model.V(env.Jitter()*p.jitter, env.Jitter()*p.jitter))
	for _, v := range victims {
		hit(env, p.source, v, from, p.attack)
	}
}
