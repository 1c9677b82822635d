package combat

import (
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// Env is the slice of the world that attack behaviors need.
// Injected by the simulation to avoid an import cycle with package sim.
type Env interface {
	unit.CueSink

	// Resolve looks up an agent by handle. Stale handles miss.
	Resolve(h model.Handle) (*unit.Agent, bool)

	// ForEachInRadius runs fn for every agent matching q.
	ForEachInRadius(q world.Query, fn func(*unit.Agent) bool)

	// Damage applies amount to target on behalf of source.
	Damage(source model.Handle, target *unit.Agent, amount float64)

	// Heal restores amount to target on behalf of source.
	Heal(source model.Handle, target *unit.Agent, amount float64)

	// Launch hands a projectile to the world for ticking.
	Launch(p *Projectile)

	// Jitter returns a uniform value in [-1, 1).
	Jitter() float64
}

// Config holds tuning shared by every controller and projectile.
type Config struct {
	AttackCheckInterval float64 `yaml:"attack_check_interval"`
	DashMomentumKeep    float64 `yaml:"dash_momentum_keep"`
	ProjectileHitRadius float64 `yaml:"projectile_hit_radius"`
	ProjectileLinger    float64 `yaml:"projectile_linger"`
	LeadFactor          float64 `yaml:"lead_factor"`
	ImpactJitter        float64 `yaml:"impact_jitter"`
}

// DefaultConfig returns the stock combat tuning.
func DefaultConfig() Config {
	return Config{
		AttackCheckInterval: 0.2,
		DashMomentumKeep:    0.025,
		ProjectileHitRadius: 0.1,
		ProjectileLinger:    0.5,
		LeadFactor:          0.8,
		ImpactJitter:        1e-4,
	}
}
