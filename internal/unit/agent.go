package unit

import (
	"errors"
	"fmt"
	"math"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/physics"
)

// ErrMultipleBasic is returned when more than one attack is flagged basic.
var ErrMultipleBasic = errors.New("more than one basic attack")

// Config describes an agent to build.
type Config struct {
	Template  string
	Faction   model.Faction
	Traversal model.Traversal
	Static    bool
	Vision    float64

	MaxHP    float64
	Immortal bool
	Radius   float64
	Mass     float64
	Scale    float64
	Drag     float64

	Position model.Vec2
	Attacks  []Attack
	Movement *Movement
}

// Agent is an autonomous faction-aligned actor.
type Agent struct {
	handle    model.Handle
	template  string
	traversal model.Traversal
	static    bool
	vision    float64

	health   *model.Health
	body     *physics.Body
	attacks  []Attack
	movement *Movement

	state   model.UnitState
	target  model.Handle
	moveDir model.Vec2
	// desiredDistance is how far the agent still wants to travel along moveDir.
	desiredDistance float64
	facing          model.Direction
	flipX           bool

	lastAttackAt       float64
	lastAttackDuration float64
	lastAttackCheckAt  float64
	diedAt             float64

	teleport *teleport
}

type teleport struct {
	dest  model.Vec2
	speed float64
}

// New builds an agent. The handle is assigned on registration.
func New(cfg Config) (*Agent, error) {
	basics := 0
	for _, a := range cfg.Attacks {
		if a.Params().Basic {
			basics++
		}
	}
	if basics > 1 {
		return nil, fmt.Errorf("template %q: %w", cfg.Template, ErrMultipleBasic)
	}

	h := model.NewHealth(cfg.MaxHP, cfg.Faction)
	h.SetImmortal(cfg.Immortal)
	radius := cfg.Radius
	if radius <= 0 {
		radius = 0.5
	}
	mass := cfg.Mass
	if mass <= 0 {
		mass = 1
	}
	h.SetBody(radius, mass)
	if cfg.Scale > 0 {
		h.SetScaleFactor(cfg.Scale)
	}

	body := physics.NewBody(cfg.Position, h.HitboxRadius(), h.Mass(), cfg.Drag)
	body.Static = cfg.Static

	return &Agent{
		template:          cfg.Template,
		traversal:         cfg.Traversal,
		static:            cfg.Static,
		vision:            cfg.Vision,
		health:            h,
		body:              body,
		attacks:           cfg.Attacks,
		movement:          cfg.Movement,
		lastAttackAt:      math.Inf(-1),
		lastAttackCheckAt: math.Inf(-1),
		diedAt:            math.Inf(1),
	}, nil
}

func (a *Agent) Handle() model.Handle { return a.handle }

// SetHandle is called by the registry on insertion.
func (a *Agent) SetHandle(h model.Handle) { a.handle = h }

func (a *Agent) Template() string { return a.template }
func (a *Agent) Faction() model.Faction { return a.health.Faction() }
func (a *Agent) Traversal() model.Traversal { return a.traversal }
func (a *Agent) IsStatic() bool { return a.static }
func (a *Agent) VisionRadius() float64 { return a.vision }
func (a *Agent) Health() *model.Health { return a.health }
func (a *Agent) Body() *physics.Body { return a.body }
func (a *Agent) Attacks() []Attack { return a.attacks }
func (a *Agent) Movement() *Movement { return a.movement }
func (a *Agent) State() model.UnitState { return a.state }
func (a *Agent) Position() model.Vec2 { return a.body.Pos }
func (a *Agent) Velocity() model.Vec2 { return a.body.Vel }
func (a *Agent) HitboxRadius() float64 { return a.health.HitboxRadius() }
func (a *Agent) IsDead() bool { return a.health.IsDead() }
func (a *Agent) Facing() model.Direction { return a.facing }
func (a *Agent) FlipX() bool { return a.flipX }
func (a *Agent) Target() model.Handle { return a.target }
func (a *Agent) MoveDirection() model.Vec2 { return a.moveDir }
func (a *Agent) DesiredDistance() float64 { return a.desiredDistance }
func (a *Agent) DiedAt() float64 { return a.diedAt }
func (a *Agent) Teleporting() bool { return a.teleport != nil }
func (a *Agent) SetState(s model.UnitState) { a.state = s }
func (a *Agent) SetTarget(h model.Handle) { a.target = h }
func (a *Agent) ClearTarget() { a.target = model.NoHandle }
func (a *Agent) LastAttackCheck() float64 { return a.lastAttackCheckAt }
func (a *Agent) MarkAttackCheck(now float64) { a.lastAttackCheckAt = now }

// Alive reports whether the agent can still act or be targeted.
func (a *Agent) Alive() bool {
	return !a.health.IsDead() && a.state.Combatant()
}

// Speed returns the current movement speed, zero for agents without movement.
func (a *Agent) Speed() float64 {
	if a.movement == nil {
		return 0
	}
	return a.movement.Speed()
}

// SetMoveDirection stores the steering result and the remaining distance
// toward the goal that produced it.
func (a *Agent) SetMoveDirection(dir model.Vec2, distance float64) {
	a.moveDir = dir
	a.desiredDistance = distance
}

// BasicRange returns the range of the basic attack, or zero.
func (a *Agent) BasicRange() float64 {
	for _, atk := range a.attacks {
		if p := atk.Params(); p.Basic {
			return p.Range
		}
	}
	return 0
}

// Face turns the agent toward a world position.
func (a *Agent) Face(pos model.Vec2) {
	a.facing = model.FacingOf(a.body.Pos, pos)
	a.flipX = pos.X-a.body.Pos.X < 0
}

// CommitAttack starts the attack lock: no new attack until duration passes.
func (a *Agent) CommitAttack(now, duration float64) {
	a.lastAttackAt = now
	a.lastAttackDuration = duration
}

// AttackLocked reports whether the last committed attack is still active.
func (a *Agent) AttackLocked(now float64) bool {
	return now-a.lastAttackAt < a.lastAttackDuration
}

// CancelAttacks drops every pending wind-up and active window.
func (a *Agent) CancelAttacks() {
	for _, atk := range a.attacks {
		atk.Cancel()
	}
	a.lastAttackDuration = 0
}

// MarkDying switches the agent to Dying and removes it from contacts.
// Pending attacks are the caller's to cancel.
func (a *Agent) MarkDying(now float64) {
	a.teleport = nil
	a.state = model.StateDying
	a.diedAt = now
	a.target = model.NoHandle
	a.moveDir = model.Vec2{}
	a.body.Solid = false
}

// StartTeleport removes the agent from combat and slides it to dest.
// Pending attacks are the caller's to cancel.
func (a *Agent) StartTeleport(dest model.Vec2, speed float64) {
	a.teleport = &teleport{dest: dest, speed: speed}
	a.state = model.StateTeleporting
	a.target = model.NoHandle
	a.body.Solid = false
}

// CancelTeleport returns a sliding agent to combat.
func (a *Agent) CancelTeleport() {
	if a.teleport == nil {
		return
	}
	a.teleport = nil
	a.state = model.StateIdle
	a.body.Solid = true
}

// AdvanceTeleport moves the agent toward its capture point.
// Returns true on arrival.
func (a *Agent) AdvanceTeleport(dt float64) bool {
	if a.teleport == nil {
		return false
	}
	to := a.teleport.dest.Sub(a.body.Pos)
	step := a.teleport.speed * dt
	if to.Len() <= step {
		a.body.Pos = a.teleport.dest
		a.body.Vel = model.Vec2{}
		return true
	}
	a.body.Pos = a.body.Pos.Add(to.Normalized().Scale(step))
	a.body.Vel = model.Vec2{}
	return false
}

// SyncBody copies hitbox radius and mass from health after a scale change.
func (a *Agent) SyncBody() {
	a.body.Radius = a.health.HitboxRadius()
	a.body.Mass = a.health.Mass()
}

// WithinRange reports whether other is within r of the agent, counting both hitboxes.
func (a *Agent) WithinRange(other *Agent, r float64) bool {
	reach := r + a.HitboxRadius() + other.HitboxRadius()
	return a.Position().DistanceSquared(other.Position()) <= reach*reach
}

// CanTarget reports whether other is a valid live target for a.
func (a *Agent) CanTarget(other *Agent) bool {
	if other == nil || other == a {
		return false
	}
	return other.Alive() && model.CanTarget(a.Faction(), other.Faction())
}
