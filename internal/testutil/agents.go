package testutil

import (
	"testing"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

// AgentOption tweaks the config of a test agent.
type AgentOption func(*unit.Config)

func WithHP(hp float64) AgentOption {
	return func(c *unit.Config) { c.MaxHP = hp }
}

func WithRadius(r float64) AgentOption {
	return func(c *unit.Config) { c.Radius = r }
}

func WithMass(m float64) AgentOption {
	return func(c *unit.Config) { c.Mass = m }
}

func WithVision(v float64) AgentOption {
	return func(c *unit.Config) { c.Vision = v }
}

func WithTraversal(t model.Traversal) AgentOption {
	return func(c *unit.Config) { c.Traversal = t }
}

func WithStatic() AgentOption {
	return func(c *unit.Config) { c.Static = true }
}

func WithSpeed(s float64) AgentOption {
	return func(c *unit.Config) { c.Movement = unit.NewMovement(s) }
}

func WithAttacks(a ...unit.Attack) AgentOption {
	return func(c *unit.Config) { c.Attacks = a }
}

func WithDrag(d float64) AgentOption {
	return func(c *unit.Config) { c.Drag = d }
}

// NewAgent создаёт агента для тестов: 100 HP, радиус 0.5, обзор 8, скорость 2.
func NewAgent(tb testing.TB, faction model.Faction, pos model.Vec2, opts ...AgentOption) *unit.Agent {
	tb.Helper()

	cfg := unit.Config{
		Template: "test",
		Faction:  faction,
		Vision:   8,
		MaxHP:    100,
		Radius:   0.5,
		Mass:     1,
		Drag:     5,
		Position: pos,
		Movement: unit.NewMovement(2),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a, err := unit.New(cfg)
	if err != nil {
		tb.Fatalf("unit.New() error = %v", err)
	}
	return a
}
