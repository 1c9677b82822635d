package model

// UnitState represents combat state of an agent
type UnitState int32

const (
	// StateIdle - agent has neither a target nor guidance
	StateIdle UnitState = iota
	// StatePursuing - agent moves toward a target or objective
	StatePursuing
	// StateAttacking - an attack behavior is winding up or active
	StateAttacking
	// StateDying - health reached zero, waiting for removal
	StateDying
	// StateTeleporting - captured by a well, sliding toward it
	StateTeleporting
)

// String returns human-readable state name
func (s UnitState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePursuing:
		return "PURSUING"
	case StateAttacking:
		return "ATTACKING"
	case StateDying:
		return "DYING"
	case StateTeleporting:
		return "TELEPORTING"
	default:
		return "UNKNOWN"
	}
}

// Combatant reports whether an agent in this state can attack or be targeted.
func (s UnitState) Combatant() bool {
	return s != StateDying && s != StateTeleporting
}
