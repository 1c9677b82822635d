package model

// Faction determines which agents may target each other.
type Faction uint8

const (
	FactionFriend Faction = iota
	FactionEnemy
	FactionNeutral
)

// String returns human-readable faction name
func (f Faction) String() string {
	switch f {
	case FactionFriend:
		return "FRIEND"
	case FactionEnemy:
		return "ENEMY"
	case FactionNeutral:
		return "NEUTRAL"
	default:
		return "UNKNOWN"
	}
}

// Hostiles returns the allow-set of factions this faction may attack.
func (f Faction) Hostiles() []Faction {
	switch f {
	case FactionFriend:
		return []Faction{FactionEnemy, FactionNeutral}
	case FactionEnemy:
		return []Faction{FactionFriend, FactionNeutral}
	default:
		return []Faction{FactionFriend, FactionEnemy}
	}
}

// CanTarget reports whether an attacker of faction a may target faction b.
// Same-faction pairs never qualify; Neutral attacks and is attacked by anyone else.
func CanTarget(a, b Faction) bool {
	return a != b
}

// ParseFaction converts a config string to Faction.
func ParseFaction(s string) (Faction, bool) {
	switch s {
	case "friend", "FRIEND":
		return FactionFriend, true
	case "enemy", "ENEMY":
		return FactionEnemy, true
	case "neutral", "NEUTRAL":
		return FactionNeutral, true
	default:
		return FactionNeutral, false
	}
}

// Traversal selects the occlusion layers an agent is subject to.
type Traversal uint8

const (
	TraversalGround Traversal = iota
	TraversalAir
)

// TraversalCount is the number of traversal classes.
const TraversalCount = 2

// FactionCount is the number of factions.
const FactionCount = 3

// String returns human-readable traversal name
func (t Traversal) String() string {
	switch t {
	case TraversalGround:
		return "GROUND"
	case TraversalAir:
		return "AIR"
	default:
		return "UNKNOWN"
	}
}

// ParseTraversal converts a config string to Traversal.
func ParseTraversal(s string) (Traversal, bool) {
	switch s {
	case "ground", "GROUND", "":
		return TraversalGround, true
	case "air", "AIR":
		return TraversalAir, true
	default:
		return TraversalGround, false
	}
}
