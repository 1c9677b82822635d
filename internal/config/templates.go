package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/model"
)

var (
	// ErrUnknownAttackKind is returned for an attack kind outside AttackKinds.
	ErrUnknownAttackKind = errors.New("unknown attack kind")
	// ErrDuplicateTemplate is returned when two templates share a name.
	ErrDuplicateTemplate = errors.New("duplicate template")
)

// Attack kinds understood by AttackTemplate.Kind.
const (
	AttackMelee  = "melee"
	AttackArea   = "area"
	AttackDash   = "dash"
	AttackRanged = "ranged"
	AttackPull   = "pull"
)

// AttackTemplate describes one attack behavior of a unit template.
// Variant blocks left nil fall back to the variant defaults.
type AttackTemplate struct {
	Kind      string  `yaml:"kind"`
	Name      string  `yaml:"name"`
	Basic     bool    `yaml:"basic"`
	Damage    float64 `yaml:"damage"`
	Cooldown  float64 `yaml:"cooldown"`
	Delay     float64 `yaml:"delay"`
	Duration  float64 `yaml:"duration"`
	Range     float64 `yaml:"range"`
	Cue       string  `yaml:"cue"`
	Knockback float64 `yaml:"knockback"`

	Area       *combat.Shape            `yaml:"area"`
	ImpactCue  string                   `yaml:"impact_cue"`
	Dash       *combat.DashParams       `yaml:"dash"`
	Projectile *combat.ProjectileParams `yaml:"projectile"`
	Pull       *combat.PullParams       `yaml:"pull"`
}

// UnitTemplate describes an agent kind that can be spawned by name.
type UnitTemplate struct {
	Name      string  `yaml:"name"`
	Traversal string  `yaml:"traversal"`
	Static    bool    `yaml:"static"`
	Vision    float64 `yaml:"vision"`
	MaxHP     float64 `yaml:"max_hp"`
	Immortal  bool    `yaml:"immortal"`
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	Scale     float64 `yaml:"scale"`
	Drag      float64 `yaml:"drag"`
	Speed     float64 `yaml:"speed"`
	// Power is the per-agent weight in the wave director's budget.
	Power float64 `yaml:"power"`

	Attacks []AttackTemplate   `yaml:"attacks"`
	Aura    *combat.AuraParams `yaml:"aura"`
}

// TraversalClass parses Traversal, defaulting to ground.
func (u UnitTemplate) TraversalClass() (model.Traversal, error) {
	if u.Traversal == "" {
		return model.TraversalGround, nil
	}
	t, ok := model.ParseTraversal(u.Traversal)
	if !ok {
		return 0, fmt.Errorf("template %q: unknown traversal %q", u.Name, u.Traversal)
	}
	return t, nil
}

// Templates indexes unit templates by name.
type Templates map[string]UnitTemplate

type templateFile struct {
	Units []UnitTemplate `yaml:"units"`
}

// NewTemplates indexes list and validates it.
func NewTemplates(list []UnitTemplate) (Templates, error) {
	out := make(Templates, len(list))
	for _, u := range list {
		if _, dup := out[u.Name]; dup {
			return nil, fmt.Errorf("template %q: %w", u.Name, ErrDuplicateTemplate)
		}
		if _, err := u.TraversalClass(); err != nil {
			return nil, err
		}
		for _, a := range u.Attacks {
			switch a.Kind {
			case AttackMelee, AttackArea, AttackDash, AttackRanged, AttackPull:
			default:
				return nil, fmt.Errorf("template %q attack %q: %w %q", u.Name, a.Name, ErrUnknownAttackKind, a.Kind)
			}
		}
		out[u.Name] = u
	}
	return out, nil
}

// LoadTemplates loads unit templates from a YAML file.
// If the file doesn't exist, returns DefaultTemplates.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTemplates(), nil
		}
		return nil, fmt.Errorf("reading templates %s: %w", path, err)
	}

	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", path, err)
	}
	return NewTemplates(f.Units)
}

// DefaultTemplates returns the built-in roster.
func DefaultTemplates() Templates {
	melee := func(name string) AttackTemplate {
		return AttackTemplate{Kind: AttackMelee, Name: name, Basic: true, Damage: 10, Duration: 1, Delay: 0.5, Cue: "Attack"}
	}
	shot := combat.DefaultProjectileParams()
	splash := shot
	splash.AOE = true
	splash.AngleDeg = 45

	t, err := NewTemplates([]UnitTemplate{
		{
			Name: "swordsman", Vision: 8, MaxHP: 100, Radius: 0.5, Mass: 1, Drag: 5, Speed: 2, Power: 1,
			Attacks: []AttackTemplate{melee("slash")},
		},
		{
			Name: "brute", Vision: 8, MaxHP: 220, Radius: 0.7, Mass: 3, Drag: 5, Speed: 1.5, Power: 3,
			Attacks: []AttackTemplate{{
				Kind: AttackArea, Name: "cleave", Basic: true, Damage: 18, Duration: 1.4, Delay: 0.6,
				Range: 0.5, Cue: "Attack", Knockback: 3,
				Area: &combat.Shape{Radius: 1, Offset: 0.8}, ImpactCue: "CleaveImpact",
			}},
		},
		{
			Name: "lancer", Vision: 9, MaxHP: 120, Radius: 0.5, Mass: 1.5, Drag: 5, Speed: 2.5, Power: 2,
			Attacks: []AttackTemplate{
				{
					Kind: AttackDash, Name: "charge", Damage: 15, Cooldown: 4, Duration: 1, Delay: 0.3,
					Range: 6, Cue: "Charge", Knockback: 4,
				},
				melee("thrust"),
			},
		},
		{
			Name: "archer", Vision: 9, MaxHP: 70, Radius: 0.45, Mass: 0.8, Drag: 5, Speed: 2, Power: 1.5,
			Attacks: []AttackTemplate{{
				Kind: AttackRanged, Name: "arrow", Basic: true, Damage: 8, Duration: 1.2, Delay: 0.5,
				Range: 6, Cue: "Shoot", Projectile: &shot,
			}},
		},
		{
			Name: "shaman", Vision: 8, MaxHP: 90, Radius: 0.5, Mass: 1, Drag: 5, Speed: 1.8, Power: 2.5,
			Attacks: []AttackTemplate{
				{
					Kind: AttackPull, Name: "vortex", Damage: 4, Cooldown: 8, Duration: 3, Delay: 0.5,
					Range: 3, Cue: "Channel",
				},
				melee("staff"),
			},
			Aura: &combat.AuraParams{Radius: 2, Amount: 4, Interval: 1, Delay: 0.25, Cue: "Heal"},
		},
		{
			Name: "wisp", Traversal: "air", Vision: 10, MaxHP: 50, Radius: 0.35, Mass: 0.5, Drag: 4, Speed: 3, Power: 1,
			Attacks: []AttackTemplate{{
				Kind: AttackRanged, Name: "bolt", Basic: true, Damage: 6, Duration: 1, Delay: 0.3,
				Range: 5, Cue: "Shoot", Projectile: &splash,
			}},
		},
		{
			Name: "tower", Static: true, Vision: 10, MaxHP: 500, Radius: 1, Mass: 50, Drag: 10, Power: 0,
			Attacks: []AttackTemplate{{
				Kind: AttackRanged, Name: "ballista", Basic: true, Damage: 20, Duration: 2, Delay: 0.4,
				Range: 9, Cue: "Shoot", Projectile: &splash,
			}},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("built-in templates: %v", err))
	}
	return t
}
