package config

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/nav"
)

// Rect is an axis-aligned rectangle in world units.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// Bound converts r to an orb.Bound.
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.MinX, r.MinY}, Max: orb.Point{r.MaxX, r.MaxY}}
}

// Point is a world position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() model.Vec2 { return model.V(p.X, p.Y) }

// WallSpec is an obstacle rectangle. Layer is "low" or "high".
type WallSpec struct {
	Rect  `yaml:",inline"`
	Layer string `yaml:"layer"`
}

// ObjectiveSpec is a navigation target inside a zone.
type ObjectiveSpec struct {
	Point    `yaml:",inline"`
	Priority int `yaml:"priority"`
}

// ZoneSpec is a navigation zone for one faction and traversal class.
type ZoneSpec struct {
	Name       string          `yaml:"name"`
	Faction    string          `yaml:"faction"`
	Traversal  string          `yaml:"traversal"`
	Bounds     Rect            `yaml:"bounds"`
	Objectives []ObjectiveSpec `yaml:"objectives"`
}

// WellSpec is a capture point owned by Faction.
type WellSpec struct {
	Point   `yaml:",inline"`
	Faction string  `yaml:"faction"`
	Radius  float64 `yaml:"radius"`
}

// SquadSpec spawns Count agents around a point at start.
type SquadSpec struct {
	Point    `yaml:",inline"`
	Template string `yaml:"template"`
	Faction  string `yaml:"faction"`
	Count    int    `yaml:"count"`
}

// WaveSpec is a wave candidate for the director.
type WaveSpec struct {
	Template string  `yaml:"template"`
	Faction  string  `yaml:"faction"`
	Count    int     `yaml:"count"`
	Power    float64 `yaml:"power"` // 0 means Count times the template power
	After    float64 `yaml:"after"` // seconds before the wave becomes eligible
}

// SpellSpec is a scripted spell cast.
type SpellSpec struct {
	Point    `yaml:",inline"`
	At       float64 `yaml:"at"`
	Kind     string  `yaml:"kind"`
	Faction  string  `yaml:"faction"`
	Radius   float64 `yaml:"radius"`
	Amount   float64 `yaml:"amount"`
	Delay    float64 `yaml:"delay"`
	Duration float64 `yaml:"duration"`
	Cue      string  `yaml:"cue"`
}

// Params converts the entry into spell tuning and the caster faction.
func (s SpellSpec) Params() (combat.SpellParams, model.Faction, error) {
	kind, err := combat.ParseSpellKind(s.Kind)
	if err != nil {
		return combat.SpellParams{}, 0, err
	}
	if kind == combat.SpellSlow && (s.Amount <= 0 || s.Amount >= 1) {
		return combat.SpellParams{}, 0, fmt.Errorf("slow amount %v must be in (0, 1)", s.Amount)
	}
	f, err := ParseFaction(s.Faction)
	if err != nil {
		return combat.SpellParams{}, 0, err
	}
	return combat.SpellParams{
		Kind:     kind,
		Radius:   s.Radius,
		Amount:   s.Amount,
		Delay:    s.Delay,
		Duration: s.Duration,
		Cue:      s.Cue,
	}, f, nil
}

// TileSpec lays out a tile grid row by row from Origin: '#' is a high
// obstacle, '=' a low one, anything else open.
type TileSpec struct {
	Origin Point    `yaml:"origin"`
	Size   float64  `yaml:"size"`
	Rows   []string `yaml:"rows"`
}

// Build converts the rows into a tile map.
func (t TileSpec) Build() (*geo.TileMap, error) {
	width := 0
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	m, err := geo.NewTileMap(t.Origin.Vec(), t.Size, width, len(t.Rows))
	if err != nil {
		return nil, fmt.Errorf("tiles: %w", err)
	}
	for y, row := range t.Rows {
		for x, ch := range []byte(row) {
			switch ch {
			case '#':
				m.Set(x, y, geo.LayerHigh)
			case '=':
				m.Set(x, y, geo.LayerLow)
			}
		}
	}
	return m, nil
}

// Scenario is a playable map: geometry, navigation, wells and spawns.
type Scenario struct {
	Name       string      `yaml:"name"`
	Bounds     Rect        `yaml:"bounds"`
	Viewport   *Rect       `yaml:"viewport"`
	Walls      []WallSpec  `yaml:"walls"`
	Tiles      *TileSpec   `yaml:"tiles"`
	Zones      []ZoneSpec  `yaml:"zones"`
	Wells      []WellSpec  `yaml:"wells"`
	Squads     []SquadSpec `yaml:"squads"`
	Waves      []WaveSpec  `yaml:"waves"`
	SpawnAreas []Rect      `yaml:"spawn_areas"`
	Spells     []SpellSpec `yaml:"spells"`
}

// LoadScenario loads a scenario from a YAML file.
// If the file doesn't exist, returns DefaultScenario.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultScenario(), nil
		}
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return s, nil
}

// Occluder builds the wall set.
func (s Scenario) Occluder() (*geo.Walls, error) {
	walls := geo.NewWalls()
	for i, w := range s.Walls {
		layer, ok := geo.ParseLayer(w.Layer)
		if !ok {
			return nil, fmt.Errorf("wall %d: unknown layer %q", i, w.Layer)
		}
		walls.Add(geo.Wall{Bound: w.Rect.Bound(), Layer: layer})
	}
	return walls, nil
}

// Terrain combines walls and the optional tile grid into one occluder.
func (s Scenario) Terrain() (geo.Occluder, error) {
	walls, err := s.Occluder()
	if err != nil {
		return nil, err
	}
	if s.Tiles == nil {
		return walls, nil
	}
	tiles, err := s.Tiles.Build()
	if err != nil {
		return nil, err
	}
	return geo.Multi{walls, tiles}, nil
}

// NavZones converts zone specs in declared order.
func (s Scenario) NavZones() ([]nav.Zone, error) {
	zones := make([]nav.Zone, 0, len(s.Zones))
	for _, z := range s.Zones {
		f, err := ParseFaction(z.Faction)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", z.Name, err)
		}
		t, ok := model.ParseTraversal(z.Traversal)
		if !ok {
			return nil, fmt.Errorf("zone %q: unknown traversal %q", z.Name, z.Traversal)
		}
		objs := make([]nav.Objective, len(z.Objectives))
		for i, o := range z.Objectives {
			objs[i] = nav.Objective{Position: o.Vec(), Priority: o.Priority}
		}
		zones = append(zones, nav.Zone{
			Name:       z.Name,
			Faction:    f,
			Traversal:  t,
			Bounds:     z.Bounds.Bound(),
			Objectives: objs,
		})
	}
	return zones, nil
}

// ParseFaction parses a faction name, reporting unknown names as errors.
func ParseFaction(s string) (model.Faction, error) {
	f, ok := model.ParseFaction(s)
	if !ok {
		return 0, fmt.Errorf("unknown faction %q", s)
	}
	return f, nil
}

// DefaultScenario is a 40x20 lane: friends hold the left, enemies arrive
// from the right, a low fence splits the middle.
func DefaultScenario() Scenario {
	full := Rect{MinX: 0, MinY: 0, MaxX: 40, MaxY: 20}
	zone := func(name, faction, traversal string, x float64) ZoneSpec {
		return ZoneSpec{
			Name: name, Faction: faction, Traversal: traversal, Bounds: full,
			Objectives: []ObjectiveSpec{
				{Point: Point{X: x, Y: 10}, Priority: 2},
				{Point: Point{X: 20, Y: 3}, Priority: 1},
				{Point: Point{X: 20, Y: 17}, Priority: 1},
			},
		}
	}
	return Scenario{
		Name:   "lane",
		Bounds: full,
		Walls: []WallSpec{
			{Rect: Rect{MinX: 19.5, MinY: 6, MaxX: 20.5, MaxY: 14}, Layer: "low"},
			{Rect: Rect{MinX: 10, MinY: 0, MaxX: 11, MaxY: 2}, Layer: "high"},
			{Rect: Rect{MinX: 29, MinY: 18, MaxX: 30, MaxY: 20}, Layer: "high"},
		},
		Zones: []ZoneSpec{
			zone("friend-ground", "friend", "ground", 38),
			zone("friend-air", "friend", "air", 38),
			zone("enemy-ground", "enemy", "ground", 2),
			zone("enemy-air", "enemy", "air", 2),
		},
		Wells: []WellSpec{
			{Point: Point{X: 1, Y: 10}, Faction: "friend", Radius: 1},
			{Point: Point{X: 39, Y: 10}, Faction: "enemy", Radius: 1},
		},
		Squads: []SquadSpec{
			{Point: Point{X: 6, Y: 10}, Template: "swordsman", Faction: "friend", Count: 6},
			{Point: Point{X: 4, Y: 10}, Template: "archer", Faction: "friend", Count: 4},
			{Point: Point{X: 3, Y: 6}, Template: "shaman", Faction: "friend", Count: 1},
			{Point: Point{X: 8, Y: 14}, Template: "tower", Faction: "friend", Count: 1},
		},
		Waves: []WaveSpec{
			{Template: "swordsman", Faction: "enemy", Count: 4},
			{Template: "swordsman", Faction: "enemy", Count: 8, After: 60},
			{Template: "archer", Faction: "enemy", Count: 3, After: 10},
			{Template: "brute", Faction: "enemy", Count: 1, After: 20},
			{Template: "lancer", Faction: "enemy", Count: 2, After: 30},
			{Template: "wisp", Faction: "enemy", Count: 5, After: 45},
		},
		SpawnAreas: []Rect{
			{MinX: 34, MinY: 2, MaxX: 38, MaxY: 6},
			{MinX: 34, MinY: 14, MaxX: 38, MaxY: 18},
		},
		Spells: []SpellSpec{
			{Point: Point{X: 30, Y: 10}, At: 15, Kind: "damage", Faction: "friend", Radius: 2, Amount: 50, Delay: 0.5, Duration: 2, Cue: "Volley"},
			{Point: Point{X: 24, Y: 10}, At: 20, Kind: "slow", Faction: "friend", Radius: 3, Amount: 0.4, Delay: 0.5, Duration: 4, Cue: "Frost"},
			{Point: Point{X: 8, Y: 10}, At: 25, Kind: "heal", Faction: "friend", Radius: 3, Amount: 50, Delay: 0.5, Duration: 2, Cue: "MassHeal"},
		},
	}
}
