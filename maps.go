package main

// Wall is a static axis-aligned rectangle. Immutable for a room's lifetime.
type Wall struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	W float64 `json:"w" msgpack:"w"`
	H float64 `json:"h" msgpack:"h"`
}

// MapDef describes one arena layout
type MapDef struct {
	Name   string
	Width  float64
	Height float64
	SpawnX float64
	SpawnY float64
	Walls  []Wall
}

const (
	ArenaWidth  = 800.0
	ArenaHeight = 600.0
)

// MapCatalog holds every playable arena. The creating join picks the
// layout; map rotation/voting lives outside the simulation.
var MapCatalog = map[string]*MapDef{
	"arena": {
		Name:   "arena",
		Width:  ArenaWidth,
		Height: ArenaHeight,
		SpawnX: ArenaWidth / 2,
		SpawnY: ArenaHeight / 2,
		Walls:  nil,
	},
	"pillars": {
		Name:   "pillars",
		Width:  ArenaWidth,
		Height: ArenaHeight,
		SpawnX: ArenaWidth / 2,
		SpawnY: ArenaHeight / 2,
		Walls: []Wall{
			{X: 180, Y: 140, W: 60, H: 60},
			{X: 560, Y: 140, W: 60, H: 60},
			{X: 180, Y: 400, W: 60, H: 60},
			{X: 560, Y: 400, W: 60, H: 60},
		},
	},
	"corridors": {
		Name:   "corridors",
		Width:  ArenaWidth,
		Height: ArenaHeight,
		SpawnX: 120,
		SpawnY: ArenaHeight / 2,
		Walls: []Wall{
			{X: 250, Y: 0, W: 40, H: 220},
			{X: 250, Y: 380, W: 40, H: 220},
			{X: 510, Y: 120, W: 40, H: 360},
		},
	},
}

const DefaultMap = "arena"

// GetMap returns a map definition, falling back to the default layout
func GetMap(name string) *MapDef {
	if m, ok := MapCatalog[name]; ok {
		return m
	}
	return MapCatalog[DefaultMap]
}
