package main

const SpatialCellSize = 100.0

// Entity kinds stored in the grid
const (
	KindPlayer     = 'p'
	KindEnemy      = 'e'
	KindProjectile = 'r'
)

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte // 'p'=player, 'e'=enemy, 'r'=projectile
	Idx  int  // index into the corresponding per-tick flat list
}

type cellKey struct {
	CX, CY int
}

// SpatialGrid buckets entities into fixed-size cells for broad-phase
// neighbor queries. Fully rebuilt every tick; map-backed because arena
// occupancy is sparse around walls.
type SpatialGrid struct {
	cells map[cellKey][]EntityRef
}

// NewSpatialGrid creates an empty grid
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{cells: make(map[cellKey][]EntityRef)}
}

func keyFor(x, y float64) cellKey {
	cx := int(x / SpatialCellSize)
	cy := int(y / SpatialCellSize)
	if x < 0 {
		cx--
	}
	if y < 0 {
		cy--
	}
	return cellKey{cx, cy}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
}

// Insert adds an entity reference at the given position
func (g *SpatialGrid) Insert(x, y float64, ref EntityRef) {
	k := keyFor(x, y)
	g.cells[k] = append(g.cells[k], ref)
}

// Query returns all entity refs in cells overlapping the square
// [x-radius, x+radius] × [y-radius, y+radius]. This is a conservative
// superset of the true circle; callers do the exact distance check.
func (g *SpatialGrid) Query(x, y, radius float64) []EntityRef {
	return g.QueryBuf(x, y, radius, nil)
}

// QueryBuf appends results to buf and returns the extended slice,
// avoiding per-call allocation in the hot path
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	min := keyFor(x-radius, y-radius)
	max := keyFor(x+radius, y+radius)
	for cy := min.CY; cy <= max.CY; cy++ {
		for cx := min.CX; cx <= max.CX; cx++ {
			if refs, ok := g.cells[cellKey{cx, cy}]; ok {
				buf = append(buf, refs...)
			}
		}
	}
	return buf
}
