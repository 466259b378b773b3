package main

import "testing"

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid()

	ref := EntityRef{Kind: 'p', Idx: 0}
	grid.Insert(100, 100, ref)

	// Query around (100,100) should find it
	results := grid.Query(100, 100, 50)
	found := false
	for _, r := range results {
		if r.Kind == 'p' && r.Idx == 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected to find entity at (100,100)")
	}

	// Query far away should not find it
	results = grid.Query(700, 500, 50)
	for _, r := range results {
		if r.Kind == 'p' && r.Idx == 0 {
			t.Error("should not find entity at (700,500)")
		}
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid()

	grid.Insert(500, 500, EntityRef{Kind: 'e', Idx: 0})
	grid.Clear()

	results := grid.Query(500, 500, 100)
	if len(results) != 0 {
		t.Errorf("expected 0 results after clear, got %d", len(results))
	}
}

func TestSpatialGridSelfInclusion(t *testing.T) {
	grid := NewSpatialGrid()

	// A query centered on an entity's own position must always include
	// it, including cell boundaries and negative coordinates
	positions := [][2]float64{
		{0, 0}, {100, 100}, {99.99, 100.01}, {-5, -5}, {799, 599}, {400.5, 300.5},
	}
	for i, pos := range positions {
		grid.Insert(pos[0], pos[1], EntityRef{Kind: 'r', Idx: i})
	}
	for i, pos := range positions {
		results := grid.Query(pos[0], pos[1], 0)
		found := false
		for _, r := range results {
			if r.Kind == 'r' && r.Idx == i {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("entity %d at (%v,%v) not found by query at its own position", i, pos[0], pos[1])
		}
	}
}

func TestSpatialGridQueryBufReuse(t *testing.T) {
	grid := NewSpatialGrid()
	grid.Insert(50, 50, EntityRef{Kind: 'e', Idx: 1})

	buf := make([]EntityRef, 0, 8)
	buf = grid.QueryBuf(50, 50, 10, buf)
	if len(buf) != 1 {
		t.Fatalf("expected 1 result, got %d", len(buf))
	}

	// Reusing the buffer must not carry stale entries
	buf = grid.QueryBuf(50, 50, 10, buf[:0])
	if len(buf) != 1 {
		t.Errorf("expected 1 result on reuse, got %d", len(buf))
	}
}
