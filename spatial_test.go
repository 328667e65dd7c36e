package main

import "testing"

func contains(list []*Entity, e *Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(1280, 1280)
	e := NewEntity(EntityTree, nil)
	grid.Insert(Rect{X: 100, Y: 100, W: 16, H: 16}, e)

	if !contains(grid.Query(Rect{X: 90, Y: 90, W: 40, H: 40}), e) {
		t.Error("expected to find entity at (100,100)")
	}
	if contains(grid.Query(Rect{X: 1200, Y: 1200, W: 40, H: 40}), e) {
		t.Error("should not find entity at (1200,1200)")
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(1280, 1280)
	grid.Insert(Rect{X: 500, Y: 500, W: 16, H: 16}, NewEntity(EntityTree, nil))
	grid.Clear()

	if results := grid.Query(Rect{X: 400, Y: 400, W: 200, H: 200}); len(results) != 0 {
		t.Errorf("expected 0 results after clear, got %d", len(results))
	}
}

func TestSpatialGridSpanningBox(t *testing.T) {
	grid := NewSpatialGrid(1280, 1280)
	big := NewEntity(EntityBigZombie, nil)
	// Straddles the corner of four cells
	grid.Insert(Rect{X: 3*SpatialCellSize - 8, Y: 3*SpatialCellSize - 8, W: 16, H: 16}, big)

	for _, probe := range []Rect{
		{X: 2 * SpatialCellSize, Y: 2 * SpatialCellSize, W: 1, H: 1},
		{X: 3*SpatialCellSize + 1, Y: 3*SpatialCellSize + 1, W: 1, H: 1},
	} {
		if !contains(grid.Query(probe), big) {
			t.Errorf("expected to find the spanning entity from %+v", probe)
		}
	}
}

func TestSpatialGridBoundaryClamp(t *testing.T) {
	grid := NewSpatialGrid(640, 640)

	neg := NewEntity(EntityTree, nil)
	grid.Insert(Rect{X: -10, Y: -10, W: 4, H: 4}, neg)
	if !contains(grid.Query(Rect{X: 0, Y: 0, W: 10, H: 10}), neg) {
		t.Error("expected to find entity inserted at negative coords")
	}

	out := NewEntity(EntityTree, nil)
	grid.Insert(Rect{X: 5000, Y: 5000, W: 4, H: 4}, out)
	if !contains(grid.Query(Rect{X: 630, Y: 630, W: 10, H: 10}), out) {
		t.Error("expected to find entity inserted beyond world edge")
	}
}

func TestSpatialGridQueryBufReuse(t *testing.T) {
	grid := NewSpatialGrid(640, 640)
	e := NewEntity(EntityTree, nil)
	grid.Insert(Rect{X: 10, Y: 10, W: 4, H: 4}, e)

	buf := make([]*Entity, 0, 8)
	buf = grid.QueryBuf(Rect{X: 0, Y: 0, W: 20, H: 20}, buf)
	if !contains(buf, e) {
		t.Error("expected entity in reused buffer")
	}
	buf = grid.QueryBuf(Rect{X: 0, Y: 0, W: 20, H: 20}, buf[:0])
	if len(buf) != 1 {
		t.Errorf("expected 1 result after reuse, got %d", len(buf))
	}
}
