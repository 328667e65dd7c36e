package main

const SpatialCellSize = 64.0 // four tiles per cell side

// SpatialGrid is a fixed-cell grid for broad-phase queries, sized to the current map.
// Entities are bucketed by the cells their bounding box overlaps.
type SpatialGrid struct {
	cols, rows int
	cells      [][]*Entity
}

// NewSpatialGrid creates a grid covering a w x h world
func NewSpatialGrid(w, h float64) *SpatialGrid {
	cols := int(w/SpatialCellSize) + 1
	rows := int(h/SpatialCellSize) + 1
	return &SpatialGrid{cols: cols, rows: rows, cells: make([][]*Entity, cols*rows)}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		for j := range g.cells[i] {
			g.cells[i][j] = nil
		}
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) cellRange(box Rect) (minCX, minCY, maxCX, maxCY int) {
	minCX = clampCell(int(box.X/SpatialCellSize), g.cols)
	maxCX = clampCell(int((box.X+box.W)/SpatialCellSize), g.cols)
	minCY = clampCell(int(box.Y/SpatialCellSize), g.rows)
	maxCY = clampCell(int((box.Y+box.H)/SpatialCellSize), g.rows)
	return
}

func clampCell(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// Insert adds an entity to every cell its box overlaps
func (g *SpatialGrid) Insert(box Rect, e *Entity) {
	minCX, minCY, maxCX, maxCY := g.cellRange(box)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], e)
		}
	}
}

// Query returns every entity in cells overlapping box, widened by one cell so
// that entities which moved since the last rebuild are still found. Results
// may contain duplicates and must be narrowed by the caller.
func (g *SpatialGrid) Query(box Rect) []*Entity {
	return g.QueryBuf(box, nil)
}

// QueryBuf appends results to buf and returns the extended slice, avoiding per-call allocation
func (g *SpatialGrid) QueryBuf(box Rect, buf []*Entity) []*Entity {
	box = Rect{X: box.X - SpatialCellSize, Y: box.Y - SpatialCellSize, W: box.W + 2*SpatialCellSize, H: box.H + 2*SpatialCellSize}
	minCX, minCY, maxCX, maxCY := g.cellRange(box)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
