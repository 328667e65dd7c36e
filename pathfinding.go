package main

import (
	"container/heap"
	"math"
)

const (
	maxPathExpansions = 4096 // nodes popped before a search gives up
)

type navStep struct {
	col, row int
	cost     float64
	diagonal bool
}

var navSteps = [...]navStep{
	{col: 0, row: -1, cost: 1},
	{col: 1, row: 0, cost: 1},
	{col: 0, row: 1, cost: 1},
	{col: -1, row: 0, cost: 1},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

// NavGrid is the walkability grid derived from the tile map, one cell per tile
type NavGrid struct {
	cols, rows int
	cellSize   float64
	walkable   []bool
}

// NewNavGrid builds a nav grid from a tile map. Forest and water tiles are blocked.
func NewNavGrid(tiles [][]int, cellSize float64) *NavGrid {
	rows := len(tiles)
	cols := 0
	if rows > 0 {
		cols = len(tiles[0])
	}
	g := &NavGrid{cols: cols, rows: rows, cellSize: cellSize, walkable: make([]bool, cols*rows)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols && c < len(tiles[r]); c++ {
			g.walkable[r*cols+c] = isWalkableTile(tiles[r][c])
		}
	}
	return g
}

func (g *NavGrid) inBounds(col, row int) bool {
	return g != nil && col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

func (g *NavGrid) index(col, row int) int { return row*g.cols + col }

// Walkable reports whether the given cell can be entered
func (g *NavGrid) Walkable(col, row int) bool {
	return g.inBounds(col, row) && g.walkable[g.index(col, row)]
}

func (g *NavGrid) locate(p Vector2) (int, int, bool) {
	if g == nil || g.cols == 0 || g.rows == 0 {
		return 0, 0, false
	}
	col := int(math.Floor(p.X / g.cellSize))
	row := int(math.Floor(p.Y / g.cellSize))
	if !g.inBounds(col, row) {
		return 0, 0, false
	}
	return col, row, true
}

func (g *NavGrid) cellCenter(col, row int) Vector2 {
	return Vector2{(float64(col) + 0.5) * g.cellSize, (float64(row) + 0.5) * g.cellSize}
}

// canCut rejects diagonal steps that would clip a blocked corner
func (g *NavGrid) canCut(from navPoint, step navStep) bool {
	if !step.diagonal {
		return true
	}
	return g.Walkable(from.col+step.col, from.row) && g.Walkable(from.col, from.row+step.row)
}

type navPoint struct {
	col, row int
}

func octile(a, b navPoint) float64 {
	dx := math.Abs(float64(a.col - b.col))
	dy := math.Abs(float64(a.row - b.row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type pathNode struct {
	point  navPoint
	g, f   float64
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath runs A* between two cells and returns the visited cells from start to goal inclusive
func (g *NavGrid) FindPath(start, goal navPoint) ([]navPoint, bool) {
	if !g.Walkable(goal.col, goal.row) {
		return nil, false
	}
	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{point: start, f: octile(start, goal)})
	gScore := map[int]float64{g.index(start.col, start.row): 0}
	closed := make(map[int]struct{})

	for expanded := 0; open.Len() > 0 && expanded < maxPathExpansions; expanded++ {
		current := heap.Pop(open).(*pathNode)
		idx := g.index(current.point.col, current.point.row)
		if _, seen := closed[idx]; seen {
			continue
		}
		closed[idx] = struct{}{}
		if current.point == goal {
			return reconstructPath(current), true
		}
		for _, step := range navSteps {
			next := navPoint{current.point.col + step.col, current.point.row + step.row}
			if !g.Walkable(next.col, next.row) || !g.canCut(current.point, step) {
				continue
			}
			nIdx := g.index(next.col, next.row)
			if _, seen := closed[nIdx]; seen {
				continue
			}
			tentative := current.g + step.cost
			if prev, ok := gScore[nIdx]; ok && tentative >= prev {
				continue
			}
			gScore[nIdx] = tentative
			heap.Push(open, &pathNode{point: next, g: tentative, f: tentative + octile(next, goal), parent: current})
		}
	}
	return nil, false
}

func reconstructPath(end *pathNode) []navPoint {
	var path []navPoint
	for n := end; n != nil; n = n.parent {
		path = append(path, n.point)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// pathTowards returns the next waypoint on the way from one world point to another.
// When both points share a cell the target itself is the waypoint.
func pathTowards(g *NavGrid, from, to Vector2) (Vector2, bool) {
	sc, sr, ok := g.locate(from)
	if !ok {
		return Vector2{}, false
	}
	gc, gr, ok := g.locate(to)
	if !ok {
		return Vector2{}, false
	}
	start, goal := navPoint{sc, sr}, navPoint{gc, gr}
	if start == goal {
		return to, true
	}
	path, ok := g.FindPath(start, goal)
	if !ok || len(path) < 2 {
		return Vector2{}, false
	}
	if len(path) == 2 {
		return to, true
	}
	next := path[1]
	return g.cellCenter(next.col, next.row), true
}

// velocityTowards returns a velocity of the given speed pointing from one point to another
func velocityTowards(from, to Vector2, speed float64) Vector2 {
	return to.Sub(from).Normalize().Scale(speed)
}
