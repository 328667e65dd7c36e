package main

import (
	"math"
	"math/rand"
)

// EntityManager owns every live entity. Entities added during a tick are
// visible to lookups immediately and first updated on the next tick. Removal
// is two-phase: MarkEntityForRemoval keeps the entity retrievable until Sweep.
type EntityManager struct {
	entities    []*Entity
	byID        map[string]*Entity
	grid        *SpatialGrid
	nav         *NavGrid
	mapWidth    float64
	mapHeight   float64
	broadcaster Broadcaster
	clock       Clock
	rng         *rand.Rand
	queryBuf    []*Entity
}

// NewEntityManager wires the manager to the event sink, clock and random source shared by all entities
func NewEntityManager(b Broadcaster, clock Clock, rng *rand.Rand) *EntityManager {
	return &EntityManager{
		byID:        make(map[string]*Entity),
		grid:        NewSpatialGrid(0, 0),
		broadcaster: b,
		clock:       clock,
		rng:         rng,
	}
}

func (m *EntityManager) Broadcaster() Broadcaster { return m.broadcaster }

func (m *EntityManager) Clock() Clock { return m.clock }

func (m *EntityManager) Rand() *rand.Rand { return m.rng }

// broadcast forwards an event to the shared broadcaster, if any
func (m *EntityManager) broadcast(evt GameEvent) {
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(evt)
	}
}

// SetMapSize sets the world bounds and resizes the broad-phase grid
func (m *EntityManager) SetMapSize(w, h float64) {
	m.mapWidth, m.mapHeight = w, h
	m.grid = NewSpatialGrid(w, h)
	m.rebuildGrid()
}

func (m *EntityManager) MapSize() (float64, float64) { return m.mapWidth, m.mapHeight }

// SetNavGrid installs the walkability grid used by path-following enemies
func (m *EntityManager) SetNavGrid(g *NavGrid) { m.nav = g }

func (m *EntityManager) Nav() *NavGrid { return m.nav }

// AddEntity inserts e into the live set
func (m *EntityManager) AddEntity(e *Entity) {
	if _, dup := m.byID[e.ID()]; dup {
		return
	}
	m.entities = append(m.entities, e)
	m.byID[e.ID()] = e
	m.insertGrid(e)
}

// MarkEntityForRemoval schedules e to leave the world at the next sweep
func (m *EntityManager) MarkEntityForRemoval(e *Entity) {
	if e == nil {
		return
	}
	e.marked = true
}

// Sweep physically removes every marked entity, keeping insertion order for the rest
func (m *EntityManager) Sweep() {
	kept := m.entities[:0]
	for _, e := range m.entities {
		if e.marked {
			delete(m.byID, e.ID())
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(m.entities); i++ {
		m.entities[i] = nil
	}
	m.entities = kept
}

// Clear removes every entity immediately
func (m *EntityManager) Clear() {
	m.entities = nil
	m.byID = make(map[string]*Entity)
	m.grid.Clear()
}

// EntityByID looks up a live or marked entity
func (m *EntityManager) EntityByID(id string) (*Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// Entities returns the entity list in insertion order
func (m *EntityManager) Entities() []*Entity {
	out := make([]*Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

func (m *EntityManager) Count() int { return len(m.entities) }

// CountType returns the number of unmarked entities of a type
func (m *EntityManager) CountType(t EntityType) int {
	n := 0
	for _, e := range m.entities {
		if e.Type() == t && !e.marked {
			n++
		}
	}
	return n
}

// PlayerEntities returns every unmarked player, alive or dead
func (m *EntityManager) PlayerEntities() []*Entity {
	var out []*Entity
	for _, e := range m.entities {
		if e.Type() == EntityPlayer && !e.marked {
			out = append(out, e)
		}
	}
	return out
}

// ClosestAlivePlayer returns the living player nearest to from's center.
// Equidistant players resolve to the lowest id.
func (m *EntityManager) ClosestAlivePlayer(from *Entity) (*Entity, bool) {
	return m.ClosestAlivePlayerTo(from.Center())
}

// ClosestAlivePlayerTo is ClosestAlivePlayer for an arbitrary point
func (m *EntityManager) ClosestAlivePlayerTo(pos Vector2) (*Entity, bool) {
	var best *Entity
	bestDist := math.Inf(1)
	for _, e := range m.entities {
		if e.Type() != EntityPlayer || e.marked || !e.HasExt(ExtDestructible) {
			continue
		}
		if e.Destructible().Health() <= 0 {
			continue
		}
		d := pos.DistanceTo(e.Center())
		if d < bestDist || (d == bestDist && best != nil && e.ID() < best.ID()) {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

// GroupMembers returns the unmarked living entities that share a pack id
func (m *EntityManager) GroupMembers(groupID string) []*Entity {
	var out []*Entity
	for _, e := range m.entities {
		if e.marked || !e.HasExt(ExtGroupable) || !e.IsAlive() {
			continue
		}
		if e.Groupable().GroupID() == groupID {
			out = append(out, e)
		}
	}
	return out
}

// PackTarget returns the living player closest to the centroid of a pack
func (m *EntityManager) PackTarget(groupID string) (*Entity, bool) {
	members := m.GroupMembers(groupID)
	if len(members) == 0 {
		return nil, false
	}
	var sum Vector2
	for _, e := range members {
		sum = sum.Add(e.Center())
	}
	return m.ClosestAlivePlayerTo(sum.Scale(1 / float64(len(members))))
}

// NearbyEntities returns positioned entities whose center lies within radius of pos
func (m *EntityManager) NearbyEntities(pos Vector2, radius float64) []*Entity {
	box := Rect{X: pos.X - radius, Y: pos.Y - radius, W: 2 * radius, H: 2 * radius}
	m.queryBuf = m.grid.QueryBuf(box, m.queryBuf[:0])
	seen := make(map[*Entity]struct{}, len(m.queryBuf))
	var out []*Entity
	for _, e := range m.queryBuf {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		if pos.DistanceTo(e.Center()) <= radius {
			out = append(out, e)
		}
	}
	for i := range m.queryBuf {
		m.queryBuf[i] = nil
	}
	return out
}

// CreateEntityFromItem materializes an inventory item as a world entity at the origin.
// Unsupported item types report false.
func (m *EntityManager) CreateEntityFromItem(item InventoryItem) (*Entity, bool) {
	f, ok := itemFactories[item.Key]
	if !ok {
		return nil, false
	}
	return f(m, item), true
}

func (m *EntityManager) insertGrid(e *Entity) {
	if !e.HasExt(ExtPositionable) {
		return
	}
	p := e.Positionable()
	pos := p.Position()
	m.grid.Insert(Rect{X: pos.X, Y: pos.Y, W: p.Size(), H: p.Size()}, e)
}

func (m *EntityManager) rebuildGrid() {
	m.grid.Clear()
	for _, e := range m.entities {
		m.insertGrid(e)
	}
}

// Update runs one simulation step: every entity that was live and unmarked at the
// start of the tick is updated in insertion order, traps are checked, then marked
// entities are swept.
func (m *EntityManager) Update(dt float64) {
	m.rebuildGrid()
	snapshot := m.Entities()
	for _, e := range snapshot {
		if e.marked {
			continue
		}
		if e.HasExt(ExtExpirable) {
			e.Expirable().Tick(dt)
			if e.marked {
				continue
			}
		}
		if e.HasExt(ExtUpdatable) {
			e.Updater().Update(dt)
		}
	}
	for _, e := range snapshot {
		if !e.marked && e.HasExt(ExtTriggerable) {
			e.Triggerable().Check(m)
		}
	}
	m.Sweep()
}

// staticHit returns the first static collidable other than self that overlaps box
func (m *EntityManager) staticHit(self *Entity, box Rect) *Entity {
	for _, o := range m.grid.Query(box) {
		if o == self || o.marked || !o.HasExt(ExtCollidable) || o.HasExt(ExtMovable) {
			continue
		}
		c := o.Collidable()
		if c.Enabled() && c.Hitbox().Intersects(box) {
			return o
		}
	}
	return nil
}

func (m *EntityManager) blocked(self *Entity, box Rect) bool {
	return m.staticHit(self, box) != nil
}

// MoveWithCollisions integrates e's velocity one axis at a time, cancelling any axis
// whose step would leave the map or overlap a static collidable. Moving entities do
// not block each other.
func (m *EntityManager) MoveWithCollisions(e *Entity, dt float64) {
	p := e.Positionable()
	v := e.Movable().Velocity()
	if v.IsZero() {
		return
	}
	pos := p.Position()
	var col *Collidable
	if e.HasExt(ExtCollidable) && e.Collidable().Enabled() {
		col = e.Collidable()
	}
	try := func(next Vector2) bool {
		if m.mapWidth > 0 && !(Rect{X: next.X, Y: next.Y, W: p.Size(), H: p.Size()}).Within(m.mapWidth, m.mapHeight) {
			return false
		}
		return col == nil || !m.blocked(e, col.HitboxAt(next))
	}
	if next := (Vector2{pos.X + v.X*dt, pos.Y}); try(next) {
		pos = next
	}
	if next := (Vector2{pos.X, pos.Y + v.Y*dt}); try(next) {
		pos = next
	}
	p.SetPosition(pos)
}

// Snapshot serializes every unmarked entity in insertion order
func (m *EntityManager) Snapshot() []EntityDTO {
	out := make([]EntityDTO, 0, len(m.entities))
	for _, e := range m.entities {
		if e.marked {
			continue
		}
		out = append(out, e.Serialize())
	}
	return out
}
