package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// ShadowEntity is a client-side mirror of a server entity, rebuilt from snapshots
type ShadowEntity interface {
	ID() string
	Type() EntityType
	Position() Vector2
	Apply(dto EntityDTO)
}

// velocitySetter is implemented by mirrors of movable entities
type velocitySetter interface {
	SetVelocity(v Vector2)
}

type shadowBase struct {
	id       string
	typ      EntityType
	position Vector2
}

func (b *shadowBase) ID() string        { return b.id }
func (b *shadowBase) Type() EntityType  { return b.typ }
func (b *shadowBase) Position() Vector2 { return b.position }
func (b *shadowBase) Apply(dto EntityDTO) {
	b.position = dto.Position
}

type shadowMover struct {
	shadowBase
	velocity Vector2
}

func (m *shadowMover) SetVelocity(v Vector2) { m.velocity = v }

func (m *shadowMover) Velocity() Vector2 { return m.velocity }

type ShadowPlayer struct {
	shadowMover
	Health     int
	MaxHealth  int
	Inventory  []InventoryItem
	ActiveItem int
	IsCrafting bool
}

func (p *ShadowPlayer) Apply(dto EntityDTO) {
	p.shadowBase.Apply(dto)
	if dto.Health != nil {
		p.Health = *dto.Health
	}
	if dto.MaxHealth != nil {
		p.MaxHealth = *dto.MaxHealth
	}
	p.Inventory = dto.Inventory
	p.ActiveItem = dto.ActiveItem
	p.IsCrafting = dto.IsCrafting
}

type ShadowEnemy struct {
	shadowMover
	Health int
	State  string
}

func (z *ShadowEnemy) Apply(dto EntityDTO) {
	z.shadowBase.Apply(dto)
	if dto.Health != nil {
		z.Health = *dto.Health
	}
	z.State = dto.State
}

// ShadowProjectile mirrors bullets and acid
type ShadowProjectile struct {
	shadowMover
}

// ShadowProp mirrors everything that does not move on its own: trees, walls,
// ground items, traps.
type ShadowProp struct {
	shadowBase
	Health      int
	WeaponType  ItemType
	LightRadius float64
}

func (s *ShadowProp) Apply(dto EntityDTO) {
	s.shadowBase.Apply(dto)
	if dto.Health != nil {
		s.Health = *dto.Health
	}
	s.WeaponType = dto.WeaponType
	s.LightRadius = dto.LightRadius
}

type shadowFactory func(dto EntityDTO) ShadowEntity

func newShadowPlayer(dto EntityDTO) ShadowEntity {
	return &ShadowPlayer{shadowMover: shadowMover{shadowBase: shadowBase{id: dto.ID, typ: dto.Type}}}
}

func newShadowEnemy(dto EntityDTO) ShadowEntity {
	return &ShadowEnemy{shadowMover: shadowMover{shadowBase: shadowBase{id: dto.ID, typ: dto.Type}}}
}

func newShadowProjectile(dto EntityDTO) ShadowEntity {
	return &ShadowProjectile{shadowMover: shadowMover{shadowBase: shadowBase{id: dto.ID, typ: dto.Type}}}
}

func newShadowProp(dto EntityDTO) ShadowEntity {
	return &ShadowProp{shadowBase: shadowBase{id: dto.ID, typ: dto.Type}}
}

// unmirrored entity types are known to the client but never rendered
var unmirrored = map[EntityType]bool{
	EntityBoundary: true,
}

// shadowFactories maps entity types to mirror constructors
var shadowFactories = map[EntityType]shadowFactory{
	EntityPlayer:         newShadowPlayer,
	EntityZombie:         newShadowEnemy,
	EntityFastZombie:     newShadowEnemy,
	EntityBigZombie:      newShadowEnemy,
	EntityBatZombie:      newShadowEnemy,
	EntitySpitterZombie:  newShadowEnemy,
	EntityBullet:         newShadowProjectile,
	EntityAcidProjectile: newShadowProjectile,
	EntityTree:           newShadowProp,
	EntityWall:           newShadowProp,
	EntityWeapon:         newShadowProp,
	EntityBandage:        newShadowProp,
	EntityCloth:          newShadowProp,
	EntityWood:           newShadowProp,
	EntityGasoline:       newShadowProp,
	EntitySpikes:         newShadowProp,
	EntityLandmine:       newShadowProp,
	EntityFire:           newShadowProp,
	EntityTorch:          newShadowProp,
}

// ShadowWorld is the client's reconciled view of the server world
type ShadowWorld struct {
	mu       sync.RWMutex
	entities map[string]ShadowEntity
	selfID   string
	tiles    [][]int
	state    GameStateDTO
	unknown  map[EntityType]bool
}

func NewShadowWorld() *ShadowWorld {
	return &ShadowWorld{
		entities: make(map[string]ShadowEntity),
		unknown:  make(map[EntityType]bool),
	}
}

// HandleEnvelope applies one server event. Events the mirror does not track are ignored.
func (w *ShadowWorld) HandleEnvelope(t string, d json.RawMessage) error {
	switch t {
	case MsgYourID:
		var id string
		if err := json.Unmarshal(d, &id); err != nil {
			return fmt.Errorf("decode %s: %w", t, err)
		}
		w.mu.Lock()
		w.selfID = id
		w.mu.Unlock()
	case MsgMap:
		var tiles [][]int
		if err := json.Unmarshal(d, &tiles); err != nil {
			return fmt.Errorf("decode %s: %w", t, err)
		}
		w.mu.Lock()
		w.tiles = tiles
		w.mu.Unlock()
	case MsgGameState:
		var state GameStateDTO
		if err := json.Unmarshal(d, &state); err != nil {
			return fmt.Errorf("decode %s: %w", t, err)
		}
		w.ApplyState(state)
	}
	return nil
}

// ApplyState reconciles the mirror against a snapshot: entities missing from it are
// dropped, known ones are updated in place and new ids are built from the factory table.
func (w *ShadowWorld) ApplyState(state GameStateDTO) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = state
	w.state.Entities = nil

	seen := make(map[string]bool, len(state.Entities))
	for _, dto := range state.Entities {
		seen[dto.ID] = true
	}
	for id := range w.entities {
		if !seen[id] {
			delete(w.entities, id)
		}
	}

	for _, dto := range state.Entities {
		e, ok := w.entities[dto.ID]
		if !ok {
			if unmirrored[dto.Type] {
				continue
			}
			factory, known := shadowFactories[dto.Type]
			if !known {
				if !w.unknown[dto.Type] {
					w.unknown[dto.Type] = true
					logger.WithField("type", dto.Type).Warn("ignoring unknown entity type")
				}
				continue
			}
			e = factory(dto)
			w.entities[dto.ID] = e
		}
		e.Apply(dto)
		if vs, movable := e.(velocitySetter); movable && dto.Velocity != nil {
			vs.SetVelocity(*dto.Velocity)
		}
	}
}

func (w *ShadowWorld) SelfID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selfID
}

// Self returns a copy of this client's own player mirror
func (w *ShadowWorld) Self() (ShadowPlayer, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.entities[w.selfID].(*ShadowPlayer)
	if !ok {
		return ShadowPlayer{}, false
	}
	return *p, true
}

func (w *ShadowWorld) Get(id string) (ShadowEntity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

func (w *ShadowWorld) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// Entities returns the mirrors sorted by id
func (w *ShadowWorld) Entities() []ShadowEntity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]ShadowEntity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (w *ShadowWorld) Map() [][]int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tiles
}

// Cycle returns the day number and phase of the latest snapshot
func (w *ShadowWorld) Cycle() (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.DayNumber, w.state.IsDay
}

// Nearest returns the position of the closest mirror whose type satisfies match
func (w *ShadowWorld) Nearest(from Vector2, match func(EntityType) bool) (Vector2, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var (
		best  Vector2
		found bool
		bestD float64
	)
	for _, e := range w.entities {
		if !match(e.Type()) {
			continue
		}
		if d := from.DistanceTo(e.Position()); !found || d < bestD {
			best, bestD, found = e.Position(), d, true
		}
	}
	return best, found
}
