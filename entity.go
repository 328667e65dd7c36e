package main

import "fmt"

// Entity is a world object defined entirely by the extensions it was built with.
// The extension list never changes after construction.
type Entity struct {
	id     string
	typ    EntityType
	exts   []Extension
	byType map[ExtensionType]Extension
	marked bool
}

// NewEntity creates an entity with a fresh id. build receives the entity so that
// extensions can keep a back-reference to their owner.
func NewEntity(typ EntityType, build func(e *Entity) []Extension) *Entity {
	return NewEntityWithID(GenerateID(), typ, build)
}

// NewEntityWithID creates an entity with a caller-chosen id
func NewEntityWithID(id string, typ EntityType, build func(e *Entity) []Extension) *Entity {
	e := &Entity{id: id, typ: typ, byType: make(map[ExtensionType]Extension)}
	if build == nil {
		return e
	}
	for _, ext := range build(e) {
		if _, dup := e.byType[ext.Type()]; dup {
			panic(fmt.Sprintf("entity %s: duplicate extension %s", typ, ext.Type()))
		}
		e.exts = append(e.exts, ext)
		e.byType[ext.Type()] = ext
	}
	return e
}

func (e *Entity) ID() string { return e.id }

func (e *Entity) Type() EntityType { return e.typ }

// Extensions returns the extensions in construction order
func (e *Entity) Extensions() []Extension {
	out := make([]Extension, len(e.exts))
	copy(out, e.exts)
	return out
}

// HasExt reports whether the entity was built with the given capability
func (e *Entity) HasExt(t ExtensionType) bool {
	_, ok := e.byType[t]
	return ok
}

// Ext returns the extension for a capability. Asking for a capability the
// entity does not have is a programming error and panics.
func (e *Entity) Ext(t ExtensionType) Extension {
	ext, ok := e.byType[t]
	if !ok {
		panic(fmt.Sprintf("entity %s (%s) has no %s extension", e.id, e.typ, t))
	}
	return ext
}

// MarkedForRemoval reports whether the entity leaves the world at the end of the tick
func (e *Entity) MarkedForRemoval() bool { return e.marked }

func (e *Entity) Positionable() *Positionable { return e.Ext(ExtPositionable).(*Positionable) }

func (e *Entity) Movable() *Movable { return e.Ext(ExtMovable).(*Movable) }

func (e *Entity) Collidable() *Collidable { return e.Ext(ExtCollidable).(*Collidable) }

func (e *Entity) Destructible() *Destructible { return e.Ext(ExtDestructible).(*Destructible) }

func (e *Entity) Interactive() *Interactive { return e.Ext(ExtInteractive).(*Interactive) }

func (e *Entity) Inventory() *Inventory { return e.Ext(ExtInventory).(*Inventory) }

func (e *Entity) Carryable() *Carryable { return e.Ext(ExtCarryable).(*Carryable) }

func (e *Entity) Groupable() *Groupable { return e.Ext(ExtGroupable).(*Groupable) }

func (e *Entity) Updater() Updater { return e.Ext(ExtUpdatable).(Updater) }

func (e *Entity) Triggerable() *Triggerable { return e.Ext(ExtTriggerable).(*Triggerable) }

func (e *Entity) Expirable() *Expirable { return e.Ext(ExtExpirable).(*Expirable) }

func (e *Entity) Illuminated() *Illuminated { return e.Ext(ExtIlluminated).(*Illuminated) }

// Center is the entity's center position, or the zero vector if it has no position
func (e *Entity) Center() Vector2 {
	if !e.HasExt(ExtPositionable) {
		return Vector2{}
	}
	return e.Positionable().CenterPosition()
}

// IsAlive is true for entities without health, and for destructibles above zero
func (e *Entity) IsAlive() bool {
	if !e.HasExt(ExtDestructible) {
		return true
	}
	return !e.Destructible().IsDead()
}

// Serialize projects the entity onto its wire DTO
func (e *Entity) Serialize() EntityDTO {
	dto := EntityDTO{ID: e.id, Type: e.typ}
	for _, ext := range e.exts {
		ext.Serialize(&dto)
	}
	return dto
}
