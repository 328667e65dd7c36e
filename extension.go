package main

// ExtensionType is the capability tag an extension is looked up by
type ExtensionType string

const (
	ExtPositionable ExtensionType = "positionable"
	ExtMovable      ExtensionType = "movable"
	ExtCollidable   ExtensionType = "collidable"
	ExtDestructible ExtensionType = "destructible"
	ExtInteractive  ExtensionType = "interactive"
	ExtInventory    ExtensionType = "inventory"
	ExtCarryable    ExtensionType = "carryable"
	ExtGroupable    ExtensionType = "groupable"
	ExtUpdatable    ExtensionType = "updatable"
	ExtTriggerable  ExtensionType = "triggerable"
	ExtExpirable    ExtensionType = "expirable"
	ExtIlluminated  ExtensionType = "illuminated"
)

// Extension is a capability attached to an entity at construction.
// Serialize writes the capability's share of the wire state into dto.
type Extension interface {
	Type() ExtensionType
	Serialize(dto *EntityDTO)
}

// Updater is the per-tick behaviour of an entity, registered under ExtUpdatable
type Updater interface {
	Extension
	Update(dt float64)
}

// UpdateFunc adapts a plain function into an Updater
type UpdateFunc func(dt float64)

func (f UpdateFunc) Type() ExtensionType { return ExtUpdatable }

func (f UpdateFunc) Serialize(*EntityDTO) {}

func (f UpdateFunc) Update(dt float64) { f(dt) }
