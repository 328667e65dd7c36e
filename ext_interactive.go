package main

const MaxInteractRadius = 20.0

// Interactive lets players act on an entity from within a short radius
type Interactive struct {
	owner       *Entity
	displayName string
	radius      float64
	onInteract  func(by *Entity)
}

func NewInteractive(owner *Entity, displayName string, onInteract func(by *Entity)) *Interactive {
	return &Interactive{owner: owner, displayName: displayName, radius: MaxInteractRadius, onInteract: onInteract}
}

func (i *Interactive) Type() ExtensionType { return ExtInteractive }

func (i *Interactive) DisplayName() string { return i.displayName }

func (i *Interactive) Radius() float64 { return i.radius }

// InRange reports whether by is close enough to interact
func (i *Interactive) InRange(by *Entity) bool {
	return i.owner.Center().DistanceTo(by.Center()) <= i.radius
}

// Interact runs the callback if by is in range and returns whether it ran
func (i *Interactive) Interact(by *Entity) bool {
	if i.onInteract == nil || i.owner.MarkedForRemoval() || !i.InRange(by) {
		return false
	}
	i.onInteract(by)
	return true
}

func (i *Interactive) Serialize(dto *EntityDTO) { dto.DisplayName = i.displayName }

// Carryable turns a world entity back into an inventory item when picked up
type Carryable struct {
	owner    *Entity
	em       *EntityManager
	itemType ItemType
	state    func() *ItemState
}

// NewCarryable creates a carryable. state may be nil for items without per-instance state.
func NewCarryable(owner *Entity, em *EntityManager, itemType ItemType, state func() *ItemState) *Carryable {
	return &Carryable{owner: owner, em: em, itemType: itemType, state: state}
}

func (c *Carryable) Type() ExtensionType { return ExtCarryable }

func (c *Carryable) ItemType() ItemType { return c.itemType }

// Item snapshots the entity as an inventory item
func (c *Carryable) Item() InventoryItem {
	item := InventoryItem{Key: c.itemType}
	if c.state != nil {
		item.State = c.state()
	}
	return item
}

// Pickup moves the entity into by's inventory and removes it from the world.
// It fails when by has no inventory, the inventory is full, or the entity is already gone.
func (c *Carryable) Pickup(by *Entity) bool {
	if c.owner.MarkedForRemoval() || !by.HasExt(ExtInventory) {
		return false
	}
	if !by.Inventory().AddItem(c.Item()) {
		return false
	}
	c.em.MarkEntityForRemoval(c.owner)
	return true
}

func (c *Carryable) Serialize(dto *EntityDTO) {
	if c.itemType.IsWeapon() {
		dto.WeaponType = c.itemType
	}
}
