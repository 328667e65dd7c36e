package main

const (
	TileSize      = 16.0
	ItemSize      = 16.0
	WallMaxHealth = 10
)

// pickupInteraction is the Interactive callback shared by everything that can be carried
func pickupInteraction(e *Entity) func(by *Entity) {
	return func(by *Entity) {
		e.Carryable().Pickup(by)
	}
}

// NewGroundItem creates a plain pickup such as wood, cloth or a bandage
func NewGroundItem(em *EntityManager, typ EntityType, item ItemType, pos Vector2) *Entity {
	return NewEntity(typ, func(e *Entity) []Extension {
		return []Extension{
			NewPositionable(e, pos, ItemSize),
			NewInteractive(e, string(item), pickupInteraction(e)),
			NewCarryable(e, em, item, nil),
		}
	})
}

// NewWeapon creates a weapon lying on the ground
func NewWeapon(em *EntityManager, weapon ItemType, pos Vector2) *Entity {
	return NewEntity(EntityWeapon, func(e *Entity) []Extension {
		return []Extension{
			NewPositionable(e, pos, ItemSize),
			NewInteractive(e, string(weapon), pickupInteraction(e)),
			NewCarryable(e, em, weapon, nil),
		}
	})
}

// NewWall creates a placed wall. Picking it up keeps its remaining health.
func NewWall(em *EntityManager, pos Vector2, health int) *Entity {
	return NewEntity(EntityWall, func(e *Entity) []Extension {
		hp := NewDestructible(e, WallMaxHealth).OnDeath(func() { em.MarkEntityForRemoval(e) })
		hp.SetHealth(health)
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewCollidable(e, TileSize),
			NewInteractive(e, "wall", pickupInteraction(e)),
			hp,
			NewCarryable(e, em, ItemWall, func() *ItemState {
				h := hp.Health()
				return &ItemState{Health: &h}
			}),
		}
	})
}

// NewTree creates a harvestable tree. Harvesting yields one wood and removes the tree.
func NewTree(em *EntityManager, pos Vector2) *Entity {
	return NewEntity(EntityTree, func(e *Entity) []Extension {
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewCollidableHitbox(e, Vector2{4, 4}, TileSize/2),
			NewInteractive(e, "tree", func(by *Entity) {
				if !by.HasExt(ExtInventory) {
					return
				}
				if by.Inventory().AddItem(InventoryItem{Key: ItemWood}) {
					em.MarkEntityForRemoval(e)
				}
			}),
		}
	})
}

// NewBoundary creates an impassable forest tile
func NewBoundary(pos Vector2) *Entity {
	return NewEntity(EntityBoundary, func(e *Entity) []Extension {
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewCollidable(e, TileSize),
		}
	})
}
