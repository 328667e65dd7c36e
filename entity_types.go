package main

// EntityType is the closed set of world entity kinds, used as the wire discriminator
type EntityType string

const (
	EntityPlayer         EntityType = "player"
	EntityZombie         EntityType = "zombie"
	EntityFastZombie     EntityType = "fast_zombie"
	EntityBigZombie      EntityType = "big_zombie"
	EntityBatZombie      EntityType = "bat_zombie"
	EntitySpitterZombie  EntityType = "spitter_zombie"
	EntityTree           EntityType = "tree"
	EntityBullet         EntityType = "bullet"
	EntityAcidProjectile EntityType = "acid_projectile"
	EntityWall           EntityType = "wall"
	EntityBoundary       EntityType = "boundary"
	EntityWeapon         EntityType = "weapon"
	EntityBandage        EntityType = "bandage"
	EntityCloth          EntityType = "cloth"
	EntityWood           EntityType = "wood"
	EntityGasoline       EntityType = "gasoline"
	EntitySpikes         EntityType = "spikes"
	EntityLandmine       EntityType = "landmine"
	EntityFire           EntityType = "fire"
	EntityTorch          EntityType = "torch"
)

// IsEnemy reports whether the type is one of the zombie archetypes
func (t EntityType) IsEnemy() bool {
	_, ok := archetypes[t]
	return ok
}

// ItemType is the closed set of things an inventory slot can hold
type ItemType string

const (
	ItemKnife    ItemType = "Knife"
	ItemShotgun  ItemType = "Shotgun"
	ItemPistol   ItemType = "Pistol"
	ItemWood     ItemType = "Wood"
	ItemWall     ItemType = "Wall"
	ItemBandage  ItemType = "Bandage"
	ItemCloth    ItemType = "Cloth"
	ItemTorch    ItemType = "Torch"
	ItemGasoline ItemType = "Gasoline"
	ItemSpikes   ItemType = "Spikes"
	ItemLandmine ItemType = "Landmine"
)

// IsWeapon reports whether the item can be fired or swung
func (t ItemType) IsWeapon() bool {
	return t == ItemKnife || t == ItemShotgun || t == ItemPistol
}

// lootTable is what zombies may carry and drop on death
var lootTable = []ItemType{ItemCloth, ItemBandage, ItemWood, ItemGasoline}

// itemFactory materializes an inventory item as a world entity
type itemFactory func(em *EntityManager, item InventoryItem) *Entity

var itemFactories = map[ItemType]itemFactory{}

// registerItemFactory installs the constructor for an item type. Called from init.
func registerItemFactory(t ItemType, f itemFactory) {
	if _, dup := itemFactories[t]; dup {
		panic("duplicate item factory for " + string(t))
	}
	itemFactories[t] = f
}

func init() {
	for _, t := range []ItemType{ItemKnife, ItemShotgun, ItemPistol} {
		weapon := t
		registerItemFactory(weapon, func(em *EntityManager, _ InventoryItem) *Entity {
			return NewWeapon(em, weapon, Vector2{})
		})
	}
	registerItemFactory(ItemWood, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewGroundItem(em, EntityWood, ItemWood, Vector2{})
	})
	registerItemFactory(ItemBandage, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewGroundItem(em, EntityBandage, ItemBandage, Vector2{})
	})
	registerItemFactory(ItemCloth, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewGroundItem(em, EntityCloth, ItemCloth, Vector2{})
	})
	registerItemFactory(ItemGasoline, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewGroundItem(em, EntityGasoline, ItemGasoline, Vector2{})
	})
	registerItemFactory(ItemWall, func(em *EntityManager, item InventoryItem) *Entity {
		health := WallMaxHealth
		if item.State != nil && item.State.Health != nil {
			health = *item.State.Health
		}
		return NewWall(em, Vector2{}, health)
	})
	registerItemFactory(ItemSpikes, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewSpikes(em, Vector2{})
	})
	registerItemFactory(ItemLandmine, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewLandmine(em, Vector2{})
	})
	registerItemFactory(ItemTorch, func(em *EntityManager, _ InventoryItem) *Entity {
		return NewTorch(em, Vector2{})
	})
}
