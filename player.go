package main

import "math"

const (
	MaxPlayerHealth  = 10
	PlayerSize       = 16.0
	PlayerSpeed      = 60.0
	KnifeAttackRange = 26.0
	KnifeDamage      = 2
	BandageHeal      = 5
	ShotgunSpread    = 0.15 // radians between pellets
	HarvestCooldown  = 0.5
	PlaceCooldown    = 0.5
)

var weaponCooldowns = map[ItemType]float64{
	ItemPistol:  0.4,
	ItemShotgun: 0.8,
	ItemKnife:   0.5,
}

// placeableItems are put down in front of the player when used
var placeableItems = map[ItemType]bool{
	ItemWall:     true,
	ItemSpikes:   true,
	ItemLandmine: true,
	ItemTorch:    true,
}

// PlayerController is the per-tick behaviour of a player entity, driven by client input
type PlayerController struct {
	owner      *Entity
	em         *EntityManager
	input      PlayerInput
	facing     Vector2
	activeItem int
	crafting   bool
	dropQueued bool
	eatQueued  bool
	weaponCDs  map[ItemType]*Cooldown
	harvestCD  *Cooldown
	placeCD    *Cooldown
}

// NewPlayer creates a player with its top-left corner at pos
func NewPlayer(em *EntityManager, pos Vector2) *Entity {
	pc := &PlayerController{
		em:         em,
		facing:     Vector2{X: 1},
		activeItem: 1,
		weaponCDs:  make(map[ItemType]*Cooldown, len(weaponCooldowns)),
		harvestCD:  NewCooldown(em.Clock(), HarvestCooldown),
		placeCD:    NewCooldown(em.Clock(), PlaceCooldown),
	}
	for w, d := range weaponCooldowns {
		pc.weaponCDs[w] = NewCooldown(em.Clock(), d)
	}
	return NewEntity(EntityPlayer, func(e *Entity) []Extension {
		pc.owner = e
		inv := NewInventory(e, em.Broadcaster())
		health := NewDestructible(e, MaxPlayerHealth).
			OnDamaged(func(int) { em.broadcast(PlayerHurtEvent{PlayerID: e.ID()}) }).
			OnDeath(pc.die)
		return []Extension{
			NewPositionable(e, pos, PlayerSize),
			NewMovable(e),
			NewCollidableHitbox(e, Vector2{4, 4}, PlayerSize/2),
			health,
			inv,
			pc,
		}
	})
}

// Controller returns the player behaviour of a player entity
func Controller(e *Entity) *PlayerController {
	return e.Updater().(*PlayerController)
}

func (pc *PlayerController) Type() ExtensionType { return ExtUpdatable }

func (pc *PlayerController) ActiveItem() int { return pc.activeItem }

func (pc *PlayerController) IsCrafting() bool { return pc.crafting }

func (pc *PlayerController) Input() PlayerInput { return pc.input }

// SetInput records the latest input and derives velocity from the movement axes.
// Drop and consume are one-shot and run on the next tick.
func (pc *PlayerController) SetInput(in PlayerInput) {
	pc.input = in
	if in.InventoryItem > 0 {
		pc.activeItem = ClampInt(in.InventoryItem, 1, MaxInventorySlots)
	}
	pc.dropQueued = pc.dropQueued || in.Drop
	pc.eatQueued = pc.eatQueued || in.Consume
	pc.setVelocityFromInput(in.DX, in.DY)
}

func (pc *PlayerController) setVelocityFromInput(dx, dy float64) {
	dir := Vector2{dx, dy}.Normalize()
	if !dir.IsZero() {
		pc.facing = dir
	}
	if pc.crafting || !pc.owner.IsAlive() {
		dir = Vector2{}
	}
	pc.owner.Movable().SetVelocity(dir.Scale(PlayerSpeed))
}

// SetCrafting toggles the crafting menu state. Crafting players stand still.
func (pc *PlayerController) SetCrafting(on bool) {
	pc.crafting = on
	pc.setVelocityFromInput(pc.input.DX, pc.input.DY)
}

// Craft crafts a recipe from the player's inventory
func (pc *PlayerController) Craft(recipeID string) error {
	r, ok := RecipeByID(recipeID)
	if !ok {
		return ErrUnknownRecipe
	}
	return pc.owner.Inventory().Craft(r)
}

func (pc *PlayerController) Update(dt float64) {
	if !pc.owner.IsAlive() {
		return
	}
	if pc.crafting {
		pc.owner.Movable().SetVelocity(Vector2{})
		return
	}
	pc.em.MoveWithCollisions(pc.owner, dt)

	if pc.dropQueued {
		pc.dropQueued = false
		pc.drop()
	}
	if pc.eatQueued {
		pc.eatQueued = false
		pc.consume()
	}
	if pc.input.Fire {
		pc.useActiveItem()
	}
	if pc.input.Harvest && pc.harvestCD.Ready() {
		if pc.harvest() {
			pc.harvestCD.Reset()
		}
	}
}

func (pc *PlayerController) useActiveItem() {
	item, ok := pc.owner.Inventory().ActiveItem(pc.activeItem)
	if !ok {
		return
	}
	if cd, isWeapon := pc.weaponCDs[item.Key]; isWeapon {
		if !cd.Ready() {
			return
		}
		pc.fire(item.Key)
		cd.Reset()
		return
	}
	if placeableItems[item.Key] && pc.placeCD.Ready() {
		if pc.place(item) {
			pc.placeCD.Reset()
		}
	}
}

func (pc *PlayerController) fire(weapon ItemType) {
	center := pc.owner.Center()
	switch weapon {
	case ItemPistol:
		pc.em.AddEntity(NewBullet(pc.em, center, pc.facing))
	case ItemShotgun:
		for _, a := range []float64{-ShotgunSpread, 0, ShotgunSpread} {
			pc.em.AddEntity(NewBullet(pc.em, center, pc.facing.Rotate(a)))
		}
	case ItemKnife:
		reach := center.Add(pc.facing.Scale(KnifeAttackRange / 2))
		for _, t := range pc.em.NearbyEntities(reach, KnifeAttackRange/2+PlayerSize/2) {
			if t.Type().IsEnemy() && t.IsAlive() && !t.MarkedForRemoval() {
				t.Destructible().Damage(KnifeDamage)
				return
			}
		}
	}
}

// place puts the active item down on the tile in front of the player
func (pc *PlayerController) place(item InventoryItem) bool {
	front := pc.owner.Center().Add(pc.facing.Scale(TileSize))
	tile := Vector2{math.Floor(front.X/TileSize) * TileSize, math.Floor(front.Y/TileSize) * TileSize}
	box := Rect{X: tile.X, Y: tile.Y, W: TileSize, H: TileSize}
	if w, h := pc.em.MapSize(); w > 0 && !box.Within(w, h) {
		return false
	}
	if pc.em.blocked(nil, box) {
		return false
	}
	e, ok := pc.em.CreateEntityFromItem(item)
	if !ok {
		return false
	}
	pc.owner.Inventory().RemoveItem(pc.activeItem - 1)
	e.Positionable().SetPosition(tile)
	pc.em.AddEntity(e)
	return true
}

// harvest interacts with the closest interactive entity in reach
func (pc *PlayerController) harvest() bool {
	center := pc.owner.Center()
	var (
		best     *Entity
		bestDist = math.Inf(1)
	)
	for _, e := range pc.em.NearbyEntities(center, MaxInteractRadius+ItemSize) {
		if e == pc.owner || e.MarkedForRemoval() || !e.HasExt(ExtInteractive) {
			continue
		}
		if !e.Interactive().InRange(pc.owner) {
			continue
		}
		if d := center.DistanceTo(e.Center()); d < bestDist {
			best, bestDist = e, d
		}
	}
	if best == nil {
		return false
	}
	return best.Interactive().Interact(pc.owner)
}

func (pc *PlayerController) drop() {
	inv := pc.owner.Inventory()
	item, ok := inv.RemoveItem(pc.activeItem - 1)
	if !ok {
		return
	}
	e, ok := pc.em.CreateEntityFromItem(item)
	if !ok {
		logger.WithField("item", item.Key).Warn("cannot drop unsupported item")
		return
	}
	e.Positionable().SetCenterPosition(pc.owner.Center())
	pc.em.AddEntity(e)
	pc.em.broadcast(PlayerDroppedItemEvent{PlayerID: pc.owner.ID(), ItemType: item.Key})
}

func (pc *PlayerController) consume() {
	inv := pc.owner.Inventory()
	item, ok := inv.ActiveItem(pc.activeItem)
	if !ok || item.Key != ItemBandage {
		return
	}
	health := pc.owner.Destructible()
	if health.IsFull() {
		return
	}
	health.Heal(BandageHeal)
	inv.RemoveItem(pc.activeItem - 1)
	pc.em.broadcast(PlayerHealedEvent{PlayerID: pc.owner.ID()})
}

func (pc *PlayerController) die() {
	pc.owner.Movable().SetVelocity(Vector2{})
	pc.owner.Collidable().SetEnabled(false)
	pc.em.broadcast(PlayerDeathEvent{PlayerID: pc.owner.ID()})
	pc.owner.Inventory().Scatter(pc.em)
}

func (pc *PlayerController) Serialize(dto *EntityDTO) {
	dto.ActiveItem = pc.activeItem
	dto.IsCrafting = pc.crafting
}
