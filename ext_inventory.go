package main

import (
	"fmt"
	"math"
)

const (
	MaxInventorySlots = 8
	scatterRadius     = 32.0
)

// ItemState is the per-instance payload an item keeps while carried
type ItemState struct {
	Health *int `json:"health,omitempty"`
}

// InventoryItem is one occupied inventory slot
type InventoryItem struct {
	Key   ItemType   `json:"key"`
	State *ItemState `json:"state,omitempty"`
}

// Inventory is an ordered, capacity-limited list of items
type Inventory struct {
	owner       *Entity
	broadcaster Broadcaster
	items       []InventoryItem
}

func NewInventory(owner *Entity, b Broadcaster) *Inventory {
	return &Inventory{owner: owner, broadcaster: b}
}

func (inv *Inventory) Type() ExtensionType { return ExtInventory }

// Items returns a copy of the slots in order
func (inv *Inventory) Items() []InventoryItem {
	out := make([]InventoryItem, len(inv.items))
	copy(out, inv.items)
	return out
}

func (inv *Inventory) Len() int { return len(inv.items) }

func (inv *Inventory) IsFull() bool { return len(inv.items) >= MaxInventorySlots }

// AddItem appends an item and broadcasts the pickup. A full inventory rejects
// the item without broadcasting.
func (inv *Inventory) AddItem(item InventoryItem) bool {
	if inv.IsFull() {
		return false
	}
	inv.items = append(inv.items, item)
	if inv.broadcaster != nil {
		inv.broadcaster.Broadcast(PlayerPickedUpItemEvent{PlayerID: inv.owner.ID(), ItemType: item.Key})
	}
	return true
}

// AddRandomItem seeds loot with probability chance. It does not broadcast.
func (inv *Inventory) AddRandomItem(rng randSource, chance float64) bool {
	if inv.IsFull() || rng.Float64() >= chance {
		return false
	}
	inv.items = append(inv.items, InventoryItem{Key: lootTable[rng.Intn(len(lootTable))]})
	return true
}

// RemoveItem removes the item at a zero-based index
func (inv *Inventory) RemoveItem(index int) (InventoryItem, bool) {
	if index < 0 || index >= len(inv.items) {
		return InventoryItem{}, false
	}
	item := inv.items[index]
	inv.items = append(inv.items[:index], inv.items[index+1:]...)
	return item, true
}

// UpdateItemState replaces the state of the item at a zero-based index
func (inv *Inventory) UpdateItemState(index int, state *ItemState) bool {
	if index < 0 || index >= len(inv.items) {
		return false
	}
	inv.items[index].State = state
	return true
}

// ActiveItem returns the item in a one-based hotbar slot
func (inv *Inventory) ActiveItem(slot int) (InventoryItem, bool) {
	if slot < 1 || slot > len(inv.items) {
		return InventoryItem{}, false
	}
	return inv.items[slot-1], true
}

// ActiveWeapon returns the weapon in a one-based slot, if that slot holds one
func (inv *Inventory) ActiveWeapon(slot int) (ItemType, bool) {
	item, ok := inv.ActiveItem(slot)
	if !ok || !item.Key.IsWeapon() {
		return "", false
	}
	return item.Key, true
}

// Count returns how many slots hold the given item type
func (inv *Inventory) Count(t ItemType) int {
	n := 0
	for _, item := range inv.items {
		if item.Key == t {
			n++
		}
	}
	return n
}

func (inv *Inventory) removeCount(t ItemType, n int) {
	kept := inv.items[:0]
	for _, item := range inv.items {
		if item.Key == t && n > 0 {
			n--
			continue
		}
		kept = append(kept, item)
	}
	inv.items = kept
}

// Craft consumes the recipe's ingredients and adds its result
func (inv *Inventory) Craft(r Recipe) error {
	for _, ing := range r.Ingredients {
		if inv.Count(ing.Item) < ing.Count {
			return fmt.Errorf("craft %s: need %d %s: %w", r.ID, ing.Count, ing.Item, ErrMissingIngredients)
		}
	}
	for _, ing := range r.Ingredients {
		inv.removeCount(ing.Item, ing.Count)
	}
	inv.AddItem(InventoryItem{Key: r.Result})
	return nil
}

func (inv *Inventory) Clear() { inv.items = nil }

// Scatter drops every item around the owner as world entities and empties the inventory
func (inv *Inventory) Scatter(em *EntityManager) {
	center := inv.owner.Center()
	rng := em.Rand()
	for _, item := range inv.items {
		angle := rng.Float64() * 2 * math.Pi
		r := rng.Float64() * scatterRadius
		pos := center.Add(Vector2{math.Cos(angle) * r, math.Sin(angle) * r})
		e, ok := em.CreateEntityFromItem(item)
		if !ok {
			logger.WithField("item", item.Key).Warn("cannot scatter unsupported item")
			continue
		}
		e.Positionable().SetCenterPosition(pos)
		em.AddEntity(e)
	}
	inv.Clear()
}

func (inv *Inventory) Serialize(dto *EntityDTO) {
	dto.Inventory = inv.Items()
}
