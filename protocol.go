package main

import "encoding/json"

// Client -> Server message types
const (
	MsgPlayerInput   = "playerInput"
	MsgCraftRequest  = "craftRequest"
	MsgStartCrafting = "startCrafting"
	MsgStopCrafting  = "stopCrafting"
	MsgAdminLogin    = "adminLogin"
	MsgAdminCommand  = "adminCommand"
)

// Server -> Client message types
const (
	MsgMap                = "map"
	MsgYourID             = "yourId"
	MsgGameState          = "gameState"
	MsgPlayerHurt         = "playerHurt"
	MsgPlayerDeath        = "playerDeath"
	MsgPlayerHealed       = "playerHealed"
	MsgPlayerJoined       = "playerJoined"
	MsgPlayerLeft         = "playerLeft"
	MsgZombieHurt         = "zombieHurt"
	MsgZombieDeath        = "zombieDeath"
	MsgZombieAttacked     = "zombieAttacked"
	MsgPlayerPickedUpItem = "playerPickedUpItem"
	MsgPlayerDroppedItem  = "playerDroppedItem"
	MsgGameStarted        = "gameStarted"
	MsgGameOver           = "gameOver"
	MsgAdminToken         = "adminToken"
	MsgError              = "error"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage defers payload decoding to the handler
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PlayerInput is the held-key state a client sends whenever it changes.
// InventoryItem selects a one-based hotbar slot, zero keeps the current one.
type PlayerInput struct {
	DX            float64 `json:"dx"`
	DY            float64 `json:"dy"`
	Harvest       bool    `json:"harvest"`
	Fire          bool    `json:"fire"`
	InventoryItem int     `json:"inventoryItem,omitempty"`
	Drop          bool    `json:"drop,omitempty"`
	Consume       bool    `json:"consume,omitempty"`
}

// AdminLoginMsg requests an admin token
type AdminLoginMsg struct {
	Password string `json:"password"`
}

// AdminCommandMsg carries an admin command and its arguments
type AdminCommandMsg struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
	Token   string          `json:"token,omitempty"`
}

// EntityDTO is the wire projection of an entity. Only id, type and position are always present.
type EntityDTO struct {
	ID          string          `json:"id"`
	Type        EntityType      `json:"type"`
	Position    Vector2         `json:"position"`
	Velocity    *Vector2        `json:"velocity,omitempty"`
	Health      *int            `json:"health,omitempty"`
	MaxHealth   *int            `json:"maxHealth,omitempty"`
	Inventory   []InventoryItem `json:"inventory,omitempty"`
	ActiveItem  int             `json:"activeItem,omitempty"`
	IsCrafting  bool            `json:"isCrafting,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	WeaponType  ItemType        `json:"weaponType,omitempty"`
	GroupID     string          `json:"groupId,omitempty"`
	LightRadius float64         `json:"lightRadius,omitempty"`
	State       string          `json:"state,omitempty"`
}

// GameStateDTO is the periodic world snapshot
type GameStateDTO struct {
	Entities       []EntityDTO `json:"entities"`
	DayNumber      int         `json:"dayNumber"`
	IsDay          bool        `json:"isDay"`
	CycleStartTime float64     `json:"cycleStartTime"`
	CycleDuration  float64     `json:"cycleDuration"`
	Tick           uint64      `json:"tick"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// AdminTokenMsg returns a signed admin token
type AdminTokenMsg struct {
	Token string `json:"token"`
}
