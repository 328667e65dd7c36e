package main

// GameEvent is a typed server-sent event. Type is the wire discriminator,
// Serialize the payload placed in the envelope.
type GameEvent interface {
	Type() string
	Serialize() any
}

// Broadcaster fans server events out to every connected session
type Broadcaster interface {
	Broadcast(evt GameEvent)
}

// toEnvelope wraps an event for the wire
func toEnvelope(evt GameEvent) Envelope {
	return Envelope{T: evt.Type(), Data: evt.Serialize()}
}

type GameStateEvent struct {
	State GameStateDTO
}

func (e GameStateEvent) Type() string { return MsgGameState }

func (e GameStateEvent) Serialize() any { return e.State }

type MapEvent struct {
	Tiles [][]int
}

func (e MapEvent) Type() string { return MsgMap }

func (e MapEvent) Serialize() any { return e.Tiles }

type YourIDEvent struct {
	ID string
}

func (e YourIDEvent) Type() string { return MsgYourID }

func (e YourIDEvent) Serialize() any { return e.ID }

type playerPayload struct {
	PlayerID string `json:"playerId"`
}

type zombiePayload struct {
	ZombieID string `json:"zombieId"`
}

type itemPayload struct {
	PlayerID string   `json:"playerId"`
	ItemType ItemType `json:"itemType"`
}

type dayPayload struct {
	DayNumber int `json:"dayNumber"`
}

type PlayerHurtEvent struct{ PlayerID string }

func (e PlayerHurtEvent) Type() string { return MsgPlayerHurt }

func (e PlayerHurtEvent) Serialize() any { return playerPayload{e.PlayerID} }

type PlayerDeathEvent struct{ PlayerID string }

func (e PlayerDeathEvent) Type() string { return MsgPlayerDeath }

func (e PlayerDeathEvent) Serialize() any { return playerPayload{e.PlayerID} }

type PlayerHealedEvent struct{ PlayerID string }

func (e PlayerHealedEvent) Type() string { return MsgPlayerHealed }

func (e PlayerHealedEvent) Serialize() any { return playerPayload{e.PlayerID} }

type PlayerJoinedEvent struct{ PlayerID string }

func (e PlayerJoinedEvent) Type() string { return MsgPlayerJoined }

func (e PlayerJoinedEvent) Serialize() any { return playerPayload{e.PlayerID} }

type PlayerLeftEvent struct{ PlayerID string }

func (e PlayerLeftEvent) Type() string { return MsgPlayerLeft }

func (e PlayerLeftEvent) Serialize() any { return playerPayload{e.PlayerID} }

type ZombieHurtEvent struct{ ZombieID string }

func (e ZombieHurtEvent) Type() string { return MsgZombieHurt }

func (e ZombieHurtEvent) Serialize() any { return zombiePayload{e.ZombieID} }

type ZombieDeathEvent struct{ ZombieID string }

func (e ZombieDeathEvent) Type() string { return MsgZombieDeath }

func (e ZombieDeathEvent) Serialize() any { return zombiePayload{e.ZombieID} }

// ZombieAttackedEvent is emitted when an enemy lands a melee hit or launches a projectile
type ZombieAttackedEvent struct{ ZombieID string }

func (e ZombieAttackedEvent) Type() string { return MsgZombieAttacked }

func (e ZombieAttackedEvent) Serialize() any { return zombiePayload{e.ZombieID} }

type PlayerPickedUpItemEvent struct {
	PlayerID string
	ItemType ItemType
}

func (e PlayerPickedUpItemEvent) Type() string { return MsgPlayerPickedUpItem }

func (e PlayerPickedUpItemEvent) Serialize() any { return itemPayload{e.PlayerID, e.ItemType} }

type PlayerDroppedItemEvent struct {
	PlayerID string
	ItemType ItemType
}

func (e PlayerDroppedItemEvent) Type() string { return MsgPlayerDroppedItem }

func (e PlayerDroppedItemEvent) Serialize() any { return itemPayload{e.PlayerID, e.ItemType} }

type GameStartedEvent struct{ DayNumber int }

func (e GameStartedEvent) Type() string { return MsgGameStarted }

func (e GameStartedEvent) Serialize() any { return dayPayload{e.DayNumber} }

type GameOverEvent struct{ DayNumber int }

func (e GameOverEvent) Type() string { return MsgGameOver }

func (e GameOverEvent) Serialize() any { return dayPayload{e.DayNumber} }
