package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
)

// protocolDocument groups every payload that crosses the socket so one schema
// describes the whole wire format
type protocolDocument struct {
	PlayerInput  PlayerInput     `json:"playerInput" jsonschema:"description=Client input; sent whenever the held keys change"`
	CraftRequest string          `json:"craftRequest" jsonschema:"description=Recipe id to craft"`
	AdminLogin   AdminLoginMsg   `json:"adminLogin"`
	AdminCommand AdminCommandMsg `json:"adminCommand"`
	Map          [][]int         `json:"map" jsonschema:"description=Tile ids; 0 and 1 grass; 2 forest; 3 water"`
	YourID       string          `json:"yourId"`
	GameState    GameStateDTO    `json:"gameState"`
	PlayerEvent  playerPayload   `json:"playerEvent" jsonschema:"description=playerHurt playerDeath playerHealed playerJoined playerLeft"`
	ZombieEvent  zombiePayload   `json:"zombieEvent" jsonschema:"description=zombieHurt zombieDeath zombieAttacked"`
	ItemEvent    itemPayload     `json:"itemEvent" jsonschema:"description=playerPickedUpItem playerDroppedItem"`
	DayEvent     dayPayload      `json:"dayEvent" jsonschema:"description=gameStarted gameOver"`
	AdminToken   AdminTokenMsg   `json:"adminToken"`
	Error        ErrorMsg        `json:"error"`
}

var (
	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error
)

func buildProtocolSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(protocolDocument))
	schema.Title = "survive-server wire protocol"
	schema.Description = "Payloads carried in the d field of {t, d} envelopes"
	return schema
}

// protocolSchema returns the marshalled schema, built once
func protocolSchema() ([]byte, error) {
	schemaOnce.Do(func() {
		schemaJSON, schemaErr = json.MarshalIndent(buildProtocolSchema(), "", "  ")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", schemaErr)
		}
	})
	return schemaJSON, schemaErr
}
