package main

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("bad command arguments")
)

// Admin command identifiers
const (
	CmdSpawn      = "spawn"
	CmdGive       = "give"
	CmdHeal       = "heal"
	CmdNextCycle  = "nextCycle"
	CmdRegenerate = "regenerate"
)

type spawnArgs struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type giveArgs struct {
	PlayerID string   `json:"playerId"`
	ItemType ItemType `json:"itemType"`
}

type healArgs struct {
	PlayerID string `json:"playerId"`
}

// CommandManager executes admin commands against the running world
type CommandManager struct {
	em         *EntityManager
	cycle      *DayCycle
	regenerate func()
}

func NewCommandManager(em *EntityManager, cycle *DayCycle, regenerate func()) *CommandManager {
	return &CommandManager{em: em, cycle: cycle, regenerate: regenerate}
}

func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, ErrBadArgs
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	return v, nil
}

// Handle runs one command
func (cm *CommandManager) Handle(cmd AdminCommandMsg) error {
	switch cmd.Command {
	case CmdSpawn:
		args, err := decodeArgs[spawnArgs](cmd.Args)
		if err != nil {
			return err
		}
		return cm.spawn(args)
	case CmdGive:
		args, err := decodeArgs[giveArgs](cmd.Args)
		if err != nil {
			return err
		}
		p, ok := cm.em.EntityByID(args.PlayerID)
		if !ok || !p.HasExt(ExtInventory) {
			return fmt.Errorf("give: player %q: %w", args.PlayerID, ErrBadArgs)
		}
		if _, known := itemFactories[args.ItemType]; !known {
			return fmt.Errorf("give: item %q: %w", args.ItemType, ErrBadArgs)
		}
		p.Inventory().AddItem(InventoryItem{Key: args.ItemType})
		return nil
	case CmdHeal:
		args, err := decodeArgs[healArgs](cmd.Args)
		if err != nil {
			return err
		}
		p, ok := cm.em.EntityByID(args.PlayerID)
		if !ok || !p.HasExt(ExtDestructible) {
			return fmt.Errorf("heal: player %q: %w", args.PlayerID, ErrBadArgs)
		}
		d := p.Destructible()
		d.Heal(d.MaxHealth())
		return nil
	case CmdNextCycle:
		cm.cycle.Advance()
		return nil
	case CmdRegenerate:
		cm.regenerate()
		return nil
	}
	return fmt.Errorf("%q: %w", cmd.Command, ErrUnknownCommand)
}

func (cm *CommandManager) spawn(args spawnArgs) error {
	pos := Vector2{args.X, args.Y}
	typ := EntityType(args.Type)
	if arch, ok := archetypes[typ]; ok {
		if arch.PackSize > 1 {
			SpawnPack(cm.em, typ, pos)
		} else {
			cm.em.AddEntity(NewEnemy(cm.em, typ, pos))
		}
		return nil
	}
	e, ok := cm.em.CreateEntityFromItem(InventoryItem{Key: ItemType(args.Type)})
	if !ok {
		return fmt.Errorf("spawn %q: %w", args.Type, ErrBadArgs)
	}
	e.Positionable().SetPosition(pos)
	cm.em.AddEntity(e)
	return nil
}
