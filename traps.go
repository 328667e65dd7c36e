package main

const (
	SpikesDamage   = 1
	SpikesCooldown = 1.0
	SpikesRadius   = 12.0

	LandmineTriggerRadius   = 8.0
	LandmineExplosionRadius = 32.0
	LandmineDamage          = 5

	FireLifetime    = 10.0
	FireDamage      = 1
	FireCooldown    = 1.0
	FireRadius      = 10.0
	FireLightRadius = 64.0

	TorchLightRadius = 48.0
)

func isEnemy(t *Entity) bool { return t.Type().IsEnemy() }

func isEnemyOrPlayer(t *Entity) bool { return t.Type().IsEnemy() || t.Type() == EntityPlayer }

// NewSpikes creates a placed spike trap that wounds zombies stepping on it
func NewSpikes(em *EntityManager, pos Vector2) *Entity {
	return NewEntity(EntitySpikes, func(e *Entity) []Extension {
		trap := NewTriggerable(e, SpikesRadius, isEnemy, func(t *Entity) {
			t.Destructible().Damage(SpikesDamage)
		}).WithCooldown(NewCooldown(em.Clock(), SpikesCooldown))
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewInteractive(e, "spikes", pickupInteraction(e)),
			NewCarryable(e, em, ItemSpikes, nil),
			trap,
		}
	})
}

// NewLandmine creates a mine that explodes under the first zombie to touch it,
// damaging everything in the blast radius and leaving a fire behind
func NewLandmine(em *EntityManager, pos Vector2) *Entity {
	return NewEntity(EntityLandmine, func(e *Entity) []Extension {
		trap := NewTriggerable(e, LandmineTriggerRadius, isEnemy, func(*Entity) {
			explode(em, e)
		})
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewInteractive(e, "landmine", pickupInteraction(e)),
			NewCarryable(e, em, ItemLandmine, nil),
			trap,
		}
	})
}

func explode(em *EntityManager, mine *Entity) {
	if mine.MarkedForRemoval() {
		return
	}
	center := mine.Center()
	em.MarkEntityForRemoval(mine)
	for _, t := range em.NearbyEntities(center, LandmineExplosionRadius) {
		if t == mine || !t.HasExt(ExtDestructible) {
			continue
		}
		t.Destructible().Damage(LandmineDamage)
	}
	fire := NewFire(em, Vector2{})
	fire.Positionable().SetCenterPosition(center)
	em.AddEntity(fire)
}

// NewFire creates a burning patch that lights the area and hurts anything standing in it
func NewFire(em *EntityManager, pos Vector2) *Entity {
	return NewEntity(EntityFire, func(e *Entity) []Extension {
		trap := NewTriggerable(e, FireRadius, isEnemyOrPlayer, func(t *Entity) {
			t.Destructible().Damage(FireDamage)
		}).WithCooldown(NewCooldown(em.Clock(), FireCooldown))
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewExpirable(e, em, FireLifetime),
			NewIlluminated(e, FireLightRadius),
			trap,
		}
	})
}

// NewTorch creates a placed torch
func NewTorch(em *EntityManager, pos Vector2) *Entity {
	return NewEntity(EntityTorch, func(e *Entity) []Extension {
		return []Extension{
			NewPositionable(e, pos, TileSize),
			NewInteractive(e, "torch", pickupInteraction(e)),
			NewCarryable(e, em, ItemTorch, nil),
			NewIlluminated(e, TorchLightRadius),
		}
	})
}
