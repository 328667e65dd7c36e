package main

import "fmt"

// EnemyState is the coarse behaviour state of an enemy
type EnemyState int

const (
	EnemyIdle EnemyState = iota
	EnemyPursuing
	EnemyAttacking
	EnemyDead
)

func (s EnemyState) String() string {
	switch s {
	case EnemyPursuing:
		return "pursuing"
	case EnemyAttacking:
		return "attacking"
	case EnemyDead:
		return "dead"
	default:
		return "idle"
	}
}

// Archetype is the tuning and behaviour table row for one enemy type
type Archetype struct {
	Size           float64
	Speed          float64
	MaxHealth      int
	AttackCooldown float64
	AttackRadius   float64
	Damage         int
	DropChance     float64
	Flying         bool
	PackSize       int // >1 spawns a Groupable pack
	SpawnWeight    int
	NewMovement    func(clock Clock) MovementStrategy
	NewAttack      func(cd *Cooldown) AttackStrategy
}

const ZombieAttackRadius = 16.0

var archetypes = map[EntityType]*Archetype{
	EntityZombie: {
		Size: 16, Speed: 35, MaxHealth: 3, AttackCooldown: 1, AttackRadius: ZombieAttackRadius,
		Damage: 1, DropChance: 0.7, SpawnWeight: 10,
		NewMovement: func(c Clock) MovementStrategy { return newPathMovement(c, false) },
		NewAttack:   newMeleeAttack,
	},
	EntityFastZombie: {
		Size: 16, Speed: 60, MaxHealth: 1, AttackCooldown: 0.5, AttackRadius: ZombieAttackRadius,
		Damage: 1, DropChance: 0.3, SpawnWeight: 4,
		NewMovement: func(c Clock) MovementStrategy { return newPathMovement(c, false) },
		NewAttack:   newMeleeAttack,
	},
	EntityBigZombie: {
		Size: 24, Speed: 18, MaxHealth: 10, AttackCooldown: 2, AttackRadius: 20,
		Damage: 3, DropChance: 1, SpawnWeight: 2,
		NewMovement: func(c Clock) MovementStrategy { return newPathMovement(c, false) },
		NewAttack:   newMeleeAttack,
	},
	EntityBatZombie: {
		Size: 12, Speed: 50, MaxHealth: 1, AttackCooldown: 1, AttackRadius: 12,
		Damage: 1, DropChance: 0.2, Flying: true, PackSize: 3, SpawnWeight: 2,
		NewMovement: func(Clock) MovementStrategy { return flyingMovement{} },
		NewAttack:   newMeleeAttack,
	},
	EntitySpitterZombie: {
		Size: 16, Speed: 25, MaxHealth: 2, AttackCooldown: 2, AttackRadius: 100,
		Damage: 2, DropChance: 0.5, SpawnWeight: 3,
		NewMovement: func(c Clock) MovementStrategy { return newPathMovement(c, true) },
		NewAttack:   newRangedAttack,
	},
}

// spawnOrder fixes the iteration order of weighted archetype draws
var spawnOrder = []EntityType{EntityZombie, EntityFastZombie, EntityBigZombie, EntityBatZombie, EntitySpitterZombie}

// pickArchetype draws an enemy type proportionally to SpawnWeight
func pickArchetype(rng randSource) EntityType {
	total := 0
	for _, t := range spawnOrder {
		total += archetypes[t].SpawnWeight
	}
	n := rng.Intn(total)
	for _, t := range spawnOrder {
		n -= archetypes[t].SpawnWeight
		if n < 0 {
			return t
		}
	}
	return EntityZombie
}

// Enemy is the behaviour extension shared by every zombie archetype
type Enemy struct {
	owner    *Entity
	em       *EntityManager
	arch     *Archetype
	movement MovementStrategy
	attack   AttackStrategy
	state    EnemyState
	target   *Entity
}

// NewEnemy builds an enemy of an archetype type with its top-left corner at pos
func NewEnemy(em *EntityManager, typ EntityType, pos Vector2) *Entity {
	return newEnemy(em, typ, pos, "")
}

// SpawnPack adds a pack of the archetype's PackSize around pos, all sharing one group id
func SpawnPack(em *EntityManager, typ EntityType, pos Vector2) []*Entity {
	arch := archetypes[typ]
	n := arch.PackSize
	if n < 1 {
		n = 1
	}
	groupID := GenerateID()
	members := make([]*Entity, 0, n)
	for i := 0; i < n; i++ {
		offset := Vector2{float64(i%2) * arch.Size, float64(i/2) * arch.Size}
		e := newEnemy(em, typ, pos.Add(offset), groupID)
		em.AddEntity(e)
		members = append(members, e)
	}
	return members
}

func newEnemy(em *EntityManager, typ EntityType, pos Vector2, groupID string) *Entity {
	arch, ok := archetypes[typ]
	if !ok {
		panic(fmt.Sprintf("no archetype for %s", typ))
	}
	clock := em.Clock()
	z := &Enemy{
		em:       em,
		arch:     arch,
		movement: arch.NewMovement(clock),
		attack:   arch.NewAttack(NewCooldown(clock, arch.AttackCooldown)),
	}
	return NewEntity(typ, func(e *Entity) []Extension {
		z.owner = e
		loot := NewInventory(e, nil)
		loot.AddRandomItem(em.Rand(), arch.DropChance)
		health := NewDestructible(e, arch.MaxHealth).
			OnDamaged(func(int) { em.broadcast(ZombieHurtEvent{ZombieID: e.ID()}) }).
			OnDeath(z.die)

		exts := []Extension{NewPositionable(e, pos, arch.Size), NewMovable(e)}
		if !arch.Flying {
			exts = append(exts, NewCollidableHitbox(e, Vector2{arch.Size / 4, arch.Size / 4}, arch.Size/2))
		}
		if groupID != "" {
			exts = append(exts, NewGroupable(e, groupID))
		}
		return append(exts, health, loot, z)
	})
}

func (z *Enemy) Type() ExtensionType { return ExtUpdatable }

func (z *Enemy) State() EnemyState { return z.state }

func (z *Enemy) Target() *Entity { return z.target }

func (z *Enemy) Archetype() *Archetype { return z.arch }

// DistanceToTarget is the center-to-center distance to the current target
func (z *Enemy) DistanceToTarget() float64 {
	if z.target == nil {
		return 0
	}
	return z.owner.Center().DistanceTo(z.target.Center())
}

func (z *Enemy) selectTarget() *Entity {
	var (
		t  *Entity
		ok bool
	)
	if z.owner.HasExt(ExtGroupable) {
		t, ok = z.em.PackTarget(z.owner.Groupable().GroupID())
	} else {
		t, ok = z.em.ClosestAlivePlayer(z.owner)
	}
	if !ok {
		return nil
	}
	return t
}

func (z *Enemy) Update(dt float64) {
	if z.state == EnemyDead {
		return
	}
	z.target = z.selectTarget()
	if z.target == nil {
		z.state = EnemyIdle
		z.owner.Movable().SetVelocity(Vector2{})
		return
	}
	if z.DistanceToTarget() <= z.arch.AttackRadius {
		z.state = EnemyAttacking
	} else {
		z.state = EnemyPursuing
	}
	if z.movement.Update(z, dt) {
		z.em.MoveWithCollisions(z.owner, dt)
	}
	z.attack.Update(z, dt)
}

func (z *Enemy) die() {
	z.state = EnemyDead
	z.target = nil
	z.owner.Movable().SetVelocity(Vector2{})
	z.em.broadcast(ZombieDeathEvent{ZombieID: z.owner.ID()})
	z.owner.Inventory().Scatter(z.em)
	z.em.MarkEntityForRemoval(z.owner)
}

func (z *Enemy) Serialize(dto *EntityDTO) {
	dto.State = z.state.String()
}
