package main

// Destructible gives an entity health in [0, maxHealth].
// Reaching zero fires the death callback exactly once; a dead entity ignores damage and healing.
type Destructible struct {
	owner     *Entity
	health    int
	maxHealth int
	dead      bool
	onDamaged func(amount int)
	onDeath   func()
}

func NewDestructible(owner *Entity, maxHealth int) *Destructible {
	return &Destructible{owner: owner, health: maxHealth, maxHealth: maxHealth}
}

func (d *Destructible) Type() ExtensionType { return ExtDestructible }

// OnDamaged registers the callback run after every damaging hit
func (d *Destructible) OnDamaged(fn func(amount int)) *Destructible {
	d.onDamaged = fn
	return d
}

// OnDeath registers the callback run when health first reaches zero
func (d *Destructible) OnDeath(fn func()) *Destructible {
	d.onDeath = fn
	return d
}

func (d *Destructible) Health() int { return d.health }

func (d *Destructible) MaxHealth() int { return d.maxHealth }

func (d *Destructible) IsDead() bool { return d.dead }

func (d *Destructible) IsFull() bool { return d.health >= d.maxHealth }

// SetHealth overwrites health, clamped to the valid range. Setting zero kills.
func (d *Destructible) SetHealth(h int) {
	if d.dead {
		return
	}
	d.health = ClampInt(h, 0, d.maxHealth)
	if d.health == 0 {
		d.die()
	}
}

// Damage subtracts health and reports whether this hit killed the entity
func (d *Destructible) Damage(amount int) bool {
	if d.dead || amount <= 0 {
		return false
	}
	d.health = ClampInt(d.health-amount, 0, d.maxHealth)
	if d.onDamaged != nil {
		d.onDamaged(amount)
	}
	if d.health == 0 {
		d.die()
		return true
	}
	return false
}

// Heal adds health up to the maximum and returns the amount actually restored
func (d *Destructible) Heal(amount int) int {
	if d.dead || amount <= 0 {
		return 0
	}
	before := d.health
	d.health = ClampInt(d.health+amount, 0, d.maxHealth)
	return d.health - before
}

func (d *Destructible) die() {
	if d.dead {
		return
	}
	d.dead = true
	if d.onDeath != nil {
		d.onDeath()
	}
}

func (d *Destructible) Serialize(dto *EntityDTO) {
	h, m := d.health, d.maxHealth
	dto.Health = &h
	dto.MaxHealth = &m
}
