package main

// Triggerable fires a callback for each matching entity that comes within radius.
// With a cooldown the trap re-arms after the cooldown elapses; without one it fires every tick.
type Triggerable struct {
	owner     *Entity
	radius    float64
	filter    func(target *Entity) bool
	onTrigger func(target *Entity)
	cooldown  *Cooldown
}

func NewTriggerable(owner *Entity, radius float64, filter func(*Entity) bool, onTrigger func(*Entity)) *Triggerable {
	return &Triggerable{owner: owner, radius: radius, filter: filter, onTrigger: onTrigger}
}

// WithCooldown limits how often the trap fires
func (t *Triggerable) WithCooldown(c *Cooldown) *Triggerable {
	t.cooldown = c
	return t
}

func (t *Triggerable) Type() ExtensionType { return ExtTriggerable }

func (t *Triggerable) Radius() float64 { return t.radius }

// Check runs the trap against nearby entities and reports whether it fired
func (t *Triggerable) Check(em *EntityManager) bool {
	if t.owner.MarkedForRemoval() {
		return false
	}
	if t.cooldown != nil && !t.cooldown.Ready() {
		return false
	}
	fired := false
	for _, target := range em.NearbyEntities(t.owner.Center(), t.radius) {
		if target == t.owner || target.MarkedForRemoval() || !target.IsAlive() {
			continue
		}
		if t.filter != nil && !t.filter(target) {
			continue
		}
		t.onTrigger(target)
		fired = true
		if t.owner.MarkedForRemoval() {
			break
		}
	}
	if fired && t.cooldown != nil {
		t.cooldown.Reset()
	}
	return fired
}

func (t *Triggerable) Serialize(*EntityDTO) {}

// Expirable removes its owner once its lifetime runs out
type Expirable struct {
	owner     *Entity
	em        *EntityManager
	remaining float64
}

func NewExpirable(owner *Entity, em *EntityManager, lifetime float64) *Expirable {
	return &Expirable{owner: owner, em: em, remaining: lifetime}
}

func (x *Expirable) Type() ExtensionType { return ExtExpirable }

func (x *Expirable) Remaining() float64 { return x.remaining }

// Tick advances the lifetime and marks the owner when it reaches zero
func (x *Expirable) Tick(dt float64) {
	x.remaining -= dt
	if x.remaining <= 0 {
		x.em.MarkEntityForRemoval(x.owner)
	}
}

func (x *Expirable) Serialize(*EntityDTO) {}
