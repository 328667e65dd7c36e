package main

const (
	pathRecalcInterval  = 1.0 // seconds between waypoint recomputations
	waypointReachedDist = 1.0
	fallbackSpeedFactor = 0.5 // speed multiplier when no path exists
)

// MovementStrategy steers an enemy for one tick. It returns true when the
// enemy's collision-resolved velocity integration should run afterwards.
type MovementStrategy interface {
	Update(z *Enemy, dt float64) bool
}

// AttackStrategy decides whether an enemy attacks this tick
type AttackStrategy interface {
	Update(z *Enemy, dt float64)
}

// pathMovement follows A* waypoints toward the target. With holdInRange the
// enemy stops and lets its attack work once the target is within attack radius.
type pathMovement struct {
	holdInRange bool
	recalc      *Cooldown
	waypoint    Vector2
	hasWaypoint bool
}

func newPathMovement(clock Clock, holdInRange bool) *pathMovement {
	return &pathMovement{holdInRange: holdInRange, recalc: NewCooldown(clock, pathRecalcInterval)}
}

func (p *pathMovement) Update(z *Enemy, dt float64) bool {
	mov := z.owner.Movable()
	target := z.Target()
	if target == nil {
		mov.SetVelocity(Vector2{})
		return false
	}
	if p.holdInRange && z.DistanceToTarget() <= z.arch.AttackRadius {
		mov.SetVelocity(Vector2{})
		return false
	}

	center, goal := z.owner.Center(), target.Center()
	reached := p.hasWaypoint && center.DistanceTo(p.waypoint) <= waypointReachedDist
	if !p.hasWaypoint || reached || p.recalc.Ready() {
		p.waypoint, p.hasWaypoint = pathTowards(z.em.Nav(), center, goal)
		p.recalc.Reset()
	}

	if p.hasWaypoint {
		mov.SetVelocity(velocityTowards(center, p.waypoint, z.arch.Speed))
	} else {
		mov.SetVelocity(velocityTowards(center, goal, z.arch.Speed*fallbackSpeedFactor))
	}
	return true
}

// Waypoint returns the current waypoint, if any
func (p *pathMovement) Waypoint() (Vector2, bool) { return p.waypoint, p.hasWaypoint }

// flyingMovement ignores terrain and moves straight at the target, integrating
// position itself.
type flyingMovement struct{}

func (flyingMovement) Update(z *Enemy, dt float64) bool {
	mov := z.owner.Movable()
	target := z.Target()
	if target == nil {
		mov.SetVelocity(Vector2{})
		return false
	}
	center := z.owner.Center()
	if center.DistanceTo(target.Center()) <= z.arch.AttackRadius/2 {
		mov.SetVelocity(Vector2{})
		return false
	}
	v := velocityTowards(center, target.Center(), z.arch.Speed)
	mov.SetVelocity(v)

	p := z.owner.Positionable()
	next := p.Position().Add(v.Scale(dt))
	if w, h := z.em.MapSize(); w > 0 {
		next.X = Clamp(next.X, 0, w-p.Size())
		next.Y = Clamp(next.Y, 0, h-p.Size())
	}
	p.SetPosition(next)
	return false
}

// meleeAttack damages the target directly when it is within attack radius
type meleeAttack struct {
	cooldown *Cooldown
}

func newMeleeAttack(cd *Cooldown) AttackStrategy { return &meleeAttack{cooldown: cd} }

func (a *meleeAttack) Update(z *Enemy, dt float64) {
	target := z.Target()
	if target == nil || !a.cooldown.Ready() {
		return
	}
	if z.DistanceToTarget() > z.arch.AttackRadius {
		return
	}
	target.Destructible().Damage(z.arch.Damage)
	z.em.broadcast(ZombieAttackedEvent{ZombieID: z.owner.ID()})
	a.cooldown.Reset()
}

// rangedAttack spits a projectile at the target's current position. Damage is
// applied when the projectile connects.
type rangedAttack struct {
	cooldown *Cooldown
}

func newRangedAttack(cd *Cooldown) AttackStrategy { return &rangedAttack{cooldown: cd} }

func (a *rangedAttack) Update(z *Enemy, dt float64) {
	target := z.Target()
	if target == nil || !a.cooldown.Ready() {
		return
	}
	if z.DistanceToTarget() > z.arch.AttackRadius {
		return
	}
	z.em.AddEntity(NewAcidProjectile(z.em, z.owner.Center(), target.Center(), z.arch.Damage))
	z.em.broadcast(ZombieAttackedEvent{ZombieID: z.owner.ID()})
	a.cooldown.Reset()
}
