package main

const (
	BulletSpeed    = 300.0
	BulletSize     = 4.0
	BulletLifetime = 0.8 // seconds
	BulletDamage   = 1

	AcidSpeed    = 100.0
	AcidSize     = 8.0
	AcidLifetime = 1.5
)

// projectile moves in a straight line and damages the first matching target it passes through
type projectile struct {
	owner  *Entity
	em     *EntityManager
	damage int
	hits   func(target *Entity) bool
	// damageStatic makes the projectile damage destructible obstacles it runs into
	damageStatic bool
}

func (p *projectile) Type() ExtensionType { return ExtUpdatable }

func (p *projectile) Serialize(*EntityDTO) {}

func (p *projectile) Update(dt float64) {
	pos := p.owner.Positionable()
	from := pos.CenterPosition()
	pos.SetPosition(pos.Position().Add(p.owner.Movable().Velocity().Scale(dt)))
	to := pos.CenterPosition()

	if w, h := p.em.MapSize(); w > 0 && (to.X < 0 || to.Y < 0 || to.X > w || to.Y > h) {
		p.em.MarkEntityForRemoval(p.owner)
		return
	}

	span := from.DistanceTo(to)
	mid := from.Add(to).Scale(0.5)
	for _, target := range p.em.NearbyEntities(mid, span/2+32) {
		if target.MarkedForRemoval() || !target.HasExt(ExtDestructible) || !target.IsAlive() || !p.hits(target) {
			continue
		}
		r := target.Positionable().Size()/2 + pos.Size()/2
		if segmentCircleIntersect(from.X, from.Y, to.X, to.Y, target.Center().X, target.Center().Y, r) {
			target.Destructible().Damage(p.damage)
			p.em.MarkEntityForRemoval(p.owner)
			return
		}
	}

	box := Rect{X: pos.Position().X, Y: pos.Position().Y, W: pos.Size(), H: pos.Size()}
	if obstacle := p.em.staticHit(p.owner, box); obstacle != nil {
		if p.damageStatic && obstacle.HasExt(ExtDestructible) {
			obstacle.Destructible().Damage(p.damage)
		}
		p.em.MarkEntityForRemoval(p.owner)
	}
}

func newProjectile(em *EntityManager, typ EntityType, from, dir Vector2, speed, size, lifetime float64, damage int, hits func(*Entity) bool, damageStatic bool) *Entity {
	return NewEntity(typ, func(e *Entity) []Extension {
		pos := NewPositionable(e, Vector2{}, size)
		pos.SetCenterPosition(from)
		mov := NewMovable(e)
		mov.SetVelocity(dir.Normalize().Scale(speed))
		return []Extension{
			pos,
			mov,
			NewExpirable(e, em, lifetime),
			&projectile{owner: e, em: em, damage: damage, hits: hits, damageStatic: damageStatic},
		}
	})
}

// NewBullet fires a player bullet from a center point along dir
func NewBullet(em *EntityManager, from, dir Vector2) *Entity {
	return newProjectile(em, EntityBullet, from, dir, BulletSpeed, BulletSize, BulletLifetime, BulletDamage,
		func(t *Entity) bool { return t.Type().IsEnemy() }, false)
}

// NewAcidProjectile launches spitter acid from one point toward another. It
// hurts players and erodes walls.
func NewAcidProjectile(em *EntityManager, from, to Vector2, damage int) *Entity {
	return newProjectile(em, EntityAcidProjectile, from, to.Sub(from), AcidSpeed, AcidSize, AcidLifetime, damage,
		func(t *Entity) bool { return t.Type() == EntityPlayer }, true)
}
