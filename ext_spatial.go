package main

// Positionable places an entity in the world. Position is the top-left corner.
type Positionable struct {
	owner    *Entity
	position Vector2
	size     float64
}

func NewPositionable(owner *Entity, pos Vector2, size float64) *Positionable {
	return &Positionable{owner: owner, position: pos, size: size}
}

func (p *Positionable) Type() ExtensionType { return ExtPositionable }

func (p *Positionable) Position() Vector2 { return p.position }

func (p *Positionable) SetPosition(v Vector2) { p.position = v }

func (p *Positionable) Size() float64 { return p.size }

// CenterPosition is the middle of the entity's square footprint
func (p *Positionable) CenterPosition() Vector2 {
	return Vector2{p.position.X + p.size/2, p.position.Y + p.size/2}
}

// SetCenterPosition moves the entity so that its center lands on v
func (p *Positionable) SetCenterPosition(v Vector2) {
	p.position = Vector2{v.X - p.size/2, v.Y - p.size/2}
}

func (p *Positionable) Serialize(dto *EntityDTO) {
	dto.Position = p.position.rounded()
}

// Movable carries an entity's velocity in world units per second
type Movable struct {
	owner    *Entity
	velocity Vector2
}

func NewMovable(owner *Entity) *Movable { return &Movable{owner: owner} }

func (m *Movable) Type() ExtensionType { return ExtMovable }

func (m *Movable) Velocity() Vector2 { return m.velocity }

func (m *Movable) SetVelocity(v Vector2) { m.velocity = v }

func (m *Movable) Serialize(dto *EntityDTO) {
	v := m.velocity.rounded()
	dto.Velocity = &v
}

// Collidable gives an entity a hitbox used against map bounds and other collidables
type Collidable struct {
	owner   *Entity
	offset  Vector2
	size    float64
	enabled bool
}

// NewCollidable uses the owner's full footprint as its hitbox
func NewCollidable(owner *Entity, size float64) *Collidable {
	return &Collidable{owner: owner, size: size, enabled: true}
}

// NewCollidableHitbox creates a square hitbox of the given size, offset from the owner's position
func NewCollidableHitbox(owner *Entity, offset Vector2, size float64) *Collidable {
	return &Collidable{owner: owner, offset: offset, size: size, enabled: true}
}

func (c *Collidable) Type() ExtensionType { return ExtCollidable }

// Hitbox returns the world-space box at the owner's current position
func (c *Collidable) Hitbox() Rect {
	return c.HitboxAt(c.owner.Positionable().Position())
}

// HitboxAt returns the world-space box the owner would have at pos
func (c *Collidable) HitboxAt(pos Vector2) Rect {
	return Rect{X: pos.X + c.offset.X, Y: pos.Y + c.offset.Y, W: c.size, H: c.size}
}

func (c *Collidable) Enabled() bool { return c.enabled }

func (c *Collidable) SetEnabled(on bool) { c.enabled = on }

func (c *Collidable) Serialize(*EntityDTO) {}

// Groupable ties enemies into a pack that shares a target
type Groupable struct {
	owner   *Entity
	groupID string
}

func NewGroupable(owner *Entity, groupID string) *Groupable {
	return &Groupable{owner: owner, groupID: groupID}
}

func (g *Groupable) Type() ExtensionType { return ExtGroupable }

func (g *Groupable) GroupID() string { return g.groupID }

func (g *Groupable) Serialize(dto *EntityDTO) { dto.GroupID = g.groupID }

// Illuminated entities cast light at night
type Illuminated struct {
	owner  *Entity
	radius float64
}

func NewIlluminated(owner *Entity, radius float64) *Illuminated {
	return &Illuminated{owner: owner, radius: radius}
}

func (l *Illuminated) Type() ExtensionType { return ExtIlluminated }

func (l *Illuminated) Radius() float64 { return l.radius }

func (l *Illuminated) Serialize(dto *EntityDTO) { dto.LightRadius = l.radius }
