package main

import (
	"math"
	"testing"
)

func TestNewBullet(t *testing.T) {
	em, _ := newTestManager(&mockBroadcaster{})
	b := NewBullet(em, Vector2{100, 100}, Vector2{2, 0})
	if b.Type() != EntityBullet {
		t.Errorf("expected bullet type, got %s", b.Type())
	}
	if got := b.Center(); got != (Vector2{100, 100}) {
		t.Errorf("bullet should start centred on the muzzle, got %+v", got)
	}
	v := b.Movable().Velocity()
	if math.Abs(v.X-BulletSpeed) > 0.001 || v.Y != 0 {
		t.Errorf("expected velocity (%.0f,0), got %+v", BulletSpeed, v)
	}
	if b.Expirable().Remaining() != BulletLifetime {
		t.Errorf("expected lifetime %.1f, got %.1f", BulletLifetime, b.Expirable().Remaining())
	}
}

func TestBulletHitsEnemy(t *testing.T) {
	br := &mockBroadcaster{}
	em, _ := newTestManager(br)
	zombie := NewEnemy(em, EntityZombie, Vector2{200, 100})
	em.AddEntity(zombie)
	bullet := NewBullet(em, Vector2{150, 108}, Vector2{1, 0})
	em.AddEntity(bullet)

	for i := 0; i < 10 && !bullet.MarkedForRemoval(); i++ {
		em.Update(testDT)
	}
	if got := zombie.Destructible().Health(); got != archetypes[EntityZombie].MaxHealth-BulletDamage {
		t.Errorf("expected zombie health %d, got %d", archetypes[EntityZombie].MaxHealth-BulletDamage, got)
	}
	if em.CountType(EntityBullet) != 0 {
		t.Error("bullet should be consumed by the hit")
	}
	if br.count(MsgZombieHurt) != 1 {
		t.Errorf("expected 1 zombieHurt, got %d", br.count(MsgZombieHurt))
	}
}

func TestBulletPassesPlayers(t *testing.T) {
	em, _ := newTestManager(&mockBroadcaster{})
	player := newTestPlayerAt("p1", Vector2{200, 100})
	em.AddEntity(player)
	em.AddEntity(NewBullet(em, Vector2{150, 108}, Vector2{1, 0}))

	for i := 0; i < 10; i++ {
		em.Update(testDT)
	}
	if player.Destructible().Health() != MaxPlayerHealth {
		t.Error("bullets should not hurt players")
	}
}

func TestBulletExpires(t *testing.T) {
	em, _ := newTestManager(&mockBroadcaster{})
	bullet := NewBullet(em, Vector2{20, 20}, Vector2{0, 1})
	bullet.Movable().SetVelocity(Vector2{})
	em.AddEntity(bullet)

	ticks := int(math.Ceil(BulletLifetime/testDT)) + 1
	for i := 0; i < ticks; i++ {
		em.Update(testDT)
	}
	if _, ok := em.EntityByID(bullet.ID()); ok {
		t.Error("bullet should expire after its lifetime")
	}
}

func TestBulletLeavesMap(t *testing.T) {
	em, _ := newTestManager(&mockBroadcaster{})
	bullet := NewBullet(em, Vector2{638, 100}, Vector2{1, 0})
	em.AddEntity(bullet)
	em.Update(testDT)
	if _, ok := em.EntityByID(bullet.ID()); ok {
		t.Error("bullet leaving the map should be removed")
	}
}

func TestAcidHitsPlayer(t *testing.T) {
	br := &mockBroadcaster{}
	em, _ := newTestManager(br)
	player := NewPlayer(em, Vector2{200, 100})
	em.AddEntity(player)
	em.AddEntity(NewAcidProjectile(em, Vector2{160, 108}, player.Center(), 2))

	for i := 0; i < 20 && em.CountType(EntityAcidProjectile) > 0; i++ {
		em.Update(testDT)
	}
	if got := player.Destructible().Health(); got != MaxPlayerHealth-2 {
		t.Errorf("expected player health %d, got %d", MaxPlayerHealth-2, got)
	}
	if br.count(MsgPlayerHurt) != 1 {
		t.Errorf("expected 1 playerHurt, got %d", br.count(MsgPlayerHurt))
	}
}

func TestAcidErodesWalls(t *testing.T) {
	em, _ := newTestManager(&mockBroadcaster{})
	wall := NewWall(em, Vector2{192, 100}, WallMaxHealth)
	em.AddEntity(wall)
	em.AddEntity(NewAcidProjectile(em, Vector2{160, 108}, Vector2{300, 108}, 2))

	for i := 0; i < 20 && em.CountType(EntityAcidProjectile) > 0; i++ {
		em.Update(testDT)
	}
	if got := wall.Destructible().Health(); got != WallMaxHealth-2 {
		t.Errorf("expected wall health %d, got %d", WallMaxHealth-2, got)
	}
	if em.CountType(EntityAcidProjectile) != 0 {
		t.Error("acid should splash against the wall")
	}
}

func TestBulletStopsAtTrees(t *testing.T) {
	em, _ := newTestManager(&mockBroadcaster{})
	em.AddEntity(NewTree(em, Vector2{192, 100}))
	zombie := NewEnemy(em, EntityZombie, Vector2{240, 100})
	em.AddEntity(zombie)
	em.AddEntity(NewBullet(em, Vector2{150, 108}, Vector2{1, 0}))

	for i := 0; i < 20; i++ {
		em.Update(testDT)
	}
	if zombie.Destructible().Health() != archetypes[EntityZombie].MaxHealth {
		t.Error("tree should stop the bullet before the zombie")
	}
}
