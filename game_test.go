package main

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
)

// mockBroadcaster captures broadcast events for testing
type mockBroadcaster struct {
	mu     sync.Mutex
	events []GameEvent
}

func (m *mockBroadcaster) Broadcast(evt GameEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func (m *mockBroadcaster) count(typ string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, evt := range m.events {
		if evt.Type() == typ {
			n++
		}
	}
	return n
}

func (m *mockBroadcaster) last(typ string) (GameEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].Type() == typ {
			return m.events[i], true
		}
	}
	return nil, false
}

// mockSender captures events sent to one connection
type mockSender struct {
	id     string
	mu     sync.Mutex
	events []GameEvent
}

func (s *mockSender) ID() string { return s.id }

func (s *mockSender) Send(evt GameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

// lastID returns the most recent player id the connection was told about
func (s *mockSender) lastID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if e, ok := s.events[i].(YourIDEvent); ok {
			return e.ID
		}
	}
	return ""
}

func newTestManager(b Broadcaster) (*EntityManager, *SimClock) {
	clock := &SimClock{}
	em := NewEntityManager(b, clock, rand.New(rand.NewSource(1)))
	em.SetMapSize(640, 640)
	return em, clock
}

func newTestGame() (*Game, *mockBroadcaster) {
	b := &mockBroadcaster{}
	return NewGame(b, GameOptions{Seed: 1}), b
}

// clearAround removes everything but players near pos
func clearAround(em *EntityManager, pos Vector2, radius float64) {
	for _, e := range em.NearbyEntities(pos, radius) {
		if e.Type() != EntityPlayer {
			em.MarkEntityForRemoval(e)
		}
	}
	em.Sweep()
}

func TestGameJoinSendsMapAndID(t *testing.T) {
	g, b := newTestGame()
	s := &mockSender{id: "c1"}
	pid := g.Join(s)

	if len(s.events) != 2 {
		t.Fatalf("expected 2 events for the joining client, got %d", len(s.events))
	}
	m, ok := s.events[0].(MapEvent)
	if !ok {
		t.Fatalf("expected map first, got %s", s.events[0].Type())
	}
	if len(m.Tiles) != BiomeSize*MapSize {
		t.Errorf("expected %d map rows, got %d", BiomeSize*MapSize, len(m.Tiles))
	}
	if s.lastID() != pid {
		t.Errorf("expected yourId %s, got %s", pid, s.lastID())
	}
	if _, ok := g.em.EntityByID(pid); !ok {
		t.Error("player entity should exist after join")
	}
	if b.count(MsgGameStarted) != 1 {
		t.Errorf("expected 1 gameStarted, got %d", b.count(MsgGameStarted))
	}
	if b.count(MsgPlayerJoined) != 1 {
		t.Errorf("expected 1 playerJoined, got %d", b.count(MsgPlayerJoined))
	}
}

func TestGameSecondJoinKeepsWorld(t *testing.T) {
	g, b := newTestGame()
	g.Join(&mockSender{id: "c1"})
	before := g.em.Count()

	g.Join(&mockSender{id: "c2"})
	if b.count(MsgGameStarted) != 1 {
		t.Errorf("second join should not start a new game, got %d starts", b.count(MsgGameStarted))
	}
	if g.em.Count() != before+1 {
		t.Errorf("expected %d entities, got %d", before+1, g.em.Count())
	}
	if len(g.em.PlayerEntities()) != 2 {
		t.Errorf("expected 2 players, got %d", len(g.em.PlayerEntities()))
	}
}

func TestGameLeaveRegeneratesWhenEmpty(t *testing.T) {
	g, b := newTestGame()
	pid := g.Join(&mockSender{id: "c1"})

	g.Leave("c1")
	if _, ok := g.em.EntityByID(pid); ok {
		t.Error("player should be gone once the world regenerates")
	}
	if b.count(MsgPlayerLeft) != 1 {
		t.Errorf("expected 1 playerLeft, got %d", b.count(MsgPlayerLeft))
	}
	if g.sessions.Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", g.sessions.Len())
	}
	if len(g.maps.Map()) == 0 {
		t.Error("map should be regenerated")
	}
}

func TestGameLeaveWithOthersRemaining(t *testing.T) {
	g, _ := newTestGame()
	p1 := g.Join(&mockSender{id: "c1"})
	p2 := g.Join(&mockSender{id: "c2"})

	g.Leave("c1")
	e, ok := g.em.EntityByID(p1)
	if !ok {
		t.Fatal("leaving player should stay retrievable until the next sweep")
	}
	if !e.MarkedForRemoval() {
		t.Error("leaving player should be marked for removal")
	}

	g.update()
	if _, ok := g.em.EntityByID(p1); ok {
		t.Error("leaving player should be removed after a tick")
	}
	if _, ok := g.em.EntityByID(p2); !ok {
		t.Error("remaining player should still exist")
	}
}

func TestGameLeaveUnknownClient(t *testing.T) {
	g, b := newTestGame()
	g.Join(&mockSender{id: "c1"})
	g.Leave("nobody")
	if b.count(MsgPlayerLeft) != 0 {
		t.Error("unknown client should not produce playerLeft")
	}
	if g.sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", g.sessions.Len())
	}
}

func TestGameHandleInputMovesPlayer(t *testing.T) {
	g, _ := newTestGame()
	pid := g.Join(&mockSender{id: "c1"})
	p, _ := g.em.EntityByID(pid)
	clearAround(g.em, p.Center(), 64)
	start := p.Positionable().Position()

	g.HandleInput("c1", PlayerInput{DX: 1})
	g.update()

	got := p.Positionable().Position()
	if got.X <= start.X {
		t.Errorf("expected player to move right from %.1f, got %.1f", start.X, got.X)
	}
	if got.Y != start.Y {
		t.Errorf("expected Y unchanged at %.1f, got %.1f", start.Y, got.Y)
	}
}

func TestGameBroadcastsState(t *testing.T) {
	g, b := newTestGame()
	pid := g.Join(&mockSender{id: "c1"})
	g.update()

	evt, ok := b.last(MsgGameState)
	if !ok {
		t.Fatal("expected a gameState broadcast")
	}
	state := evt.(GameStateEvent).State
	if state.Tick != 1 {
		t.Errorf("expected tick 1, got %d", state.Tick)
	}
	if state.DayNumber != 1 || !state.IsDay {
		t.Errorf("expected day 1 daytime, got day %d isDay=%v", state.DayNumber, state.IsDay)
	}
	if state.CycleDuration != DayDuration {
		t.Errorf("expected cycle duration %.0f, got %.0f", DayDuration, state.CycleDuration)
	}
	found := false
	for _, dto := range state.Entities {
		if dto.ID == pid {
			found = true
			if dto.Health == nil || *dto.Health != MaxPlayerHealth {
				t.Errorf("expected player health %d in state", MaxPlayerHealth)
			}
		}
		if dto.Type == EntityBoundary && dto.Velocity != nil {
			t.Error("boundaries should not carry velocity")
		}
	}
	if !found {
		t.Error("player should appear in gameState")
	}
}

func TestGameOverRestartsWhenAllDead(t *testing.T) {
	g, b := newTestGame()
	s := &mockSender{id: "c1"}
	pid := g.Join(s)
	p, _ := g.em.EntityByID(pid)

	p.Destructible().Damage(MaxPlayerHealth)
	if b.count(MsgPlayerDeath) != 1 {
		t.Fatalf("expected 1 playerDeath, got %d", b.count(MsgPlayerDeath))
	}

	g.update()
	if b.count(MsgGameOver) != 1 {
		t.Fatalf("expected 1 gameOver, got %d", b.count(MsgGameOver))
	}
	if b.count(MsgGameStarted) != 2 {
		t.Errorf("expected a second gameStarted, got %d", b.count(MsgGameStarted))
	}
	newID := s.lastID()
	if newID == "" || newID == pid {
		t.Fatalf("expected a fresh player id, got %q", newID)
	}
	np, ok := g.em.EntityByID(newID)
	if !ok || !np.IsAlive() {
		t.Error("respawned player should be alive")
	}
	if g.sessions.AllDead() {
		t.Error("sessions should not be all dead after restart")
	}
}

func TestGameOneDeadPlayerIsNotGameOver(t *testing.T) {
	g, b := newTestGame()
	p1 := g.Join(&mockSender{id: "c1"})
	g.Join(&mockSender{id: "c2"})
	e, _ := g.em.EntityByID(p1)
	e.Destructible().Damage(MaxPlayerHealth)

	g.update()
	if b.count(MsgGameOver) != 0 {
		t.Error("game should continue while a player is alive")
	}
	if _, ok := g.em.EntityByID(p1); !ok {
		t.Error("dead players stay in the world")
	}
}

func TestGameCraft(t *testing.T) {
	g, _ := newTestGame()
	pid := g.Join(&mockSender{id: "c1"})
	p, _ := g.em.EntityByID(pid)
	for i := 0; i < 3; i++ {
		p.Inventory().AddItem(InventoryItem{Key: ItemWood})
	}

	if err := g.Craft("c1", "wall"); err != nil {
		t.Fatalf("craft wall: %v", err)
	}
	if p.Inventory().Count(ItemWall) != 1 || p.Inventory().Count(ItemWood) != 0 {
		t.Errorf("expected wood turned into a wall, got %+v", p.Inventory().Items())
	}
	if err := g.Craft("c1", "nope"); !errors.Is(err, ErrUnknownRecipe) {
		t.Errorf("expected ErrUnknownRecipe, got %v", err)
	}
	if err := g.Craft("c1", "wall"); !errors.Is(err, ErrMissingIngredients) {
		t.Errorf("expected ErrMissingIngredients, got %v", err)
	}
}

func TestGameSetCrafting(t *testing.T) {
	g, _ := newTestGame()
	pid := g.Join(&mockSender{id: "c1"})
	p, _ := g.em.EntityByID(pid)

	g.HandleInput("c1", PlayerInput{DX: 1})
	g.SetCrafting("c1", true)
	if !Controller(p).IsCrafting() {
		t.Error("expected crafting state")
	}
	if !p.Movable().Velocity().IsZero() {
		t.Error("crafting players should not move")
	}
	g.SetCrafting("c1", false)
	if p.Movable().Velocity().X != PlayerSpeed {
		t.Errorf("expected held input to resume at %.0f, got %.1f", PlayerSpeed, p.Movable().Velocity().X)
	}
}

func TestGameAdminRegenerateRespawns(t *testing.T) {
	g, _ := newTestGame()
	s := &mockSender{id: "c1"}
	pid := g.Join(s)

	if err := g.HandleAdminCommand(AdminCommandMsg{Command: CmdRegenerate}); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if s.lastID() == pid {
		t.Error("regenerate should respawn the player with a new id")
	}
	if g.sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", g.sessions.Len())
	}
}

func TestGameMetrics(t *testing.T) {
	g, _ := newTestGame()
	g.Join(&mockSender{id: "c1"})
	g.update()

	m := g.Metrics()
	if m.Players != 1 {
		t.Errorf("expected 1 player, got %d", m.Players)
	}
	if m.Tick != 1 {
		t.Errorf("expected tick 1, got %d", m.Tick)
	}
	if m.Entities != g.em.Count() {
		t.Errorf("expected %d entities, got %d", g.em.Count(), m.Entities)
	}
	if m.DayNumber != 1 || !m.IsDay {
		t.Errorf("expected day 1, got %d (isDay=%v)", m.DayNumber, m.IsDay)
	}
}
