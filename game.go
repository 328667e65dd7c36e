package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	TickRate       = 30 // simulation ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// GameOptions configures a Game
type GameOptions struct {
	Seed        int64
	DebugEvents bool
	Analytics   *Analytics // optional
}

// Game is the single authoritative world. mu is held for a whole tick and by
// every connection callback, so callbacks only ever run between ticks.
type Game struct {
	mu        sync.RWMutex
	out       Broadcaster
	clock     *SimClock
	em        *EntityManager
	maps      *MapManager
	cycle     *DayCycle
	commands  *CommandManager
	sessions  *SessionRegistry
	analytics *Analytics
	debug     bool
	runID     string
	tick      uint64
	running   bool
	stop      chan struct{}
}

// NewGame wires the managers. Events leave through out.
func NewGame(out Broadcaster, opts GameOptions) *Game {
	g := &Game{
		out:       out,
		clock:     &SimClock{},
		sessions:  NewSessionRegistry(),
		analytics: opts.Analytics,
		debug:     opts.DebugEvents,
		stop:      make(chan struct{}),
	}
	g.em = NewEntityManager(g, g.clock, rand.New(rand.NewSource(opts.Seed)))
	g.maps = NewMapManager(g.em)
	g.cycle = NewDayCycle(g.clock, g.onNightStart)
	g.commands = NewCommandManager(g.em, g.cycle, g.restart)
	return g
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// Broadcast implements Broadcaster for the managers: it logs and records the event
// and forwards it to the connections.
func (g *Game) Broadcast(evt GameEvent) {
	if g.debug && evt.Type() != MsgGameState {
		logger.WithField("event", evt.Type()).Info("broadcasting event")
	}
	g.track(evt)
	g.out.Broadcast(evt)
}

func (g *Game) track(evt GameEvent) {
	switch e := evt.(type) {
	case PlayerDeathEvent:
		g.analytics.Track(EvtPlayerDeath, g.runID, e.PlayerID, "")
	case ZombieDeathEvent:
		g.analytics.Track(EvtZombieKill, g.runID, "", "")
	case GameStartedEvent:
		g.analytics.Track(EvtGameStart, g.runID, "", "")
	case GameOverEvent:
		g.analytics.Track(EvtGameOver, g.runID, "", fmt.Sprintf(`{"days":%d}`, e.DayNumber))
	}
}

// Join creates a player for a new connection, starting a new game if the world has
// no players. The connection receives the map and its entity id.
func (g *Game) Join(c Sender) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.em.PlayerEntities()) == 0 {
		g.startNewGame()
	}
	p := g.spawnPlayer(c)
	g.Broadcast(PlayerJoinedEvent{PlayerID: p.ID()})
	g.analytics.Track(EvtPlayerJoin, g.runID, p.ID(), "")
	logger.WithFields(logrus.Fields{"client": c.ID(), "player": p.ID()}).Info("player joined")
	return p.ID()
}

func (g *Game) spawnPlayer(c Sender) *Entity {
	p := NewPlayer(g.em, g.maps.Center())
	g.em.AddEntity(p)
	g.sessions.Add(c, p)
	c.Send(MapEvent{Tiles: g.maps.Map()})
	c.Send(YourIDEvent{ID: p.ID()})
	return p
}

// Leave removes a connection's player. The world regenerates once nobody is left.
func (g *Game) Leave(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions.Remove(clientID)
	if !ok {
		return
	}
	g.em.MarkEntityForRemoval(s.Player)
	g.Broadcast(PlayerLeftEvent{PlayerID: s.Player.ID()})
	g.analytics.Track(EvtPlayerLeave, g.runID, s.Player.ID(), "")
	logger.WithFields(logrus.Fields{"client": clientID, "player": s.Player.ID()}).Info("player left")

	if g.sessions.Len() == 0 {
		g.maps.GenerateMap()
	}
}

// HandleInput applies a connection's latest input to its player
func (g *Game) HandleInput(clientID string, in PlayerInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions.Get(clientID)
	if !ok {
		return
	}
	Controller(s.Player).SetInput(in)
}

// Craft crafts a recipe for a connection's player
func (g *Game) Craft(clientID, recipeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions.Get(clientID)
	if !ok {
		return nil
	}
	if err := Controller(s.Player).Craft(recipeID); err != nil {
		return fmt.Errorf("craft %q: %w", recipeID, err)
	}
	g.analytics.Track(EvtCraft, g.runID, s.Player.ID(), fmt.Sprintf(`{"recipe":%q}`, recipeID))
	return nil
}

// SetCrafting opens or closes a player's crafting menu
func (g *Game) SetCrafting(clientID string, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions.Get(clientID); ok {
		Controller(s.Player).SetCrafting(on)
	}
}

// HandleAdminCommand runs an already authorised admin command
func (g *Game) HandleAdminCommand(cmd AdminCommandMsg) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.commands.Handle(cmd)
}

// Metrics returns live counters for /stats
func (g *Game) Metrics() LiveMetrics {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.metrics()
}

func (g *Game) metrics() LiveMetrics {
	return LiveMetrics{
		Players:   g.sessions.Len(),
		Entities:  g.em.Count(),
		DayNumber: g.cycle.DayNumber(),
		IsDay:     g.cycle.IsDay(),
		Tick:      g.tick,
	}
}

// startNewGame rebuilds the world and resets the day cycle
func (g *Game) startNewGame() {
	g.runID = GenerateID()
	g.maps.GenerateMap()
	g.cycle.Reset()
	g.Broadcast(GameStartedEvent{DayNumber: g.cycle.DayNumber()})
	logger.WithField("run", g.runID).Info("new game started")
}

// restart starts a new game and respawns every connected player into it
func (g *Game) restart() {
	g.startNewGame()
	for _, s := range g.sessions.All() {
		g.spawnPlayer(s.Client)
	}
}

func (g *Game) onNightStart(day int) {
	n := g.maps.SpawnZombies(day)
	g.analytics.Track(EvtNightStart, g.runID, "", fmt.Sprintf(`{"day":%d,"spawned":%d}`, day, n))
	logger.WithFields(logrus.Fields{"day": day, "spawned": n}).Info("night falls")
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	g.tick++
	g.clock.Advance(dt)

	g.em.Update(dt)
	g.cycle.Update()

	if g.sessions.AllDead() {
		day := g.cycle.DayNumber()
		g.Broadcast(GameOverEvent{DayNumber: day})
		logger.WithFields(logrus.Fields{"run": g.runID, "day": day}).Info("game over")
		g.restart()
	}

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
	g.analytics.SetLive(g.metrics())
}

// broadcastState sends the current world snapshot to all clients
func (g *Game) broadcastState() {
	g.Broadcast(GameStateEvent{State: GameStateDTO{
		Entities:       g.em.Snapshot(),
		DayNumber:      g.cycle.DayNumber(),
		IsDay:          g.cycle.IsDay(),
		CycleStartTime: g.cycle.StartTime(),
		CycleDuration:  g.cycle.Duration(),
		Tick:           g.tick,
	}})
}
