package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	botThinkInterval = 250 * time.Millisecond
	botFireRange     = 120.0
	botWanderTurn    = 0.1 // chance per think to pick a new wander direction
)

// Bot is a headless player. It connects like a browser would, mirrors the world
// through a ShadowWorld and sends input from what it sees.
type Bot struct {
	conn   *websocket.Conn
	world  *ShadowWorld
	rng    *rand.Rand
	wander Vector2
	log    *logrus.Entry
}

// DialBot connects a bot to a /ws endpoint
func DialBot(ctx context.Context, wsURL string, seed int64) (*Bot, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}
	return &Bot{
		conn:  conn,
		world: NewShadowWorld(),
		rng:   rand.New(rand.NewSource(seed)),
		log:   logger.WithField("bot", seed),
	}, nil
}

func (b *Bot) World() *ShadowWorld { return b.world }

// Run reads server events and sends input until ctx is done or the connection drops
func (b *Bot) Run(ctx context.Context) error {
	readErr := make(chan error, 1)
	go func() { readErr <- b.readLoop() }()

	ticker := time.NewTicker(botThinkInterval)
	defer ticker.Stop()
	defer b.conn.Close()

	for {
		select {
		case <-ctx.Done():
			b.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return ctx.Err()
		case err := <-readErr:
			return err
		case <-ticker.C:
			if err := b.think(); err != nil {
				return err
			}
		}
	}
}

func (b *Bot) readLoop() error {
	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, websocket.ErrCloseSent) {
				return nil
			}
			return fmt.Errorf("bot read: %w", err)
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			b.log.WithError(err).Warn("bad server frame")
			continue
		}
		if err := b.world.HandleEnvelope(env.T, env.D); err != nil {
			b.log.WithError(err).Warn("bad server event")
		}
	}
}

// think picks input: shoot at the closest enemy in range, otherwise wander
func (b *Bot) think() error {
	self, ok := b.world.Self()
	if !ok || self.Health <= 0 {
		return nil
	}
	in := PlayerInput{Harvest: true}
	if target, found := b.world.Nearest(self.Position(), EntityType.IsEnemy); found &&
		self.Position().DistanceTo(target) <= botFireRange {
		dir := target.Sub(self.Position()).Normalize()
		in.DX, in.DY, in.Fire = dir.X, dir.Y, true
	} else {
		if b.wander.IsZero() || b.rng.Float64() < botWanderTurn {
			b.wander = Vector2{X: 1}.Rotate(b.rng.Float64() * 2 * math.Pi)
		}
		in.DX, in.DY = b.wander.X, b.wander.Y
	}
	return b.send(MsgPlayerInput, in)
}

func (b *Bot) send(t string, payload any) error {
	raw, err := json.Marshal(Envelope{T: t, Data: payload})
	if err != nil {
		return err
	}
	b.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return b.conn.WriteMessage(websocket.TextMessage, raw)
}
