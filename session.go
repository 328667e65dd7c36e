package main

import "time"

// Sender delivers events to a single connection
type Sender interface {
	ID() string
	Send(evt GameEvent)
}

// Session ties one connection to its live player entity
type Session struct {
	Client   Sender
	Player   *Entity
	JoinedAt time.Time
}

// SessionRegistry maps connection ids to sessions. It is owned by Game and
// only touched while Game.mu is held.
type SessionRegistry struct {
	sessions map[string]*Session
	order    []string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Add registers a session, replacing any previous one for the same connection
func (r *SessionRegistry) Add(c Sender, player *Entity) *Session {
	s := &Session{Client: c, Player: player, JoinedAt: time.Now()}
	if _, exists := r.sessions[c.ID()]; !exists {
		r.order = append(r.order, c.ID())
	}
	r.sessions[c.ID()] = s
	return s
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

func (r *SessionRegistry) Remove(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return s, true
}

func (r *SessionRegistry) Len() int { return len(r.sessions) }

// All returns sessions in join order
func (r *SessionRegistry) All() []*Session {
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

// AllDead reports whether there is at least one session and none of them has a living player
func (r *SessionRegistry) AllDead() bool {
	if len(r.sessions) == 0 {
		return false
	}
	for _, s := range r.sessions {
		if s.Player.IsAlive() {
			return false
		}
	}
	return true
}
