package main

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"
)

// Event types for run telemetry
const (
	EvtGameStart   = "game_start"
	EvtGameOver    = "game_over"
	EvtPlayerJoin  = "player_join"
	EvtPlayerLeave = "player_leave"
	EvtPlayerDeath = "player_death"
	EvtZombieKill  = "zombie_kill"
	EvtCraft       = "craft"
	EvtNightStart  = "night_start"
)

const (
	analyticsBufSize    = 1024
	analyticsBatchSize  = 50
	analyticsFlushEvery = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	RunID     string
	PlayerID  string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// LiveMetrics is the in-memory view of the running world
type LiveMetrics struct {
	Players   int    `json:"players"`
	Entities  int    `json:"entities"`
	DayNumber int    `json:"dayNumber"`
	IsDay     bool   `json:"isDay"`
	Tick      uint64 `json:"tick"`
}

// Analytics handles event tracking with batched background writes.
// A nil *Analytics is valid and drops everything.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu   sync.RWMutex
	live LiveMetrics
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsBufSize),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType, runID, playerID, data string) {
	if a == nil {
		return
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		RunID:     runID,
		PlayerID:  playerID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full, drop rather than block the tick
	}
}

// SetLive replaces the live metrics snapshot
func (a *Analytics) SetLive(m LiveMetrics) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.live = m
	a.mu.Unlock()
}

func (a *Analytics) Live() LiveMetrics {
	if a == nil {
		return LiveMetrics{}
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Stop drains queued events and shuts down the writer
func (a *Analytics) Stop() {
	if a == nil {
		return
	}
	close(a.stop)
	a.wg.Wait()
}

func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(analyticsFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatchSize {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
		drain:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events in one transaction
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		logger.WithError(err).Error("analytics: begin tx")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(a.db.rebind(`INSERT INTO analytics_events (event_type, run_id, player_id, data, created_at) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		logger.WithError(err).Error("analytics: prepare")
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullString{String: evt.PlayerID, Valid: evt.PlayerID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, evt.RunID, pid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			logger.WithError(err).WithField("event", evt.Type).Error("analytics: insert")
		}
	}
	if err := tx.Commit(); err != nil {
		logger.WithError(err).Error("analytics: commit")
	}
}

// --- Query methods for the API ---

// EventCounts returns counts of each event type since the given time
func (a *Analytics) EventCounts(since time.Time) (map[string]int, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(a.db.rebind(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= ?
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`), since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// RunSummary describes one finished run
type RunSummary struct {
	RunID   string `json:"runId"`
	Days    int    `json:"days"`
	EndedAt string `json:"endedAt"`
}

type gameOverData struct {
	Days int `json:"days"`
}

// RecentRuns returns the latest finished runs, newest first
func (a *Analytics) RecentRuns(limit int) ([]RunSummary, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(a.db.rebind(`
		SELECT run_id, COALESCE(data, ''), created_at FROM analytics_events
		WHERE event_type = ?
		ORDER BY created_at DESC LIMIT ?
	`), EvtGameOver, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunSummary
	for rows.Next() {
		var rs RunSummary
		var data string
		if err := rows.Scan(&rs.RunID, &data, &rs.EndedAt); err != nil {
			continue
		}
		var d gameOverData
		if json.Unmarshal([]byte(data), &d) == nil {
			rs.Days = d.Days
		}
		result = append(result, rs)
	}
	return result, rows.Err()
}
