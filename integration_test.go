package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// ---------- helpers ----------

const readTimeout = 3 * time.Second

// startTestServer spins up an httptest.Server with a running Hub and Game and
// returns the server and its WebSocket URL.
func startTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>test</html>"), 0o644)

	auth := NewAdminAuth(testHash(t, "hunter2"), "test-secret", false)
	hub := NewHub(auth, nil)
	game := NewGame(hub, GameOptions{Seed: 1})
	hub.SetGame(game)
	go hub.Run()
	go game.Run()

	srv := httptest.NewServer(SetupRoutes(hub, tmpDir, "http://example.test"))
	t.Cleanup(func() {
		game.Stop()
		srv.Close()
	})

	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEnvelope reads one message. Binary frames are msgpack game states and are
// re-encoded as JSON so callers handle both encodings the same way.
func readEnvelope(t *testing.T, conn *websocket.Conn) InEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType == websocket.BinaryMessage {
		var gs GameStateDTO
		if err := decodeMsgpack(raw, &gs); err != nil {
			t.Fatalf("msgpack decode: %v", err)
		}
		d, _ := json.Marshal(gs)
		return InEnvelope{T: MsgGameState, D: d}
	}
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

// readUntil skips messages until one of type typ arrives
func readUntil(t *testing.T, conn *websocket.Conn, typ string) InEnvelope {
	t.Helper()
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		if env := readEnvelope(t, conn); env.T == typ {
			return env
		}
	}
	t.Fatalf("no %s message within %v", typ, readTimeout)
	return InEnvelope{}
}

// readStateUntil reads game states until match accepts one
func readStateUntil(t *testing.T, conn *websocket.Conn, match func(GameStateDTO) bool) GameStateDTO {
	t.Helper()
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		env := readUntil(t, conn, MsgGameState)
		var gs GameStateDTO
		if err := json.Unmarshal(env.D, &gs); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if match(gs) {
			return gs
		}
	}
	t.Fatal("no matching game state")
	return GameStateDTO{}
}

func sendMsg(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	raw, err := json.Marshal(Envelope{T: typ, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

func joinAndReadID(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	var id string
	if err := json.Unmarshal(readUntil(t, conn, MsgYourID).D, &id); err != nil {
		t.Fatalf("decode yourId: %v", err)
	}
	if id == "" {
		t.Fatal("expected a player id")
	}
	return id
}

func findEntity(gs GameStateDTO, id string) (EntityDTO, bool) {
	for _, e := range gs.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityDTO{}, false
}

func readErrorMsg(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	var msg ErrorMsg
	if err := json.Unmarshal(readUntil(t, conn, MsgError).D, &msg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return msg.Msg
}

// ---------- tests ----------

func TestIntegrationJoinReceivesMapAndState(t *testing.T) {
	_, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)

	var tiles [][]int
	if err := json.Unmarshal(readUntil(t, conn, MsgMap).D, &tiles); err != nil {
		t.Fatalf("decode map: %v", err)
	}
	if len(tiles) != MapSize*BiomeSize {
		t.Errorf("expected %d map rows, got %d", MapSize*BiomeSize, len(tiles))
	}

	id := joinAndReadID(t, conn)
	gs := readStateUntil(t, conn, func(gs GameStateDTO) bool {
		_, ok := findEntity(gs, id)
		return ok
	})
	p, _ := findEntity(gs, id)
	if p.Type != EntityPlayer {
		t.Errorf("expected player type, got %s", p.Type)
	}
	if p.Health == nil || *p.Health != MaxPlayerHealth {
		t.Errorf("expected full health, got %v", p.Health)
	}
	if !gs.IsDay || gs.DayNumber != 1 {
		t.Errorf("expected the first day, got day %d isDay %v", gs.DayNumber, gs.IsDay)
	}
}

func TestIntegrationBinaryState(t *testing.T) {
	_, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL+"?encoding=msgpack")

	id := joinAndReadID(t, conn)
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		var gs GameStateDTO
		if err := decodeMsgpack(raw, &gs); err != nil {
			t.Fatalf("msgpack decode: %v", err)
		}
		if _, ok := findEntity(gs, id); ok {
			return
		}
	}
	t.Fatal("no binary state containing our player")
}

func TestIntegrationSecondPlayerAndLeave(t *testing.T) {
	_, wsURL := startTestServer(t)
	c1 := dialWS(t, wsURL)
	id1 := joinAndReadID(t, c1)

	c2 := dialWS(t, wsURL)
	id2 := joinAndReadID(t, c2)
	if id1 == id2 {
		t.Fatal("players must have distinct ids")
	}

	readStateUntil(t, c1, func(gs GameStateDTO) bool {
		_, a := findEntity(gs, id1)
		_, b := findEntity(gs, id2)
		return a && b
	})

	c2.Close()

	var left playerPayload
	if err := json.Unmarshal(readUntil(t, c1, MsgPlayerLeft).D, &left); err != nil {
		t.Fatal(err)
	}
	if left.PlayerID != id2 {
		t.Errorf("expected %s to leave, got %s", id2, left.PlayerID)
	}
	readStateUntil(t, c1, func(gs GameStateDTO) bool {
		_, gone := findEntity(gs, id2)
		return !gone
	})
}

func TestIntegrationCraftRejected(t *testing.T) {
	_, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	joinAndReadID(t, conn)

	sendMsg(t, conn, MsgCraftRequest, "bandage")
	if msg := readErrorMsg(t, conn); !strings.Contains(msg, ErrMissingIngredients.Error()) {
		t.Errorf("expected missing ingredients, got %q", msg)
	}
	sendMsg(t, conn, MsgCraftRequest, "rocket")
	if msg := readErrorMsg(t, conn); !strings.Contains(msg, ErrUnknownRecipe.Error()) {
		t.Errorf("expected unknown recipe, got %q", msg)
	}
}

func TestIntegrationAdminFlow(t *testing.T) {
	_, wsURL := startTestServer(t)
	conn := dialWS(t, wsURL)
	joinAndReadID(t, conn)

	sendMsg(t, conn, MsgAdminCommand, AdminCommandMsg{Command: CmdNextCycle})
	if msg := readErrorMsg(t, conn); !strings.Contains(msg, ErrUnauthorized.Error()) {
		t.Errorf("expected unauthorized, got %q", msg)
	}

	sendMsg(t, conn, MsgAdminLogin, AdminLoginMsg{Password: "nope"})
	if msg := readErrorMsg(t, conn); !strings.Contains(msg, ErrInvalidPassword.Error()) {
		t.Errorf("expected invalid password, got %q", msg)
	}

	sendMsg(t, conn, MsgAdminLogin, AdminLoginMsg{Password: "hunter2"})
	var tok AdminTokenMsg
	if err := json.Unmarshal(readUntil(t, conn, MsgAdminToken).D, &tok); err != nil {
		t.Fatal(err)
	}
	if tok.Token == "" {
		t.Fatal("expected a token")
	}

	sendMsg(t, conn, MsgAdminCommand, AdminCommandMsg{Command: CmdNextCycle})
	readStateUntil(t, conn, func(gs GameStateDTO) bool { return !gs.IsDay })
}

func TestIntegrationHTTPEndpoints(t *testing.T) {
	srv, wsURL := startTestServer(t)

	get := func(path string) (*http.Response, []byte) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, body
	}

	if _, body := get("/healthz"); string(body) != "ok" {
		t.Errorf("expected ok, got %q", body)
	}
	if resp, body := get("/"); resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("test")) {
		t.Errorf("expected index page, got %d %q", resp.StatusCode, body)
	}
	if _, body := get("/protocol.json"); !bytes.Contains(body, []byte(MsgPlayerInput)) {
		t.Error("protocol schema should describe playerInput")
	}
	resp, body := get("/join.png")
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("expected a PNG body")
	}

	conn := dialWS(t, wsURL)
	joinAndReadID(t, conn)

	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		_, body := get("/stats")
		var stats StatsResponse
		if err := json.Unmarshal(body, &stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.Live.Players == 1 && stats.Connections == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("stats never reported the connected player")
}

func TestIntegrationConnectionLimit(t *testing.T) {
	srv, wsURL := startTestServer(t)
	for i := 0; i < maxConnsPerIP; i++ {
		dialWS(t, wsURL)
	}
	// connections are counted after the upgrade completes
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/stats")
		if err != nil {
			t.Fatal(err)
		}
		var stats StatsResponse
		json.NewDecoder(resp.Body).Decode(&stats)
		resp.Body.Close()
		if stats.Connections == maxConnsPerIP {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected the extra connection to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", resp)
	}
}

func TestIntegrationBot(t *testing.T) {
	_, wsURL := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	bot, err := DialBot(ctx, wsURL, 7)
	if err != nil {
		t.Fatalf("dial bot: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	for ctx.Err() == nil {
		w := bot.World()
		if _, ok := w.Self(); ok && len(w.Map()) > 0 {
			cancel()
			<-done
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	<-done
	t.Fatal("bot never saw itself in the world")
}
