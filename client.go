package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection
type Client struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	binary     bool // gameState frames as msgpack
	msgCount   int
	msgResetAt time.Time
	adminToken string
	log        *logrus.Entry
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, binary bool) *Client {
	id := GenerateID()
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
		binary:     binary,
		log:        logger.WithFields(logrus.Fields{"client": id, "addr": remoteAddr}),
	}
}

func (c *Client) ID() string { return c.id }

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("ws error")
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn("rate limit exceeded, disconnecting")
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send delivers one event to this client only
func (c *Client) Send(evt GameEvent) {
	c.SendJSON(toEnvelope(evt))
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.WithError(err).Error("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.WithError(err).Warn("unmarshal error")
		return
	}

	switch env.T {
	case MsgPlayerInput:
		c.handleInput(env.D)
	case MsgCraftRequest:
		c.handleCraft(env.D)
	case MsgStartCrafting:
		c.hub.Game().SetCrafting(c.id, true)
	case MsgStopCrafting:
		c.hub.Game().SetCrafting(c.id, false)
	case MsgAdminLogin:
		c.handleAdminLogin(env.D)
	case MsgAdminCommand:
		c.handleAdminCommand(env.D)
	default:
		c.log.WithField("event", env.T).Warn("unknown client event")
	}
}

func (c *Client) handleInput(data json.RawMessage) {
	var input PlayerInput
	if err := json.Unmarshal(data, &input); err != nil {
		c.log.WithError(err).Warn("bad player input")
		return
	}
	c.hub.Game().HandleInput(c.id, input)
}

func (c *Client) handleCraft(data json.RawMessage) {
	var recipe string
	if err := json.Unmarshal(data, &recipe); err != nil {
		c.log.WithError(err).Warn("bad craft request")
		return
	}
	if err := c.hub.Game().Craft(c.id, recipe); err != nil {
		c.log.WithError(err).Debug("craft rejected")
		c.sendError(err.Error())
	}
}

func (c *Client) handleAdminLogin(data json.RawMessage) {
	var msg AdminLoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	token, err := c.hub.Auth().Login(msg.Password, c.remoteAddr)
	if err != nil {
		c.log.WithError(err).Warn("admin login failed")
		c.sendError(err.Error())
		return
	}
	c.adminToken = token
	c.SendJSON(Envelope{T: MsgAdminToken, Data: AdminTokenMsg{Token: token}})
}

func (c *Client) handleAdminCommand(data json.RawMessage) {
	var cmd AdminCommandMsg
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.log.WithError(err).Warn("bad admin command")
		return
	}
	token := cmd.Token
	if token == "" {
		token = c.adminToken
	}
	if err := c.hub.Auth().Authorize(token); err != nil {
		c.log.WithField("command", cmd.Command).Warn("admin command rejected")
		c.sendError(err.Error())
		return
	}
	if err := c.hub.Game().HandleAdminCommand(cmd); err != nil {
		c.log.WithError(err).WithField("command", cmd.Command).Warn("admin command failed")
		c.sendError(err.Error())
		return
	}
	c.log.WithField("command", cmd.Command).Info("admin command")
}
