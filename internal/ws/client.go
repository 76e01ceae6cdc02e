package ws

import (
	"encoding/json"
	"sync"
	"time"

	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const maxFrameSize = 4096

type ClientOptions struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PongTimeout  time.Duration
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = 60 * time.Second
	}
	return o
}

// Client is one live connection. userID is uuid.Nil and role empty for
// anonymous clients.
type Client struct {
	id     string
	userID uuid.UUID
	role   user.Role

	registry *Registry
	conn     *websocket.Conn
	opts     ClientOptions
	logger   logrus.FieldLogger

	sendMu sync.Mutex
	send   chan []byte
	done   bool

	// guarded by registry.mu
	channels map[string]struct{}
}

func NewClient(registry *Registry, conn *websocket.Conn, userID uuid.UUID, role user.Role, opts ClientOptions) *Client {
	opts = opts.withDefaults()
	id := uuid.NewString()
	return &Client{
		id:       id,
		userID:   userID,
		role:     role,
		registry: registry,
		conn:     conn,
		opts:     opts,
		logger:   registry.logger.WithField("client_id", id),
		send:     make(chan []byte, opts.SendBuffer),
		channels: make(map[string]struct{}),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) UserID() uuid.UUID { return c.userID }

func (c *Client) Role() user.Role { return c.role }

func (c *Client) Authenticated() bool { return c.userID != uuid.Nil }

// Send exposes the outbound queue; it is closed on disconnect.
func (c *Client) Send() <-chan []byte { return c.send }

func (c *Client) enqueue(frame []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.done {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.done {
		c.done = true
		close(c.send)
	}
}

type clientFrame struct {
	Action string `json:"action"`
	JobID  string `json:"job_id"`
}

const (
	actionJoinJob  = "join_job"
	actionLeaveJob = "leave_job"
	actionPing     = "ping"
)

// handleFrame applies one client request and returns the reply to queue.
func (c *Client) handleFrame(raw []byte) Envelope {
	var f clientFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return errorEnvelope("malformed frame")
	}

	switch f.Action {
	case actionPing:
		return Envelope{Type: "pong"}
	case actionJoinJob, actionLeaveJob:
		jobID, err := uuid.Parse(f.JobID)
		if err != nil {
			return errorEnvelope("invalid job_id")
		}
		channel := JobChannel(jobID)
		// Job channels carry applicant details.
		if f.Action == actionJoinJob && !c.role.Staff() {
			return errorEnvelope("job channels are limited to recruiters and admins")
		}
		if f.Action == actionJoinJob {
			err = c.registry.Join(c, channel)
		} else {
			err = c.registry.Leave(c, channel)
		}
		if err != nil {
			return errorEnvelope("not connected")
		}
		return Envelope{Type: f.Action + "_ok", Channel: channel}
	default:
		return errorEnvelope("unknown action")
	}
}

func errorEnvelope(msg string) Envelope {
	data, _ := json.Marshal(map[string]string{"message": msg})
	return Envelope{Type: "error", Data: data}
}

func (c *Client) reply(env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		return
	}
	if !c.enqueue(frame) {
		c.registry.Disconnect(c)
	}
}

// ReadPump owns the read side of the connection until it fails, then
// disconnects the client.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Debug("ws read error")
			}
			return
		}
		c.reply(c.handleFrame(raw))
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.opts.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.WithError(err).Debug("ws write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
