package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrRegistryClosed  = errors.New("ws: registry closed")
	ErrSendBufferFull  = errors.New("ws: send buffer full")
	ErrNotConnected    = errors.New("ws: client not connected")
	ErrInvalidEnvelope = errors.New("ws: invalid envelope")
)

// Envelope is the frame written to every subscriber of a channel.
type Envelope struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Registry tracks which live connections belong to which channel. It is
// created at process start and closed at shutdown; nothing else holds it.
type Registry struct {
	mu      sync.RWMutex
	groups  map[string]map[string]*Client // channel -> client id -> client
	clients map[string]*Client
	closed  bool

	logger logrus.FieldLogger
}

type Stats struct {
	Connections   int            `json:"connections"`
	Authenticated int            `json:"authenticated"`
	Channels      map[string]int `json:"channels"`
}

func NewRegistry(logger logrus.FieldLogger) *Registry {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Registry{
		groups:  make(map[string]map[string]*Client),
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Connect registers c and subscribes it to broadcast and, when authenticated,
// to its user channel.
func (r *Registry) Connect(c *Client) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	r.clients[c.id] = c
	r.joinLocked(c, ChannelBroadcast)
	if c.Authenticated() {
		r.joinLocked(c, UserChannel(c.userID))
	}
	total := len(r.clients)
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{"client_id": c.id, "user_id": c.userID, "total_clients": total}).Info("ws connected")
	return nil
}

// Disconnect drops c from every channel and closes its send queue. Calling it
// more than once is harmless.
func (r *Registry) Disconnect(c *Client) {
	r.mu.Lock()
	_, known := r.clients[c.id]
	if known {
		delete(r.clients, c.id)
		for channel := range c.channels {
			r.leaveLocked(c, channel)
		}
	}
	total := len(r.clients)
	r.mu.Unlock()

	c.closeSend()
	if known {
		r.logger.WithFields(logrus.Fields{"client_id": c.id, "total_clients": total}).Info("ws disconnected")
	}
}

func (r *Registry) Join(c *Client, channel string) error {
	if _, _, err := ParseChannel(channel); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.id]; !ok {
		return ErrNotConnected
	}
	r.joinLocked(c, channel)
	return nil
}

func (r *Registry) Leave(c *Client, channel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.id]; !ok {
		return ErrNotConnected
	}
	r.leaveLocked(c, channel)
	return nil
}

func (r *Registry) joinLocked(c *Client, channel string) {
	members, ok := r.groups[channel]
	if !ok {
		members = make(map[string]*Client)
		r.groups[channel] = members
	}
	members[c.id] = c
	c.channels[channel] = struct{}{}
}

func (r *Registry) leaveLocked(c *Client, channel string) {
	delete(c.channels, channel)
	members, ok := r.groups[channel]
	if !ok {
		return
	}
	delete(members, c.id)
	if len(members) == 0 {
		delete(r.groups, channel)
	}
}

// SendToGroup queues one envelope on every member of channel without
// blocking. Members whose queue is full are disconnected and reported via
// ErrSendBufferFull.
func (r *Registry) SendToGroup(channel, msgType string, payload []byte) error {
	if msgType == "" || (len(payload) > 0 && !json.Valid(payload)) {
		return ErrInvalidEnvelope
	}
	if _, _, err := ParseChannel(channel); err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Type: msgType, Channel: channel, Data: payload})
	if err != nil {
		return fmt.Errorf("ws: marshal envelope: %w", err)
	}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return ErrRegistryClosed
	}
	members := r.groups[channel]
	targets := make([]*Client, 0, len(members))
	for _, c := range members {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	var slow []*Client
	for _, c := range targets {
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		r.logger.WithFields(logrus.Fields{"client_id": c.id, "channel": channel}).Warn("ws send buffer full, dropping client")
		r.Disconnect(c)
	}
	if len(slow) > 0 {
		return fmt.Errorf("%w: %d of %d on %s", ErrSendBufferFull, len(slow), len(targets), channel)
	}
	return nil
}

func (r *Registry) Members(channel string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[channel])
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{
		Connections: len(r.clients),
		Channels:    make(map[string]int, len(r.groups)),
	}
	for _, c := range r.clients {
		if c.Authenticated() {
			s.Authenticated++
		}
	}
	for channel, members := range r.groups {
		s.Channels[channel] = len(members)
	}
	return s
}

// Close disconnects every client and refuses new ones.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		r.Disconnect(c)
	}
}
