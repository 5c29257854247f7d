// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package wshub implements the notify.Publisher port by pushing the
// admin notifications to the connected websocket clients.
// Each client has a bounded send buffer and clients which cannot keep
// up are disconnected, so Publish never blocks.
package wshub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Hub keeps the set of connected clients.
type Hub struct {
	upgrader websocket.Upgrader
	bufSize  int
	gauge    prometheus.Gauge

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Option is a functional option for the Hub.
type Option func(h *Hub) error

// WithBufferSize sets the number of pending messages of each client.
func WithBufferSize(n int) Option {
	return func(h *Hub) error {
		if n < 1 {
			return errors.New("buffer size must be positive")
		}
		h.bufSize = n
		return nil
	}
}

// WithClientsGauge reports the number of connected clients in g.
func WithClientsGauge(g prometheus.Gauge) Option {
	return func(h *Hub) error {
		h.gauge = g
		return nil
	}
}

// WithCheckOrigin replaces the same-origin check of the upgrader.
func WithCheckOrigin(f func(r *http.Request) bool) Option {
	return func(h *Hub) error {
		h.upgrader.CheckOrigin = f
		return nil
	}
}

// New creates a Hub without any clients.
func New(opts ...Option) (*Hub, error) {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		bufSize: 16,
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Publish sends n to all connected clients. Clients with a full send
// buffer are dropped.
func (h *Hub) Publish(n *model.Notification) {
	b, err := json.Marshal(n)
	if err != nil {
		log.Warn(
			context.Background(), "failed to marshal notification",
			log.Err("err", err),
		)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.removeLocked(c)
			log.Warn(
				context.Background(), "dropped slow websocket client",
				slog.String("remote", c.conn.RemoteAddr().String()),
			)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and rejects the future ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	if h.gauge != nil {
		h.gauge.Dec()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// ServeHTTP upgrades the request to a websocket connection and streams
// the published notifications over it until the client goes away.
// Authorization must be checked by the caller beforehand.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.bufSize)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseGoingAway, "server is shutting down",
			),
			time.Now().Add(writeWait),
		)
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.gauge != nil {
		h.gauge.Inc()
	}
	h.mu.Unlock()
	log.Info(
		r.Context(), "websocket client connected",
		slog.String("remote", conn.RemoteAddr().String()),
	)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards the incoming messages and keeps the pong deadline.
// It returns when the connection fails or is closed by the peer.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
