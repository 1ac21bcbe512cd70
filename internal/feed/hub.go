// Package feed pushes submission changes to connected browsers and relays
// them between server instances.
package feed

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wedding-memories/internal/models"
)

// Client is one websocket subscriber. A client with a table only receives
// inserts for that table; deletes always reach it.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	table *int
}

// Hub fans change events out to its clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan models.ChangeEvent
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.ChangeEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.remove(client)

		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				h.log.Error().Err(err).Msg("Failed to marshal event")
				continue
			}
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				if !client.wants(ev) {
					continue
				}
				select {
				case client.send <- msg:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.remove(client)
			}

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop disconnects every client and ends Run.
func (h *Hub) Stop() {
	close(h.stop)
}

// Broadcast queues an event for delivery.
func (h *Hub) Broadcast(ev models.ChangeEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn().Str("type", string(ev.Type)).Msg("Broadcast queue full, dropping event")
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (c *Client) wants(ev models.ChangeEvent) bool {
	switch ev.Type {
	case models.ChangeInsert:
		return ev.New != nil && ev.New.InTable(c.table)
	case models.ChangeDelete:
		return true
	}
	return false
}
