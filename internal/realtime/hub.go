package realtime

import (
	"encoding/json"
	"sync"
)

// Channel names the hub broadcasts on.
const (
	ChannelTemplates = "templates"
	ChannelMovies    = "movies"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active panel connections grouped by channel and broadcasts
// change events so every open admin session sees edits land.
type Hub struct {
	mu               sync.RWMutex
	channelToClients map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{
			channelToClients: make(map[string]map[Client]struct{}),
		}
	})
	return hubInstance
}

// Subscribe adds a client to a channel.
func (h *Hub) Subscribe(channel string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channelToClients[channel]; !ok {
		h.channelToClients[channel] = make(map[Client]struct{})
	}
	h.channelToClients[channel][client] = struct{}{}
}

// Unsubscribe removes a client; if the channel has no more clients, cleans up the map.
func (h *Hub) Unsubscribe(channel string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.channelToClients[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channelToClients, channel)
		}
	}
}

// Broadcast sends a message to all clients of a channel.
func (h *Hub) Broadcast(channel string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.channelToClients[channel] {
		if ok := c.Send(message); !ok {
			// client write failed; let the handler clean it up on its side
		}
	}
}

// Notify marshals an event and broadcasts it; marshal failures are dropped.
func (h *Hub) Notify(channel string, event map[string]any) {
	if bytes, err := json.Marshal(event); err == nil {
		h.Broadcast(channel, bytes)
	}
}
