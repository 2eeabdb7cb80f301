package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/goroutine"
)

// Hub administra todas las conexiones WebSocket activas, indexadas por
// usuario. La persistencia de notificaciones vive en el servicio de
// notificaciones; el hub solo reparte mensajes en caliente.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub crea un hub vacío. Hay que llamar Run en una goroutine aparte.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
	}
}

// Run ejecuta el ciclo principal del hub.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register agrega una conexión al hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister quita una conexión del hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToUser envía un evento a todas las conexiones del usuario.
// El mensaje sigue el contrato del WebSocket API: "type" lleva el nombre
// del evento y "data" la carga útil.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data interface{}) error {
	payload := map[string]interface{}{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: no se pudo serializar el mensaje: %w", err)
	}

	h.broadcast <- message{userID: userID, payload: raw}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Cliente con el buffer lleno: se cierra fuera del lock.
			c := client
			goroutine.SafeGo("ws.close_slow_client", func() {
				c.Close()
			})
		}
	}
}
