package chat

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// GatewayConn is one connected gateway process.
type GatewayConn struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	IsClosed bool
	Mu       sync.Mutex
}

// Hub fans render events out to every connected gateway. Usually there is
// exactly one, but reconnects briefly overlap.
type Hub struct {
	Register   chan *GatewayConn
	Unregister chan *GatewayConn
	broadcast  chan []byte
	conns      map[*GatewayConn]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *GatewayConn),
		Unregister: make(chan *GatewayConn),
		broadcast:  make(chan []byte, 64),
		conns:      make(map[*GatewayConn]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mu.Lock()
			h.conns[conn] = true
			log.Printf("Gateway connected. Total gateway connections: %d", len(h.conns))
			h.mu.Unlock()

		case conn := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				conn.Mu.Lock()
				if !conn.IsClosed {
					close(conn.Send)
					conn.IsClosed = true
				}
				conn.Mu.Unlock()
				delete(h.conns, conn)
				log.Printf("Gateway disconnected. Total gateway connections: %d", len(h.conns))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				conn.Mu.Lock()
				if conn.IsClosed {
					conn.Mu.Unlock()
					continue
				}
				select {
				case conn.Send <- message:
				default:
					log.Printf("Gateway send channel full. Dropping event.")
				}
				conn.Mu.Unlock()
			}
			h.mu.RUnlock()
		}
	}
}

// Publish serializes an event onto the feed. Failures are logged and
// dropped; the feed is best-effort by contract.
func (h *Hub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling %s event: %v", event.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("Event feed backlog full. Dropping %s event.", event.Type)
	}
}

func (c *GatewayConn) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Gateway connection error: %v", err)
			}
			break
		}
		// The feed is one-way; inbound frames are ignored.
	}
}

func (c *GatewayConn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing to gateway: %v", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Error pinging gateway: %v", err)
				return
			}
		}
	}
}
