package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/papycha/duocup/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway connects server-to-server; origin checks do not apply.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *chat.Hub
}

func NewWebSocketHandler(hub *chat.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// FeedHandler handles GET /ws/feed: upgrades the gateway connection and
// attaches it to the render-event feed.
func (h *WebSocketHandler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade gateway connection: %v", err)
		return
	}

	gc := &chat.GatewayConn{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.hub.Register <- gc

	go gc.WritePump()
	go gc.ReadPump()
}
