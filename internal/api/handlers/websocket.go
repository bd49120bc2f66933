package handlers

import (
	"net/http"

	"github.com/dom/blog-website/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader ws.Upgrader
	log      *logrus.Logger
}

// NewWebSocketHandler accepts connections without an Origin header or from allowedOrigin.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigin string, log *logrus.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		log: log,
	}
}

// Posts streams post events to an anonymous subscriber.
func (h *WebSocketHandler) Posts(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("[WebSocketHandler.Posts] upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
