package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-manager/brackets"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeWs subscribes the caller to the live event stream of one tournament:
// draw results, match updates and placeholder resolutions.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.TournamentRoom(tournamentID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
