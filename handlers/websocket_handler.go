package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/landrytower/liprobakin/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить список origin'ов доменом сайта перед продом.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeGame подключает клиента к комнате игровой карточки.
func (h *WebSocketHandler) ServeGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.RoomForGame(gameID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
