package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// lobbyHub fans the lobby snapshot out to every socket watching a game
// code. Polling the lobby view returns the same payload; the hub only
// saves clients the round trips.
type lobbyHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]struct{}
}

func newLobbyHub() *lobbyHub {
	return &lobbyHub{
		groups: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *lobbyHub) Add(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[code] = group
	}
	group[conn] = struct{}{}
}

func (h *lobbyHub) Remove(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group, ok := h.groups[code]; ok {
		delete(group, conn)
		if len(group) == 0 {
			delete(h.groups, code)
		}
	}
	_ = conn.Close()
}

func (h *lobbyHub) Broadcast(code string, payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.groups[code]))
	for conn := range h.groups[code] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(code, conn)
		}
	}
}

var lobbyUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleLobbySocket(c *gin.Context) {
	code := c.Param("code")
	game, ok := s.store.GetGame(code)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	conn, err := lobbyUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed game_code=%s error=%v", code, err)
		return
	}
	s.hub.Add(game.Code, conn)
	s.hub.Broadcast(game.Code, lobbyView(game, timeNowUTC()))

	// Reads are drained only to detect the close.
	go func() {
		defer s.hub.Remove(game.Code, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLobby(game *Game) {
	s.hub.Broadcast(game.Code, lobbyView(game, timeNowUTC()))
}
