package api

import (
	"context"
	"net/http"
	"sync"

	"innovation_hunt/internal/service"
	"innovation_hunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const liveTopN = 10

type liveMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// LiveLeaderboard pushes the refreshed top-N to every connected websocket
// client after each successful connect.
type LiveLeaderboard struct {
	game *service.GameService

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewLiveLeaderboard(game *service.GameService) *LiveLeaderboard {
	return &LiveLeaderboard{
		game:  game,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func NewLiveRoutes(handler *gin.RouterGroup, live *LiveLeaderboard) {
	handler.GET("/ws/leaderboard", live.handleWebSocket)
}

func (l *LiveLeaderboard) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	l.mu.Lock()
	l.conns[conn] = struct{}{}
	l.mu.Unlock()

	l.sendSnapshot(c.Request.Context(), conn)

	go l.readLoop(conn)
}

// readLoop discards inbound frames; its only job is noticing the close.
func (l *LiveLeaderboard) readLoop(conn *websocket.Conn) {
	defer l.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (l *LiveLeaderboard) drop(conn *websocket.Conn) {
	l.mu.Lock()
	delete(l.conns, conn)
	l.mu.Unlock()
	conn.Close()
}

func (l *LiveLeaderboard) sendSnapshot(ctx context.Context, conn *websocket.Conn) {
	payload, ok := l.payload(ctx)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		delete(l.conns, conn)
		conn.Close()
	}
}

// Broadcast sends the current ranking to every client, dropping the ones
// that went away.
func (l *LiveLeaderboard) Broadcast(ctx context.Context) {
	payload, ok := l.payload(ctx)
	if !ok {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for conn := range l.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(l.conns, conn)
			conn.Close()
		}
	}
}

func (l *LiveLeaderboard) payload(ctx context.Context) ([]byte, bool) {
	log := logger.Logger()

	entries, err := l.game.Leaderboard(ctx, liveTopN)
	if err != nil {
		log.Warn("failed to read leaderboard for live feed", zap.Error(err))
		return nil, false
	}

	payload, err := json.Marshal(liveMessage{Type: "leaderboard", Data: entries})
	if err != nil {
		log.Error("failed to marshal live payload", zap.Error(err))
		return nil, false
	}
	return payload, true
}
