package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/ain/models"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 16
)

// FeedHub fans report events out to websocket subscribers. A single
// goroutine owns the client set.
type FeedHub struct {
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan models.FeedEvent
	count      chan chan int
	done       chan struct{}
	closeOnce  sync.Once
	logger     *zap.Logger
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewFeedHub(logger *zap.Logger) *FeedHub {
	return &FeedHub{
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan models.FeedEvent, 64),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *FeedHub) Run() {
	clients := map[*feedClient]bool{}
	for {
		select {
		case client := <-h.register:
			clients[client] = true
		case client := <-h.unregister:
			if clients[client] {
				delete(clients, client)
				close(client.send)
			}
		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("marshal feed event", zap.Error(err))
				continue
			}
			for client := range clients {
				select {
				case client.send <- payload:
				default:
					// Slow subscriber.
					delete(clients, client)
					close(client.send)
				}
			}
		case reply := <-h.count:
			reply <- len(clients)
		case <-h.done:
			for client := range clients {
				close(client.send)
			}
			return
		}
	}
}

// Publish never blocks the caller; events are dropped when the buffer is full.
func (h *FeedHub) Publish(event models.FeedEvent) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		h.logger.Warn("feed buffer full, dropping event", zap.String("type", event.Type))
	}
}

// ClientCount returns the number of connected subscribers.
func (h *FeedHub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *FeedHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (s *Server) feedUpgrader() websocket.Upgrader {
	origins := s.Config.AllowedOrigins()
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(origins) == 0 || origin == "" {
				return true
			}
			for _, o := range origins {
				if o == origin {
					return true
				}
			}
			return false
		},
	}
}

func (s *Server) handleFeedSocket() gin.HandlerFunc {
	upgrader := s.feedUpgrader()
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			s.Logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		client := &feedClient{conn: conn, send: make(chan []byte, clientSendSize)}
		select {
		case s.Feed.register <- client:
		case <-s.Feed.done:
			conn.Close()
			return
		}
		go s.Feed.writePump(client)
		s.Feed.readPump(client)
	}
}

// readPump discards client messages and detects disconnects.
func (h *FeedHub) readPump(client *feedClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()
	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FeedHub) writePump(client *feedClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
