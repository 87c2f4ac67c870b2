package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/jungsi/backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans competition-rate updates out to connected websocket clients
// ⭐ SSOT: 실시간 브로드캐스트는 허브에서만
type Hub struct {
	logger *logger.Logger

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	stopCh chan struct{}
	wg     sync.WaitGroup
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new broadcast hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger:     log,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBufferSize),
		stopCh:     make(chan struct{}),
	}
}

// Run pumps registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case c := <-h.register:
				h.clients[c] = true
				h.logger.WithField("clients", len(h.clients)).Debug("Websocket client connected")

			case c := <-h.unregister:
				if _, ok := h.clients[c]; ok {
					delete(h.clients, c)
					close(c.send)
					h.logger.WithField("clients", len(h.clients)).Debug("Websocket client disconnected")
				}

			case msg := <-h.broadcast:
				for c := range h.clients {
					select {
					case c.send <- msg:
					default:
						// 수신이 밀린 클라이언트는 끊는다
						delete(h.clients, c)
						close(c.send)
					}
				}

			case <-h.stopCh:
				for c := range h.clients {
					delete(h.clients, c)
					close(c.send)
				}
				return
			}
		}
	}()
}

// Stop shuts the hub down and disconnects all clients
func (h *Hub) Stop() {
	close(h.stopCh)
	h.wg.Wait()
}

// BroadcastJSON marshals v and queues it for every connected client
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("Broadcast queue full, dropping message")
	}
	return nil
}

// ServeWS upgrades an HTTP request into a hub subscription
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- c:
	case <-h.stopCh:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump drains client frames so pings/pongs and close are handled
func (c *client) readPump() {
	defer func() {
		// 허브가 이미 멈췄으면 등록 해제를 건너뜀
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopCh:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
