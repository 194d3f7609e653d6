package handlers

import (
	"log"
	"net/http"
	"time"

	"url-shortener-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventWriteWait  = 5 * time.Second
	eventPongWait   = 60 * time.Second
	eventPingPeriod = 30 * time.Second
)

// eventSubscriber delivers link events to one websocket peer. The hub calls
// Send from a single goroutine per subscriber; pings go through WriteControl,
// which gorilla/websocket allows alongside that writer.
type eventSubscriber struct {
	conn *websocket.Conn
}

func (s *eventSubscriber) Send(message []byte) bool {
	if s == nil || s.conn == nil {
		return false
	}
	s.conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
	return s.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (s *eventSubscriber) Close() {
	if s != nil && s.conn != nil {
		_ = s.conn.Close()
	}
}

var eventUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// cross-origin policy is the CORS middleware's job
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler streams link events from hub to the connecting peer.
// GET /api/events
func EventsHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := eventUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("events: websocket upgrade failed:", err)
			return
		}

		sub := &eventSubscriber{conn: conn}
		hub.Register(sub)

		stopPing := make(chan struct{})
		go func() {
			ticker := time.NewTicker(eventPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-stopPing:
					return
				case <-ticker.C:
					if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventWriteWait)); err != nil {
						return
					}
				}
			}
		}()
		defer func() {
			close(stopPing)
			hub.Unregister(sub)
			sub.Close()
		}()

		// Peers never send data; reading only notices disconnects and processes pongs.
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(eventPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
