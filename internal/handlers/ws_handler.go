package handlers

import (
	"net/http"
	"time"

	"accessibility-admin-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// wsClient adapts a websocket connection to realtime.Client.
type wsClient struct {
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the Gin level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// keepAlive pings the peer until done closes; the reader loop exits on the
// resulting error when the peer is gone.
func (c *wsClient) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(wsWriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// WebSocketHandler handles GET /api/ws?channel=templates|movies
// Upgrades the connection and subscribes it to a hub channel so the browser
// panel sees template and movie changes from other admin sessions as they
// land. Requires the JWT middleware to have set "user_id".
func WebSocketHandler(c *gin.Context) {
	if c.GetString("user_id") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	channel := c.DefaultQuery("channel", realtime.ChannelTemplates)
	if channel != realtime.ChannelTemplates && channel != realtime.ChannelMovies {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown channel"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &wsClient{conn: conn}
	hub := realtime.GetHub()
	hub.Subscribe(channel, client)

	done := make(chan struct{})
	go client.keepAlive(done)
	defer func() {
		close(done)
		hub.Unsubscribe(channel, client)
		client.Close()
	}()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Inbound messages are ignored; the socket exists for server pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
