package controllers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/middleware"
	"estate_hub/internal/workflow"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// ChangeHub fans entity change events out to every connected client so their
// views can refresh. Events are fire-and-forget: a slow or dead client just
// misses them.
type ChangeHub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan workflow.Event
	mu        sync.Mutex
}

// NewChangeHub creates a hub and starts its broadcast goroutine.
func NewChangeHub() *ChangeHub {
	hub := &ChangeHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan workflow.Event, 100),
	}
	go hub.run()
	return hub
}

func (h *ChangeHub) run() {
	for event := range h.broadcast {
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(event); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client connection closed during broadcast, unregistering.")
				} else {
					logrus.WithError(err).WithField("conn_ptr", fmt.Sprintf("%p", conn)).Warn("Failed to send change event to client.")
				}
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// RegisterClient adds a client connection to the hub.
func (h *ChangeHub) RegisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client registered with ChangeHub.")
}

// UnregisterClient removes a disconnected client from the hub.
func (h *ChangeHub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Client unregistered from ChangeHub.")
}

// Publish implements workflow.Notifier.
func (h *ChangeHub) Publish(event workflow.Event) {
	select {
	case h.broadcast <- event:
	default:
		logrus.Warn("Change broadcast channel full, dropping event.")
	}
}

var changeHub = NewChangeHub()

// HandleEventsWebSocket upgrades an authenticated client onto the change
// feed. The JWT rides in the token query parameter since browsers cannot set
// headers on websocket requests.
func HandleEventsWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	logrus.WithFields(logrus.Fields{
		"user_id": claims.UserID,
		"role":    claims.Role,
	}).Info("Change feed WebSocket connection established.")

	changeHub.RegisterClient(conn)
	defer changeHub.UnregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("user_id", claims.UserID).Info("Change feed WebSocket closed.")
			} else {
				logrus.WithError(err).WithField("user_id", claims.UserID).Error("Error reading WebSocket message.")
			}
			break
		}
		// Clients only listen on this feed.
	}
}
