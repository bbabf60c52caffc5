// rentalops-crm/internal/handlers/sync_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rentalops-crm/internal/calendarsync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Для разработки разрешаем все источники
	},
}

// GlobalSyncHub - единственный экземпляр хаба для всего приложения.
var GlobalSyncHub = NewSyncHub()

// SyncMessage - конверт websocket-сообщения о синхронизации.
type SyncMessage struct {
	Type    string                  `json:"type"`
	Payload calendarsync.SyncNotice `json:"payload"`
}

type syncClient struct {
	hub      *SyncHub
	conn     *websocket.Conn
	send     chan []byte
	userID   uint
	tenantID uint
}

// SyncHub рассылает результаты календарной синхронизации подключенным
// клиентам UI своего арендатора.
type SyncHub struct {
	clients    map[*syncClient]bool
	broadcast  chan calendarsync.SyncNotice
	register   chan *syncClient
	unregister chan *syncClient
	mu         sync.Mutex
}

func NewSyncHub() *SyncHub {
	return &SyncHub{
		broadcast:  make(chan calendarsync.SyncNotice, 64),
		register:   make(chan *syncClient),
		unregister: make(chan *syncClient),
		clients:    make(map[*syncClient]bool),
	}
}

func (h *SyncHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Sync hub client registered", "userID", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case notice := <-h.broadcast:
			h.send(notice)
		}
	}
}

// Broadcast отправляет уведомление в хаб, не блокируя синхронизатор.
func (h *SyncHub) Broadcast(notice calendarsync.SyncNotice) {
	select {
	case h.broadcast <- notice:
	default:
		slog.Warn("Sync hub broadcast channel full, notice dropped",
			"assignmentID", notice.AssignmentID)
	}
}

// send рассылает уведомление клиентам того же арендатора.
func (h *SyncHub) send(notice calendarsync.SyncNotice) {
	messageBytes, err := json.Marshal(SyncMessage{Type: "syncStatus", Payload: notice})
	if err != nil {
		slog.Error("Failed to marshal sync notice for broadcast", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.tenantID != notice.TenantID {
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// readPump держит соединение и реагирует только на закрытие:
// клиенты хаба ничего не присылают.
func (c *syncClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Unexpected websocket close error", "error", err)
			}
			break
		}
	}
}

func (c *syncClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Error("Failed to write message to websocket", "error", err)
			return
		}
	}
}

// SyncWSEndpoint подключает клиента UI к хабу статусов синхронизации.
func SyncWSEndpoint(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	client := &syncClient{
		hub:      GlobalSyncHub,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		tenantID: tenantID(c),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
