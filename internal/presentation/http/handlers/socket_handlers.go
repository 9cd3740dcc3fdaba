package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/presetbase/presetbase-go/internal/infrastructure/messaging"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CORS middleware already gates origins; the upgrader accepts all.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandlers serves the table-refresh websocket.
type SocketHandlers struct {
	broadcaster *messaging.RefreshBroadcaster
	logger      *logging.ChanneledLogger
}

// NewSocketHandlers creates socket handlers with injected dependencies.
func NewSocketHandlers(broadcaster *messaging.RefreshBroadcaster, logger *logging.ChanneledLogger) *SocketHandlers {
	return &SocketHandlers{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// GetRefreshSocket handles GET /ws/refresh - upgrades the connection and
// streams refresh events until the client disconnects.
func (h *SocketHandlers) GetRefreshSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Socket().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.RefreshClient{
		Conn: conn,
		Send: make(chan []byte, 16),
	}
	h.broadcaster.Register(client)

	go h.broadcaster.WritePump(client)

	// Read loop exists only to detect disconnects.
	go func() {
		defer h.broadcaster.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
