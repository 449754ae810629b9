package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/middleware"
	"github.com/instihub/instihub-backend/internal/service"
	ws "github.com/instihub/instihub-backend/internal/websocket"
)

const statusStreamInterval = 5 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// SystemWSHandler streams system status snapshots to the platform admin
// dashboard over WebSocket.
type SystemWSHandler struct {
	systemService *service.SystemService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewSystemWSHandler creates a new SystemWSHandler.
func NewSystemWSHandler(systemService *service.SystemService, log zerolog.Logger, allowedOrigins []string) *SystemWSHandler {
	return &SystemWSHandler{
		systemService: systemService,
		log:           log.With().Str("component", "system_ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// SystemStatusStream godoc
// WS /ws/v1/admin/system/stream
// Pushes a status snapshot on connect and then on a fixed interval until
// the client disconnects.
func (h *SystemWSHandler) SystemStatusStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	h.log.Info().Str("email", claims.Email).Msg("Admin connected to status stream")

	ctx := c.Request.Context()
	ticker := time.NewTicker(statusStreamInterval)
	defer ticker.Stop()

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		msg := ws.StatusMessage{
			Event:   ws.EventStatus,
			Payload: h.systemService.Status(ctx),
		}
		if err := ws.WriteTyped(conn, msg); err != nil {
			h.log.Info().Str("email", claims.Email).Msg("Admin disconnected from status stream")
			return false
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			// Server-initiated close; tell the client before dropping.
			_ = ws.WriteError(conn, "stream closing")
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
