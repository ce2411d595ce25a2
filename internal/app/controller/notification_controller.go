package controller

import (
	"net/http"

	"github.com/fitstore/fitstore-backend/internal/middleware"
	"github.com/fitstore/fitstore-backend/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type NotificationController struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

func NewNotificationController(hub *notify.Hub) *NotificationController {
	return &NotificationController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same-origin checks are handled by the CORS layer; the socket
			// carries presentational events only.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Subscribe upgrades the request and streams the session's notification
// events
// GET /ws/notifications
func (ctrl *NotificationController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade notification socket", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	client := notify.NewClient(ctrl.hub, conn, sessionID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
