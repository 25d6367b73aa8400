package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type EventsController struct {
	hub *services.EventsHub
}

func NewEventsController(hub *services.EventsHub) *EventsController {
	return &EventsController{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// GET /ws — dashboard sessions subscribe here for entry/goal/yolo events.
func (ec *EventsController) Subscribe(c *gin.Context) {
	uid := c.MustGet("userID").(uint)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := services.NewWSClient(uid, conn)
	ec.hub.Register(cl)

	// the pump owns all writes, including keepalive pings
	go cl.WritePump()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			ec.hub.Unregister(cl)
			return
		}
	}
}
