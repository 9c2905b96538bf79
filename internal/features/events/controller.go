package events

import (
	"github.com/gofiber/contrib/websocket"
)

type EventsController struct {
	Hub *Hub
}

func NewEventsController(hub *Hub) *EventsController {
	return &EventsController{Hub: hub}
}

// HandleEvents keeps the connection registered until the client goes
// away. Clients only listen; inbound messages are drained and ignored.
func (ctrl *EventsController) HandleEvents(c *websocket.Conn) {
	ctrl.Hub.register <- c
	defer func() {
		ctrl.Hub.unregister <- c
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
