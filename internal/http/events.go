package http

import (
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/notify"
)

// EventChange is the SSE event name of a change notification.
const EventChange = "change"

type EventsController struct {
	hub *notify.Hub
}

func NewEventsController(hub *notify.Hub) *EventsController {
	return &EventsController{hub: hub}
}

// Stream handles GET /api/events. Every committed mutation is sent as
//
//	id:<uuid>
//	event:change
//	data:<identifier>
//
// until the client goes away or the hub is closed.
func (ec *EventsController) Stream(c *gin.Context) {
	changes, cancel := ec.hub.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	// Send headers now so clients see the stream open before the first change.
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-changes:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Id:    change.ID,
				Event: EventChange,
				Data:  change.Identifier,
			})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
