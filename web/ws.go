package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vmt/mq/mq"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS already allows all origins for the API; keep the feed consistent.
		return true
	},
}

type feedMessage struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
	EventID   uuid.UUID `json:"event_id"`
	Kind      string    `json:"kind"`
	Date      time.Time `json:"date"`
}

// EventFeed upgrades the connection and pushes every recorded event as JSON.
// An optional vehicle_id query parameter narrows the feed to one vehicle.
func (h *FleetHandler) EventFeed(c *gin.Context) {
	topic := uuid.Nil
	if raw := c.Query("vehicle_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle_id"})
			return
		}
		topic = parsed
	}

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	out := make(chan feedMessage, 16)
	mq.SubscribeProcessor(topic, c.Request.Context(), h.mq.GetEventRecordedMessageQueue(),
		func(msg mq.EventRecordedMessage) (feedMessage, bool, error) {
			return feedMessage{
				VehicleID: msg.VehicleID,
				EventID:   msg.EventID,
				Kind:      string(msg.Kind),
				Date:      msg.Date,
			}, false, nil
		}, out)

	// Drain client frames so pings are answered and closes are noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for msg := range out {
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
