package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/aforolabs/counter-dashboard/internal/fanout"
	"github.com/aforolabs/counter-dashboard/internal/models"
)

// heartbeatInterval keeps intermediary proxies from killing idle streams,
// which commonly happens around the 60s mark.
const heartbeatInterval = 25 * time.Second

// connectedFrame is sent once as soon as the stream opens, so a client can
// tell "channel open, awaiting data" from "channel never opened".
type connectedFrame struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// updateFrame wraps a reading for the stream.
type updateFrame struct {
	Type string `json:"type"`
	models.CounterReading
}

// RegisterEventRoutes registers the direct server-push stream.
//
// GET /api/events emits line-delimited SSE frames: one "connected" frame on
// open, then a "counter-update" frame per accepted ingestion. Delivery is
// at-most-once per connection with no replay; clients pair this with a
// polling backstop.
func RegisterEventRoutes(r gin.IRoutes, broker *fanout.Broker) {
	r.GET("/api/events", func(c *gin.Context) {
		updates, cancel := broker.Subscribe()
		defer cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("Access-Control-Allow-Origin", "*")
		c.Status(http.StatusOK)

		welcome, _ := json.Marshal(connectedFrame{
			Type:      "connected",
			Message:   "connected to event stream",
			Timestamp: time.Now().UTC(),
		})
		_ = sse.Encode(c.Writer, sse.Event{Data: string(welcome)})
		c.Writer.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case reading, ok := <-updates:
				if !ok {
					return false
				}
				frame, err := json.Marshal(updateFrame{
					Type:           "counter-update",
					CounterReading: reading,
				})
				if err != nil {
					return false
				}
				return sse.Encode(w, sse.Event{Data: string(frame)}) == nil
			case <-heartbeat.C:
				_, err := io.WriteString(w, ": ping\n\n")
				return err == nil
			case <-c.Request.Context().Done():
				return false
			}
		})
	})
}
