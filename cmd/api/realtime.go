package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
	"github.com/HANSBIANDJI/bksmell/internal/httpx"
	"github.com/HANSBIANDJI/bksmell/internal/realtime"
)

// realtimeEventsHandler streams hub broadcasts to the client as
// server-sent events. Delivery is best effort; a client that wants the
// truth reads the orders API.
func realtimeEventsHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			httpx.AbortWithError(c, apperr.Validation("streaming unsupported"))
			return
		}
		ch, cancel := hub.Subscribe()
		defer cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)
		flusher.Flush()

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case m, open := <-ch:
				if !open {
					return
				}
				fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", m.Event, m.Payload)
				flusher.Flush()
			case <-keepalive.C:
				fmt.Fprint(c.Writer, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

// countdownHandler rebroadcasts promo countdown settings to every
// connected client.
func countdownHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		hub.Broadcast(realtime.EventCountdownUpdate, payload)
		c.JSON(http.StatusOK, gin.H{"broadcast": true})
	}
}
