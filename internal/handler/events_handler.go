package handler

import (
	"net/http"

	"gamescope/app/internal/hub"

	"github.com/gin-gonic/gin"
)

// StreamCollection godoc
// @Summary      Follow a collection
// @Description  Streams created, updated and deleted events of a collection as server-sent events. Events are hints to refetch; a slow client may miss some.
// @Tags         documents
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        collection    path   string  true   "Collection"
// @Param        access_token  query  string  false  "Token, for clients that cannot set headers"
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Unknown collection"
// @Router       /collections/{collection}/events [get]
func StreamCollection(c *gin.Context) {
	collection, _, ok := collectionFromPath(c)
	if !ok {
		return
	}

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(collection, client)
	defer hub.GlobalHub.Unsubscribe(collection, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent("change", string(msg))
			c.Writer.Flush()
		}
	}
}
