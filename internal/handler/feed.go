package handler

import (
	"github.com/gin-gonic/gin"
)

// Feed upgrades to a websocket streaming wall changes.
func (h *Handler) Feed(c *gin.Context) {
	table, err := tableParam(c)
	if err != nil {
		badRequest(c, "invalid table")
		return
	}
	if err := h.feed.Hub().ServeWS(c.Writer, c.Request, table); err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
	}
}
