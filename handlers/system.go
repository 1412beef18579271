package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumitjhk/Pastebin-Lite/storage"
)

// SystemHandler handles system endpoints
type SystemHandler struct {
	store storage.RecordStore
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(store storage.RecordStore) *SystemHandler {
	return &SystemHandler{store: store}
}

// Health handles health check via GET /healthz. It pings the storage
// backend so a dead store surfaces here rather than as request failures.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.Printf("[ERROR] health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
