package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sumitjhk/Pastebin-Lite/clock"
	"github.com/sumitjhk/Pastebin-Lite/config"
	"github.com/sumitjhk/Pastebin-Lite/services"
	"github.com/sumitjhk/Pastebin-Lite/utils"
)

// WebUIHandler renders the browser pages.
type WebUIHandler struct {
	service *services.PasteService
	config  *config.Config
	clk     clock.Clock
}

// NewWebUIHandler creates a new web UI handler
func NewWebUIHandler(service *services.PasteService, config *config.Config, clk clock.Clock) *WebUIHandler {
	return &WebUIHandler{
		service: service,
		config:  config,
		clk:     clk,
	}
}

// Index handles the create form via GET /
func (h *WebUIHandler) Index(c *gin.Context) {
	baseURL := h.config.URL
	if baseURL == "" {
		scheme := "http"
		if isHTTPS(c) {
			scheme = "https"
		}
		baseURL = scheme + "://" + c.Request.Host
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":   "Pastebin Lite",
		"BaseURL": baseURL,
		"Version": h.config.Version,
	})
}

// Preview handles GET /p/:id. This is the server-rendered preview: it must
// never consume a view, so the fetch is non-decrementing. Views are only
// consumed through the JSON API.
func (h *WebUIHandler) Preview(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidID(id) {
		h.renderNotFound(c)
		return
	}

	now := clock.FromRequest(c.Request.Header, h.clk, h.config.TestMode)
	paste, err := h.service.Fetch(c.Request.Context(), id, now, false)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		c.HTML(http.StatusInternalServerError, "view.html", gin.H{
			"Title": "Pastebin Lite - Error",
			"Error": "Something went wrong, try again later",
		})
		return
	}

	data := gin.H{
		"Title":   "Paste " + paste.ID,
		"ID":      paste.ID,
		"Content": paste.Content,
	}
	if paste.RemainingViews != nil {
		data["RemainingViews"] = *paste.RemainingViews
	}
	if paste.ExpiresAt != nil {
		data["ExpiresAt"] = time.UnixMilli(*paste.ExpiresAt).UTC().Format(time.RFC3339)
	}
	c.HTML(http.StatusOK, "view.html", data)
}

func (h *WebUIHandler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "view.html", gin.H{
		"Title": "Pastebin Lite - Not Found",
		"Error": "Paste not found or expired",
	})
}
