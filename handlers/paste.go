package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sumitjhk/Pastebin-Lite/clock"
	"github.com/sumitjhk/Pastebin-Lite/config"
	"github.com/sumitjhk/Pastebin-Lite/models"
	"github.com/sumitjhk/Pastebin-Lite/services"
	"github.com/sumitjhk/Pastebin-Lite/storage"
	"github.com/sumitjhk/Pastebin-Lite/utils"
)

// PasteHandler handles the JSON paste API
type PasteHandler struct {
	service *services.PasteService
	config  *config.Config
	clk     clock.Clock
}

// NewPasteHandler creates a new paste handler
func NewPasteHandler(service *services.PasteService, config *config.Config, clk clock.Clock) *PasteHandler {
	return &PasteHandler{
		service: service,
		config:  config,
		clk:     clk,
	}
}

// CreatePasteRequest is the untrusted creation body. Optional fields are
// pointers so "absent" and "present but invalid" are distinguishable.
type CreatePasteRequest struct {
	Content    string `json:"content"`
	TTLSeconds *int   `json:"ttl_seconds"`
	MaxViews   *int   `json:"max_views"`
}

// Helper: respondError sends a JSON error response
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// now resolves the request clock, honoring the test override header.
func (h *PasteHandler) now(c *gin.Context) int64 {
	return clock.FromRequest(c.Request.Header, h.clk, h.config.TestMode)
}

// Create handles POST /api/pastes
func (h *PasteHandler) Create(c *gin.Context) {
	var req CreatePasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	now := h.now(c)
	id, err := h.service.Create(c.Request.Context(), services.CreateRequest{
		Content:    req.Content,
		TTLSeconds: req.TTLSeconds,
		MaxViews:   req.MaxViews,
	}, now)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	PastesCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"id":  id,
		"url": h.pasteURL(c, id),
	})
}

// Get handles GET /api/pastes/:id — the decrementing fetch. One successful
// call consumes one view of a view-tracked paste.
func (h *PasteHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidID(id) {
		PasteMisses.Inc()
		respondError(c, http.StatusNotFound, "Paste not found or expired")
		return
	}

	now := h.now(c)
	paste, err := h.service.Fetch(c.Request.Context(), id, now, true)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			PasteMisses.Inc()
			respondError(c, http.StatusNotFound, "Paste not found or expired")
			return
		}
		h.respondServiceError(c, err)
		return
	}

	PasteViews.Inc()
	c.JSON(http.StatusOK, pasteResponse(paste))
}

// respondServiceError maps non-NotFound service failures to transport
// responses. Store outages are surfaced distinctly so callers can apply
// their own retry policy; they are never disguised as missing pastes.
func (h *PasteHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		log.Printf("[ERROR] store unavailable: %v", err)
		respondError(c, http.StatusServiceUnavailable, "storage backend unavailable")
	default:
		log.Printf("[ERROR] %v", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// pasteResponse is the public shape of a fetched paste: content, the
// remaining view budget (null when untracked) and the expiry instant
// (RFC3339, null when none).
func pasteResponse(paste *models.Paste) gin.H {
	var expiresAt interface{}
	if paste.ExpiresAt != nil {
		expiresAt = time.UnixMilli(*paste.ExpiresAt).UTC().Format(time.RFC3339Nano)
	}
	var remaining interface{}
	if paste.RemainingViews != nil {
		remaining = *paste.RemainingViews
	}
	return gin.H{
		"content":         paste.Content,
		"remaining_views": remaining,
		"expires_at":      expiresAt,
	}
}

// pasteURL builds the shareable link for a paste, detecting HTTPS from
// proxy headers when no base URL is configured.
func (h *PasteHandler) pasteURL(c *gin.Context, id string) string {
	if h.config.URL != "" {
		return h.config.URL + "/p/" + id
	}
	scheme := "http"
	if isHTTPS(c) {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/p/" + id
}

// isHTTPS detects if the original request was HTTPS, even behind proxies
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if c.GetHeader("CloudFront-Forwarded-Proto") == "https" {
		return true
	}
	return false
}
