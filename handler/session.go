package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gael-paolo/st-parts-track/model"
	"github.com/gael-paolo/st-parts-track/service"
)

// SessionHandler owns the explicit input-panel state machine of the
// dashboard shell. State is keyed by the caller's X-Session-ID header and
// never influences classification.
type SessionHandler struct {
	store *service.SessionStore
}

func NewSessionHandler(store *service.SessionStore) *SessionHandler {
	return &SessionHandler{store: store}
}

type panelRequest struct {
	Panel string `json:"panel"`
}

// GetPanel reports the current panel for the caller's session, idle if the
// session is unknown.
func (h *SessionHandler) GetPanel(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An X-Session-ID header is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"panel":      h.store.Panel(sessionID),
	})
}

// SetPanel records a panel transition for the caller's session.
func (h *SessionHandler) SetPanel(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An X-Session-ID header is required"})
		return
	}

	var req panelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	panel := model.PanelState(req.Panel)
	if !panel.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown panel state"})
		return
	}

	h.store.SetPanel(sessionID, panel)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"panel":      panel,
	})
}
