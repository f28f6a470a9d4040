package websocket

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MembershipChecker answers whether a user belongs to a community.
type MembershipChecker interface {
	IsMember(ctx context.Context, communityID, userID int64) (bool, error)
}

// Handler upgrades HTTP requests to feed subscriptions
type Handler struct {
	hub        *Hub
	membership MembershipChecker
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, membership MembershipChecker, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		membership: membership,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to a community post feed
// @Description Upgrades the HTTP connection to a WebSocket that receives post.created events for the community
// @Tags posts, websocket
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} gin.H "Invalid community ID"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} gin.H "Forbidden: User is not a member of the community"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /communities/{id}/posts/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	communityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid community ID",
		})
		return
	}

	// Set by the auth middleware
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}
	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	isMember, err := h.membership.IsMember(c, communityID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("communityID", communityID).
			Int64("userID", userID).
			Msg("Failed to check community membership")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check membership status",
		})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "User is not a member of this community",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("communityID", communityID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:         h.hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		userID:      userID,
		communityID: communityID,
		logger:      h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("communityID", communityID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Feed subscription established")
}
