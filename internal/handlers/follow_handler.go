package handlers

import (
	"net/http"

	"github.com/chirper-app/backend/internal/fanout"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	notifier         *fanout.Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, notifier *fanout.Notifier) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		notifier:         notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
}

// ToggleFollow follows the target user, or unfollows if already following.
// The returned "following" field is the authoritative post-state. Fan-out
// fires only on the follow half; unfollowing retracts nothing.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	nowFollowing, err := h.followRepository.Toggle(currentUserID, targetID)
	if err != nil {
		return httpError(err)
	}

	if nowFollowing {
		h.notifier.Notify(targetID, currentUserID, models.NotificationFollow, nil)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"following": nowFollowing},
	})
}
