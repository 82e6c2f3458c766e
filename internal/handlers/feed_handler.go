package handlers

import (
	"net/http"
	"strconv"

	"github.com/chirper-app/backend/internal/metrics"
	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedRepository repositories.FeedRepository
	userRepository repositories.UserRepository
	likeRepository repositories.LikeRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	feedRepo repositories.FeedRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
) *FeedHandler {
	return &FeedHandler{
		feedRepository: feedRepo,
		userRepository: userRepo,
		likeRepository: likeRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with author info and the caller's like flag
type EnrichedPost struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// GetFeed returns one page of the caller's home timeline
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	cursor := c.QueryParam("cursor")
	limit := queryLimit(c)

	metrics.TimelineRequests.Inc()

	posts, next, err := h.feedRepository.GetTimeline(currentUserID, cursor, limit)
	if err != nil {
		return httpError(err)
	}

	// Author summaries, one lookup per distinct author on the page
	userMap := make(map[uint]models.UserCompact)
	for _, p := range posts {
		if _, ok := userMap[p.UserID]; ok {
			continue
		}
		if user, err := h.userRepository.GetUserByID(p.UserID); err == nil {
			userMap[p.UserID] = user.ToCompact()
		}
	}

	enrichedPosts := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		liked, _ := h.likeRepository.HasUserLikedPost(currentUserID, p.ID)
		enrichedPosts[i] = EnrichedPost{
			Post:    p,
			Author:  userMap[p.UserID],
			IsLiked: liked,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts":       enrichedPosts,
			"next_cursor": next,
		},
	})
}

// queryLimit reads the limit query param; the repository clamps it.
func queryLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return limit
}
