package handlers

import (
	"net/http"

	"github.com/chirper-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	postRepository   repositories.PostRepository
	likeRepository   repositories.LikeRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		postRepository:   postRepo,
		likeRepository:   likeRepo,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetUsers)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.DELETE("/users/:id", h.DeleteUser)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.GET("/users/:id/likes", h.GetUserLikedPosts)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// GetUsers returns a paginated user listing
func (h *UserHandler) GetUsers(c echo.Context) error {
	page, limit := parsePagination(c)

	users, total, err := h.userRepository.GetUsers(page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": users},
		"meta":    pageMeta(page, limit, total),
	})
}

// SearchUsers searches users by username or display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}

// GetUser returns a user profile with social-graph stats and, when the
// caller is authenticated, their relationship to the profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return httpError(err)
	}

	followers, err := h.followRepository.GetFollowersCount(id)
	if err != nil {
		return httpError(err)
	}
	following, err := h.followRepository.GetFollowingCount(id)
	if err != nil {
		return httpError(err)
	}
	postCount, err := h.postRepository.CountByUserID(id)
	if err != nil {
		return httpError(err)
	}

	data := echo.Map{
		"user":            user,
		"followers_count": followers,
		"following_count": following,
		"post_count":      postCount,
	}

	if currentUserID := getUserIDFromContext(c); currentUserID != 0 && currentUserID != id {
		isFollowing, err := h.followRepository.IsFollowing(currentUserID, id)
		if err != nil {
			return httpError(err)
		}
		isFollowedBy, err := h.followRepository.IsFollowing(id, currentUserID)
		if err != nil {
			return httpError(err)
		}
		data["relationship"] = echo.Map{
			"is_following":   isFollowing,
			"is_followed_by": isFollowedBy,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// DeleteUser deletes the caller's own account with full cascade
func (h *UserHandler) DeleteUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if id != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own account")
	}

	if err := h.userRepository.DeleteUser(id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts returns a user's posts, newest first
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	posts, total, err := h.postRepository.GetPostsByUserID(id, page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    pageMeta(page, limit, total),
	})
}

// GetUserLikedPosts returns the posts a user has liked
func (h *UserHandler) GetUserLikedPosts(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	posts, total, err := h.likeRepository.GetLikedPosts(id, page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts},
		"meta":    pageMeta(page, limit, total),
	})
}

// GetFollowers lists the users following :id
func (h *UserHandler) GetFollowers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	users, total, err := h.followRepository.GetFollowers(id, page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": users},
		"meta":    pageMeta(page, limit, total),
	})
}

// GetFollowing lists the users :id follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	users, total, err := h.followRepository.GetFollowing(id, page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": users},
		"meta":    pageMeta(page, limit, total),
	})
}
