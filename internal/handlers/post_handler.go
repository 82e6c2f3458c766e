package handlers

import (
	"net/http"

	"github.com/chirper-app/backend/internal/models"
	"github.com/chirper-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetRecentPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/posts/:id/replies", h.GetReplies)
}

// CreatePost creates a new post, optionally as a reply to another post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:    currentUserID,
		Content:   req.Content,
		ReplyToID: req.ReplyToID,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// GetRecentPosts returns the public timeline, cursor-paginated
func (h *PostHandler) GetRecentPosts(c echo.Context) error {
	cursor := c.QueryParam("cursor")
	limit := queryLimit(c)

	posts, next, err := h.postRepository.GetRecentPosts(cursor, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": posts, "next_cursor": next},
	})
}

// GetPost returns a single post with its author summary
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(id)
	if err != nil {
		return httpError(err)
	}

	data := echo.Map{"post": post}
	if author, err := h.userRepository.GetUserByID(post.UserID); err == nil {
		data["author"] = author.ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// UpdatePost edits a post the caller authored. Edits are only accepted for a
// short window after creation.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(id)
	if err != nil {
		return httpError(err)
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	if err := h.postRepository.UpdatePost(id, req.Content); err != nil {
		return httpError(err)
	}
	post.Content = req.Content

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"post": post}})
}

// DeletePost deletes a post the caller authored, cascading its likes and
// subject notifications
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(id)
	if err != nil {
		return httpError(err)
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.postRepository.DeletePost(id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetReplies lists the replies to a post, newest first
func (h *PostHandler) GetReplies(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	posts, total, err := h.postRepository.GetReplies(id, page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"replies": posts},
		"meta":    pageMeta(page, limit, total),
	})
}
