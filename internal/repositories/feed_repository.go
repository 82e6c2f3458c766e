package repositories

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chirper-app/backend/internal/apperrors"
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// Page size bounds for cursor-paginated listings. Out-of-range requests are
// clamped, matching how every other listing in the API caps per_page.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// FeedRepository assembles timelines. The feed is fan-out-on-read: the
// follow set is re-resolved on every call, never precomputed per viewer.
type FeedRepository interface {
	GetTimeline(viewerID uint, cursor string, limit int) ([]models.Post, string, error)
}

// PostgresFeedRepository implements FeedRepository for PostgreSQL
type PostgresFeedRepository struct {
	db *gorm.DB
}

// NewPostgresFeedRepository creates a new PostgresFeedRepository
func NewPostgresFeedRepository(db *gorm.DB) *PostgresFeedRepository {
	return &PostgresFeedRepository{db: db}
}

// GetTimeline returns one page of posts authored by the viewer or anyone the
// viewer follows, ordered (created_at desc, id desc), plus the cursor for the
// next page ("" at end of feed). The follow-set resolution and the post fetch
// run in one transaction so a single page is internally consistent; across
// pages the follow set may change, and posts of a just-unfollowed author drop
// out of subsequent pages.
func (r *PostgresFeedRepository) GetTimeline(viewerID uint, cursor string, limit int) ([]models.Post, string, error) {
	limit = clampPageSize(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	var posts []models.Post
	err = r.db.Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(tx, viewerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NotFound("user not found")
		}

		var authorIDs []uint
		if err := tx.Model(&models.Follow{}).Where("follower_id = ?", viewerID).Pluck("following_id", &authorIDs).Error; err != nil {
			return err
		}
		// Own posts always appear in one's own timeline.
		authorIDs = append(authorIDs, viewerID)

		q := tx.Where("user_id IN ?", authorIDs).
			Order("created_at DESC, id DESC").
			Limit(limit)
		if after != nil {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", after.createdAt, after.createdAt, after.id)
		}
		return q.Find(&posts).Error
	})
	if err != nil {
		return nil, "", err
	}
	return posts, nextCursor(posts, limit), nil
}

func clampPageSize(limit int) int {
	if limit < 1 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// feedCursor is the (created_at, id) position of the last item on the
// previous page; pages contain rows strictly after it in feed order.
type feedCursor struct {
	createdAt time.Time
	id        uint
}

func encodeCursor(p models.Post) string {
	raw := fmt.Sprintf("%d.%d", p.CreatedAt.UnixMicro(), p.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor parses a client-supplied cursor. An empty cursor means the
// first page; anything unparseable is the caller's fault, not a server error.
func decodeCursor(cursor string) (*feedCursor, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, apperrors.Invalid("malformed cursor")
	}
	parts := strings.SplitN(string(raw), ".", 2)
	if len(parts) != 2 {
		return nil, apperrors.Invalid("malformed cursor")
	}
	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, apperrors.Invalid("malformed cursor")
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, apperrors.Invalid("malformed cursor")
	}
	return &feedCursor{createdAt: time.UnixMicro(micros).UTC(), id: uint(id)}, nil
}

// nextCursor returns the cursor for the page after posts, or "" when the
// short page signals end of feed.
func nextCursor(posts []models.Post, limit int) string {
	if len(posts) < limit {
		return ""
	}
	return encodeCursor(posts[len(posts)-1])
}
