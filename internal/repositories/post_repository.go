package repositories

import (
	"errors"
	"time"

	"github.com/chirper-app/backend/internal/apperrors"
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// EditWindow is how long after creation a post may still be edited.
const EditWindow = 5 * time.Minute

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	UpdatePost(id uint, content string) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByUserID(userID uint, page, limit int) ([]models.Post, int64, error)
	GetRecentPosts(cursor string, limit int) ([]models.Post, string, error)
	GetReplies(postID uint, page, limit int) ([]models.Post, int64, error)
	CountByUserID(userID uint) (int64, error)
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	ok, err := userExists(r.db, post.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("user not found")
	}
	if post.ReplyToID != nil {
		var count int64
		if err := r.db.Model(&models.Post{}).Where("id = ?", *post.ReplyToID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFound("post not found")
		}
	}
	// Truncated to the precision feed cursors round-trip through, so a
	// cursor taken at this post selects exactly the rows after it.
	post.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	return r.db.Create(post).Error
}

// UpdatePost rewrites a post's content. Edits are only accepted within
// EditWindow of creation; a stale edit is the caller's mistake, not a
// permission failure.
func (r *PostgresPostRepository) UpdatePost(id uint, content string) error {
	post, err := r.GetPostByID(id)
	if err != nil {
		return err
	}
	if time.Since(post.CreatedAt) > EditWindow {
		return apperrors.Invalid("post can no longer be edited")
	}
	return r.db.Model(post).Update("content", content).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostsByUserID(userID uint, page, limit int) ([]models.Post, int64, error) {
	ok, err := userExists(r.db, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, apperrors.NotFound("user not found")
	}

	var total int64
	if err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	offset := (page - 1) * limit
	err = r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

// GetRecentPosts is the public timeline: all posts newest first, paginated by
// the same keyset cursor the personal feed uses.
func (r *PostgresPostRepository) GetRecentPosts(cursor string, limit int) ([]models.Post, string, error) {
	limit = clampPageSize(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	q := r.db.Order("created_at DESC, id DESC").Limit(limit)
	if after != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", after.createdAt, after.createdAt, after.id)
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, "", err
	}
	return posts, nextCursor(posts, limit), nil
}

func (r *PostgresPostRepository) GetReplies(postID uint, page, limit int) ([]models.Post, int64, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return nil, 0, apperrors.NotFound("post not found")
	}

	var total int64
	if err := r.db.Model(&models.Post{}).Where("reply_to_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	offset := (page - 1) * limit
	err := r.db.Where("reply_to_id = ?", postID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostgresPostRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeletePost removes the post together with its likes and any notification
// whose subject it is, in one transaction, so no fan-out record dangles.
// Replies survive with a dangling reply_to_id.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("post not found")
		}
		return nil
	})
}
