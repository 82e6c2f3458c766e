package repositories

import (
	"errors"

	"github.com/chirper-app/backend/internal/apperrors"
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for the like ledger
type LikeRepository interface {
	Toggle(userID, postID uint) (bool, error)
	HasUserLikedPost(userID, postID uint) (bool, error)
	GetLikesCountByPostID(postID uint) (int64, error)
	GetLikers(postID uint, page, limit int) ([]models.User, int64, error)
	GetLikedPosts(userID uint, page, limit int) ([]models.Post, int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Toggle likes the post if no edge exists and unlikes otherwise, returning
// the resulting "is now liked" state. Race handling mirrors the follow
// toggle: the unique (user_id, post_id) index turns a concurrent duplicate
// insert into a duplicated-key error, which flips that call to the unlike
// half. Liking one's own post is allowed.
func (r *PostgresLikeRepository) Toggle(userID, postID uint) (bool, error) {
	ok, err := userExists(r.db, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, apperrors.NotFound("user not found")
	}
	var count int64
	if err := r.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, apperrors.NotFound("post not found")
	}

	var nowLiked bool
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			nowLiked = false
			return nil
		}
		// Savepoint so the recovery delete can run after Postgres aborts the
		// transaction on the unique violation.
		if err := tx.SavePoint("toggle_like").Error; err != nil {
			return err
		}
		err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.RollbackTo("toggle_like").Error; err != nil {
				return err
			}
			del := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
			if del.Error != nil {
				return del.Error
			}
			nowLiked = false
			return nil
		}
		if err != nil {
			return err
		}
		nowLiked = true
		return nil
	})
	return nowLiked, err
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikesCountByPostID returns the ledger cardinality for the post at call
// time; there is no cached counter to drift from it.
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresLikeRepository) GetLikers(postID uint, page, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (page - 1) * limit
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Like{}).Select("user_id").Where("post_id = ?", postID),
	).Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *PostgresLikeRepository) GetLikedPosts(userID uint, page, limit int) ([]models.Post, int64, error) {
	ok, err := userExists(r.db, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, apperrors.NotFound("user not found")
	}

	var total int64
	if err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	offset := (page - 1) * limit
	err = r.db.Where("id IN (?)",
		r.db.Model(&models.Like{}).Select("post_id").Where("user_id = ?", userID),
	).Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}
