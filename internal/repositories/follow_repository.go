package repositories

import (
	"errors"

	"github.com/chirper-app/backend/internal/apperrors"
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-graph operations
type FollowRepository interface {
	Toggle(followerID, followingID uint) (bool, error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint, page, limit int) ([]models.User, int64, error)
	GetFollowing(userID uint, page, limit int) ([]models.User, int64, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Toggle follows followingID if no edge exists and unfollows otherwise,
// returning the resulting "is now following" state. The delete-first shape
// plus the unique index keeps concurrent identical toggles from ever
// duplicating the edge: a create that loses the race sees a duplicated-key
// error, which means the edge exists, so that call proceeds as an unfollow.
func (r *PostgresFollowRepository) Toggle(followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, apperrors.Invalid("cannot follow yourself")
	}
	for _, id := range []uint{followerID, followingID} {
		ok, err := userExists(r.db, id)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, apperrors.NotFound("user not found")
		}
	}

	var nowFollowing bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			nowFollowing = false
			return nil
		}
		// The create runs under a savepoint: on Postgres a unique violation
		// aborts the transaction, and only a rollback to the savepoint lets
		// the recovery delete below execute.
		if err := tx.SavePoint("toggle_follow").Error; err != nil {
			return err
		}
		err := tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against an identical toggle that inserted first.
			// The edge exists, so this call is the unfollow half.
			if err := tx.RollbackTo("toggle_follow").Error; err != nil {
				return err
			}
			del := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
			if del.Error != nil {
				return del.Error
			}
			nowFollowing = false
			return nil
		}
		if err != nil {
			return err
		}
		nowFollowing = true
		return nil
	})
	return nowFollowing, err
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(userID uint, page, limit int) ([]models.User, int64, error) {
	ok, err := userExists(r.db, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, apperrors.NotFound("user not found")
	}

	total, err := r.GetFollowersCount(userID)
	if err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (page - 1) * limit
	err = r.db.Where("id IN (?)",
		r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID),
	).Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *PostgresFollowRepository) GetFollowing(userID uint, page, limit int) ([]models.User, int64, error) {
	ok, err := userExists(r.db, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, apperrors.NotFound("user not found")
	}

	total, err := r.GetFollowingCount(userID)
	if err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (page - 1) * limit
	err = r.db.Where("id IN (?)",
		r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID),
	).Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}
