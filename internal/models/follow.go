package models

import "time"

// Follow represents a directed follow edge: follower follows following.
// The composite unique index makes duplicate edges a constraint violation,
// which the toggle relies on under concurrent requests.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
