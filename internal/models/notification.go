package models

import "time"

// Notification verbs. Edge removal never retracts a notification, so these
// only ever describe the creating transition.
const (
	NotificationFollow = "follow"
	NotificationLike   = "like"
)

// Notification records that an actor performed a verb the recipient should
// hear about. SubjectID is the post involved, nil for follow notifications.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	SubjectID   *uint     `json:"subject_id,omitempty" gorm:"index"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
