package reviews

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating/comment node. Root reviews (ParentID nil) carry the
// rating and are unique per (work, user); replies carry no rating and form a
// tree through ParentID.
type Review struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkID   string  `gorm:"type:uuid;not null;index:idx_reviews_work_user,priority:1" json:"work_id"`
	UserID   uint    `gorm:"not null;index:idx_reviews_work_user,priority:2" json:"user_id"`
	Rating   *int    `json:"rating,omitempty"` // 1..10, roots only
	Comment  string  `json:"comment"`
	ParentID *string `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Valid like targets.
const (
	TargetReview               = "review"
	TargetConnectionComment    = "connectionComment"
	TargetUserComment          = "userComment"
	TargetConnectionSubmission = "connectionSubmission"
)

type Like struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_likes_user_target,priority:1" json:"user_id"`
	TargetType string    `gorm:"not null;uniqueIndex:idx_likes_user_target,priority:2" json:"target_type"`
	TargetID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target,priority:3" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func IsValidTarget(t string) bool {
	switch t {
	case TargetReview, TargetConnectionComment, TargetUserComment, TargetConnectionSubmission:
		return true
	}
	return false
}
