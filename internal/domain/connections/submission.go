package connections

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Direction values are the two canonical sentences the submission form sends.
const (
	DirectionAToB = "Work A (current page) is the inspiration for Work B (selected)."
	DirectionBToA = "Work B (selected) is the inspiration for Work A (current page)."
)

const AIJudgmentMaxLen = 2000

// WorkSnapshot is the denormalized copy of a work stored on a submission,
// including the evidence image as base64. Snapshots are intentionally not
// foreign keys; the scalar FromWorkID/ToWorkID columns exist for querying.
type WorkSnapshot struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Year  int    `json:"year"`
	Image string `json:"image,omitempty"`
}

// ConnectionSubmission is the richer pending-approval record for secondary
// connections. FromWork is always the inspiration side regardless of which
// work the submitter was looking at; Direction preserves the original claim.
type ConnectionSubmission struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	FromWorkID string `gorm:"type:uuid;not null;index" json:"-"`
	ToWorkID   string `gorm:"type:uuid;not null;index" json:"-"`

	FromWork datatypes.JSONType[WorkSnapshot] `json:"from_work"`
	ToWork   datatypes.JSONType[WorkSnapshot] `json:"to_work"`

	Direction   string `gorm:"not null" json:"direction"`
	Type        string `gorm:"not null" json:"type"`
	UserComment string `gorm:"not null" json:"user_comment"`

	Status     string `gorm:"not null;default:'pending';index" json:"status"`
	AIJudgment string `gorm:"size:2000" json:"ai_judgment"`

	AdminReview AdminReview `gorm:"embedded;embeddedPrefix:review_" json:"admin_review"`

	CreatedByID uint `gorm:"not null;index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ConnectionSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
