package connections

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Connection types. Adaptation and Sequel form the primary level; everything
// else is secondary and can only be established through the submission flow.
const (
	TypeAdaptation           = "Adaptation"
	TypeSequel               = "Sequel"
	TypeVisualHomage         = "Visual Homage"
	TypeQuoteBorrowing       = "Quote Borrowing"
	TypeThematicEcho         = "Thematic Echo"
	TypeCharacterInspiration = "Character Inspiration"
	TypeOther                = "Other"
)

var SecondaryTypes = []string{
	TypeVisualHomage,
	TypeQuoteBorrowing,
	TypeThematicEcho,
	TypeCharacterInspiration,
	TypeOther,
}

// LevelForType maps a connection type onto its level.
func LevelForType(t string) string {
	if t == TypeAdaptation || t == TypeSequel {
		return "primary"
	}
	return "secondary"
}

func IsSecondaryType(t string) bool {
	for _, s := range SecondaryTypes {
		if s == t {
			return true
		}
	}
	return false
}

func IsValidType(t string) bool {
	return t == TypeAdaptation || t == TypeSequel || IsSecondaryType(t)
}

// AdminReview is the decision record stamped onto a connection or submission
// when an admin rules on it.
type AdminReview struct {
	ReviewedByID  *uint      `json:"reviewed_by,omitempty"`
	Decision      string     `json:"decision,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

type Connection struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Type            string `gorm:"not null" json:"type"`
	ConnectionLevel string `gorm:"not null;index" json:"connection_level"` // primary | secondary

	FromWorkID string `gorm:"type:uuid;not null;index" json:"from_work"`
	ToWorkID   string `gorm:"type:uuid;not null;index" json:"to_work"`

	ImagesFrom  string `gorm:"not null" json:"images_from"`
	ImagesTo    string `gorm:"not null" json:"images_to"`
	UserComment string `gorm:"not null" json:"user_comment"`

	SubmittedByID uint   `gorm:"not null;index" json:"submitted_by"`
	Status        string `gorm:"not null;default:'pending';index" json:"status"`

	AdminReview AdminReview `gorm:"embedded;embeddedPrefix:review_" json:"admin_review"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
