package connections

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectionComment is a threaded discussion comment on a connection,
// distinct from the submitter's own userComment on the record itself.
// Replies form a tree through ParentID.
type ConnectionComment struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	ConnectionID string  `gorm:"type:uuid;not null;index" json:"connection_id"`
	UserID       uint    `gorm:"not null;index" json:"user_id"`
	Content      string  `gorm:"not null" json:"content"`
	ParentID     *string `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ConnectionComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
