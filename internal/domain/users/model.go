package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// PostHistory tracks the ids of connections a user has submitted, bucketed
// by review outcome.
type PostHistory struct {
	Approved []string `json:"approved"`
	Rejected []string `json:"rejected"`
	Pending  []string `json:"pending"`
}

type User struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// UserID is the opaque public identifier. Both it and Username are
	// immutable after registration.
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_users_user_id" json:"user_id"`
	Username string `gorm:"not null;uniqueIndex:idx_users_username" json:"username"`
	Password string `gorm:"not null" json:"-"`

	Nickname  string     `json:"nickname"`
	Avatar    string     `gorm:"default:'default-avatar.png'" json:"avatar"`
	Gender    string     `json:"gender,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Bio       string     `gorm:"size:150" json:"bio"`

	Role string `gorm:"not null;default:'user';index" json:"role"`

	RatingCount     int `gorm:"not null;default:0" json:"rating_count"`
	ConnectionCount int `gorm:"not null;default:0" json:"connection_count"`

	PostHistory datatypes.JSONType[PostHistory] `json:"post_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) CanAppointAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) CanReviewConnections() bool {
	return u.IsAdmin()
}

// RoleTransfer records a super admin handover. At most one user holds the
// super_admin role at any time; every swap appends one row here.
type RoleTransfer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FromUserID    uint      `gorm:"not null;index" json:"from_user_id"`
	ToUserID      uint      `gorm:"not null;index" json:"to_user_id"`
	TransferredAt time.Time `json:"transferred_at"`
}
