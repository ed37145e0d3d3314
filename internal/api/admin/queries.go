package admin

import (
	"errors"
	"time"

	"connections-app/internal/domain/users"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrNotSuperAdmin     = errors.New("only the super admin can do this")
	ErrAlreadySuperAdmin = errors.New("user is already the super admin")
	ErrTargetSuperAdmin  = errors.New("cannot modify the super admin")
	ErrInvalidAction     = errors.New("action must be promote or demote")
)

// TransferSuperAdmin moves the super_admin role from the current holder to
// another user. Both role changes and the audit row commit together; either
// the transfer happens completely or not at all.
func TransferSuperAdmin(db *gorm.DB, currentID uint, targetUserID string) error {
	var current users.User
	if err := db.First(&current, "id = ?", currentID).Error; err != nil {
		return ErrUserNotFound
	}
	if !current.IsSuperAdmin() {
		return ErrNotSuperAdmin
	}

	var target users.User
	if err := db.First(&target, "user_id = ?", targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if target.IsSuperAdmin() {
		return ErrAlreadySuperAdmin
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", current.ID).
			Update("role", users.RoleAdmin).Error; err != nil {
			return err
		}
		if err := tx.Model(&users.User{}).Where("id = ?", target.ID).
			Update("role", users.RoleSuperAdmin).Error; err != nil {
			return err
		}
		transfer := users.RoleTransfer{
			FromUserID:    current.ID,
			ToUserID:      target.ID,
			TransferredAt: time.Now(),
		}
		return tx.Create(&transfer).Error
	})
}

// AppointAdmin promotes a regular user to admin or demotes an admin back to
// user. The super admin is never a valid target.
func AppointAdmin(db *gorm.DB, targetUserID, action string) error {
	if action != "promote" && action != "demote" {
		return ErrInvalidAction
	}

	var target users.User
	if err := db.First(&target, "user_id = ?", targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if target.IsSuperAdmin() {
		return ErrTargetSuperAdmin
	}

	role := users.RoleAdmin
	if action == "demote" {
		role = users.RoleUser
	}
	return db.Model(&users.User{}).Where("id = ?", target.ID).
		Update("role", role).Error
}
