package likes

import (
	"errors"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/reviews"

	"gorm.io/gorm"
)

var (
	ErrInvalidTarget  = errors.New("invalid target type")
	ErrTargetNotFound = errors.New("like target does not exist")
)

// targetExists checks the like target against the table its type points at.
// The userComment target is the submitter's own comment stored on the
// connection record, so it resolves to the connections table; threaded
// discussion comments have their own table.
func targetExists(db *gorm.DB, targetType, targetID string) (bool, error) {
	var count int64
	var err error
	switch targetType {
	case reviews.TargetReview:
		err = db.Model(&reviews.Review{}).Where("id = ?", targetID).Count(&count).Error
	case reviews.TargetConnectionComment:
		err = db.Model(&connections.ConnectionComment{}).Where("id = ?", targetID).Count(&count).Error
	case reviews.TargetUserComment:
		err = db.Model(&connections.Connection{}).Where("id = ?", targetID).Count(&count).Error
	case reviews.TargetConnectionSubmission:
		err = db.Model(&connections.ConnectionSubmission{}).Where("id = ?", targetID).Count(&count).Error
	default:
		return false, ErrInvalidTarget
	}
	return count > 0, err
}

// Toggle flips the caller's like on a target. Returns the resulting state:
// true when the like now exists. The unique index on (user, type, target)
// keeps a user's like single no matter how the toggle races.
func Toggle(db *gorm.DB, userID uint, targetType, targetID string) (bool, error) {
	if !reviews.IsValidTarget(targetType) {
		return false, ErrInvalidTarget
	}

	exists, err := targetExists(db, targetType, targetID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrTargetNotFound
	}

	var like reviews.Like
	err = db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, targetType, targetID).First(&like).Error
	switch {
	case err == nil:
		if err := db.Delete(&like).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		like = reviews.Like{UserID: userID, TargetType: targetType, TargetID: targetID}
		if err := db.Create(&like).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// CountFor returns the number of likes on a target.
func CountFor(db *gorm.DB, targetType, targetID string) (int64, error) {
	if !reviews.IsValidTarget(targetType) {
		return 0, ErrInvalidTarget
	}
	var count int64
	err := db.Model(&reviews.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}

// HasLiked reports whether the user currently likes the target.
func HasLiked(db *gorm.DB, userID uint, targetType, targetID string) (bool, error) {
	if !reviews.IsValidTarget(targetType) {
		return false, ErrInvalidTarget
	}
	var count int64
	err := db.Model(&reviews.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}
