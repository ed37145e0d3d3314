package connections

import (
	"errors"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// validateYearOrder enforces the ordering invariant shared by creation and
// review: the upstream (from) work's year must not be later than the
// downstream (to) work's year. Missing works surface as ErrWorkNotFound.
func validateYearOrder(db *gorm.DB, fromWorkID, toWorkID string) error {
	var from, to works.Work
	if err := db.First(&from, "id = ?", fromWorkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return connections.ErrWorkNotFound
		}
		return err
	}
	if err := db.First(&to, "id = ?", toWorkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return connections.ErrWorkNotFound
		}
		return err
	}
	if from.Year > to.Year {
		return connections.ErrYearOrder
	}
	return nil
}

// pairScope matches connections between two works in either direction.
func pairScope(db *gorm.DB, workAID, workBID string) *gorm.DB {
	return db.Where(
		"(from_work_id = ? AND to_work_id = ?) OR (from_work_id = ? AND to_work_id = ?)",
		workAID, workBID, workBID, workAID,
	)
}

// approvedPrimaryExists reports whether an approved primary connection is
// already recorded between the unordered pair. excludeID ignores the
// connection currently under review so re-approval does not conflict with
// itself.
func approvedPrimaryExists(db *gorm.DB, workAID, workBID, excludeID string) (bool, error) {
	var count int64
	q := pairScope(db.Model(&connections.Connection{}), workAID, workBID).
		Where("connection_level = ? AND status = ?", works.LevelPrimary, connections.StatusApproved)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func approvedSameTypeExists(db *gorm.DB, workAID, workBID, connType string) (bool, error) {
	var count int64
	err := pairScope(db.Model(&connections.Connection{}), workAID, workBID).
		Where("type = ? AND status = ?", connType, connections.StatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// appendPendingHistory records a freshly submitted connection id on the
// submitter's post history.
func appendPendingHistory(tx *gorm.DB, userDBID uint, connID string) error {
	var user users.User
	if err := tx.First(&user, userDBID).Error; err != nil {
		return err
	}
	history := user.PostHistory.Data()
	if !containsID(history.Pending, connID) {
		history.Pending = append(history.Pending, connID)
	}
	return tx.Model(&users.User{}).Where("id = ?", userDBID).
		Update("post_history", datatypes.NewJSONType(history)).Error
}

// moveHistory moves a connection id out of the pending bucket and into the
// decided one. Appends are guarded so re-reviewing a decided connection does
// not duplicate the entry.
func moveHistory(tx *gorm.DB, userDBID uint, connID, decision string) error {
	var user users.User
	if err := tx.First(&user, userDBID).Error; err != nil {
		return err
	}
	history := user.PostHistory.Data()
	history.Pending = removeID(history.Pending, connID)

	updates := map[string]interface{}{}
	switch decision {
	case connections.StatusApproved:
		if !containsID(history.Approved, connID) {
			history.Approved = append(history.Approved, connID)
			updates["connection_count"] = user.ConnectionCount + 1
		}
		history.Rejected = removeID(history.Rejected, connID)
	case connections.StatusRejected:
		if !containsID(history.Rejected, connID) {
			history.Rejected = append(history.Rejected, connID)
		}
		history.Approved = removeID(history.Approved, connID)
	}
	updates["post_history"] = datatypes.NewJSONType(history)

	return tx.Model(&users.User{}).Where("id = ?", userDBID).Updates(updates).Error
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
