package connections

import (
	"errors"
	"strings"
	"time"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/works"

	"gorm.io/gorm"
)

// System comments stamped on forced rejections when the primary-exclusivity
// rule fires during review.
const (
	RejectSecondaryConflictComment = "A primary connection already exists between these two works (adaptation or sequel); cannot establish a secondary connection"
	RejectPrimaryConflictComment   = "A primary connection already exists between these two works (adaptation or sequel); cannot establish another primary connection"
)

// Review runs the approval state machine: pending → approved | rejected.
// Approval re-validates the year ordering, enforces primary exclusivity
// (forcing the decision to rejected on conflict), stamps the admin review,
// moves the submitter's post history and mirrors the edge onto both work
// records. All writes happen in one transaction; a missing peer work aborts
// the whole transition.
//
// Re-reviewing an already decided connection is allowed and re-invokes all
// validation; the adjacency mirror is a set-add, so repeated approval never
// duplicates entries.
func Review(db *gorm.DB, connectionID, decision, reviewComment string, reviewerID uint) (*connections.Connection, error) {
	var conn connections.Connection
	if err := db.First(&conn, "id = ?", connectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connections.ErrConnectionNotFound
		}
		return nil, err
	}

	if decision == connections.StatusApproved {
		if err := validateYearOrder(db, conn.FromWorkID, conn.ToWorkID); err != nil {
			return nil, err
		}

		conflict, err := approvedPrimaryExists(db, conn.FromWorkID, conn.ToWorkID, conn.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			comment := RejectSecondaryConflictComment
			if conn.ConnectionLevel == works.LevelPrimary {
				comment = RejectPrimaryConflictComment
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				stampReview(&conn, connections.StatusRejected, comment, reviewerID)
				if err := tx.Save(&conn).Error; err != nil {
					return err
				}
				return moveHistory(tx, conn.SubmittedByID, conn.ID, connections.StatusRejected)
			})
			if err != nil {
				return nil, err
			}
			return &conn, nil
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		stampReview(&conn, decision, reviewComment, reviewerID)
		if err := tx.Save(&conn).Error; err != nil {
			return err
		}
		if err := moveHistory(tx, conn.SubmittedByID, conn.ID, decision); err != nil {
			return err
		}

		if decision == connections.StatusApproved {
			var count int64
			if err := tx.Model(&works.Work{}).
				Where("id IN ?", []string{conn.FromWorkID, conn.ToWorkID}).
				Count(&count).Error; err != nil {
				return err
			}
			if count != 2 {
				return connections.ErrWorkNotFound
			}
			return works.AddLinkPair(tx, conn.FromWorkID, conn.ToWorkID, conn.Type, conn.ConnectionLevel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func stampReview(conn *connections.Connection, decision, comment string, reviewerID uint) {
	now := time.Now()
	conn.Status = decision
	conn.AdminReview = connections.AdminReview{
		ReviewedByID:  &reviewerID,
		Decision:      decision,
		ReviewComment: comment,
		ReviewedAt:    &now,
	}
}

// CreateInput is the validated payload for a new primary-path connection.
type CreateInput struct {
	Type        string
	FromWorkID  string
	ToWorkID    string
	ImagesFrom  string
	ImagesTo    string
	UserComment string
	SubmittedBy uint
}

// Create persists a pending connection after running the §creation checks in
// order: works exist, evidence present, comment present, duplicate-type and
// primary-exclusivity conflicts, year ordering. The edge is NOT mirrored
// onto the works here; adjacency only changes when an admin approves.
func Create(db *gorm.DB, in CreateInput) (*connections.Connection, error) {
	var count int64
	if err := db.Model(&works.Work{}).
		Where("id IN ?", []string{in.FromWorkID, in.ToWorkID}).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count != 2 {
		return nil, connections.ErrWorkNotFound
	}

	if in.ImagesFrom == "" || in.ImagesTo == "" {
		return nil, connections.ErrMissingImages
	}
	if strings.TrimSpace(in.UserComment) == "" {
		return nil, connections.ErrMissingComment
	}

	level := connections.LevelForType(in.Type)

	dup, err := approvedSameTypeExists(db, in.FromWorkID, in.ToWorkID, in.Type)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, connections.ErrDuplicateType
	}

	// A primary edge blocks any further edge between the pair, whatever the
	// level of the candidate.
	conflict, err := approvedPrimaryExists(db, in.FromWorkID, in.ToWorkID, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, connections.ErrPrimaryConflict
	}

	if err := validateYearOrder(db, in.FromWorkID, in.ToWorkID); err != nil {
		return nil, err
	}

	conn := connections.Connection{
		Type:            in.Type,
		ConnectionLevel: level,
		FromWorkID:      in.FromWorkID,
		ToWorkID:        in.ToWorkID,
		ImagesFrom:      in.ImagesFrom,
		ImagesTo:        in.ImagesTo,
		UserComment:     strings.TrimSpace(in.UserComment),
		SubmittedByID:   in.SubmittedBy,
		Status:          connections.StatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conn).Error; err != nil {
			return err
		}
		return appendPendingHistory(tx, in.SubmittedBy, conn.ID)
	})
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Delete removes a connection and pulls any mirrored adjacency entries.
func Delete(db *gorm.DB, connectionID string) error {
	var conn connections.Connection
	if err := db.First(&conn, "id = ?", connectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return connections.ErrConnectionNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := works.RemoveLinkPair(tx, conn.FromWorkID, conn.ToWorkID, conn.ConnectionLevel); err != nil {
			return err
		}
		return tx.Delete(&conn).Error
	})
}
