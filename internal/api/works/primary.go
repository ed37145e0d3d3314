package works

import (
	"errors"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/works"

	"gorm.io/gorm"
)

// AddPrimaryLink records a primary connection directly from a work's details
// page. direction says where the target sits relative to the source work.
func AddPrimaryLink(db *gorm.DB, workID, targetID, connType, direction string) error {
	if workID == targetID {
		return ErrSelfLink
	}
	if connType != connections.TypeAdaptation && connType != connections.TypeSequel {
		return ErrInvalidPrimaryType
	}
	if direction != works.DirectionUpstream && direction != works.DirectionDownstream {
		return ErrLinkNotFound
	}

	var source, target works.Work
	if err := db.First(&source, "id = ?", workID).Error; err != nil {
		return ErrWorkNotFound
	}
	if err := db.First(&target, "id = ?", targetID).Error; err != nil {
		return ErrWorkNotFound
	}

	// Upstream year must not exceed downstream year.
	if direction == works.DirectionUpstream {
		if target.Year > source.Year {
			return ErrYearOrder
		}
	} else {
		if source.Year > target.Year {
			return ErrYearOrder
		}
	}

	var count int64
	err := db.Model(&works.WorkLink{}).
		Where("work_id = ? AND peer_id = ? AND level = ? AND direction = ?",
			workID, targetID, works.LevelPrimary, direction).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrLinkExists
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if direction == works.DirectionUpstream {
			return works.AddLinkPair(tx, targetID, workID, connType, works.LevelPrimary)
		}
		return works.AddLinkPair(tx, workID, targetID, connType, works.LevelPrimary)
	})
}

// UpdatePrimaryLink changes the type of an existing primary link on both
// mirror rows.
func UpdatePrimaryLink(db *gorm.DB, workID string, linkID uint, connType string) error {
	if connType != connections.TypeAdaptation && connType != connections.TypeSequel {
		return ErrInvalidPrimaryType
	}

	link, err := findPrimaryLink(db, workID, linkID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&works.WorkLink{}).Where("id = ?", link.ID).
			Update("type", connType).Error; err != nil {
			return err
		}
		return tx.Model(&works.WorkLink{}).
			Where("work_id = ? AND peer_id = ? AND level = ? AND direction = ?",
				link.PeerID, link.WorkID, works.LevelPrimary, mirrorDirection(link.Direction)).
			Update("type", connType).Error
	})
}

// DeletePrimaryLink removes both halves of a primary link.
func DeletePrimaryLink(db *gorm.DB, workID string, linkID uint) error {
	link, err := findPrimaryLink(db, workID, linkID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if link.Direction == works.DirectionUpstream {
			return works.RemoveLinkPair(tx, link.PeerID, link.WorkID, works.LevelPrimary)
		}
		return works.RemoveLinkPair(tx, link.WorkID, link.PeerID, works.LevelPrimary)
	})
}

func findPrimaryLink(db *gorm.DB, workID string, linkID uint) (*works.WorkLink, error) {
	var link works.WorkLink
	err := db.Where("id = ? AND work_id = ? AND level = ?", linkID, workID, works.LevelPrimary).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func mirrorDirection(d string) string {
	if d == works.DirectionUpstream {
		return works.DirectionDownstream
	}
	return works.DirectionUpstream
}
