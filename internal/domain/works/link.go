package works

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	LevelPrimary   = "primary"
	LevelSecondary = "secondary"

	DirectionUpstream   = "upstream"
	DirectionDownstream = "downstream"
)

// WorkLink is one directed adjacency entry. A recorded edge always consists
// of two rows: {work, peer, downstream} on the earlier work and the mirror
// {peer, work, upstream} on the later one, with the same type and level.
// The unique index keys on the target work only, so the same peer cannot
// appear twice in one list no matter the connection type.
type WorkLink struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	WorkID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_work_links_entry,priority:1;index" json:"-"`
	PeerID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_work_links_entry,priority:2;index" json:"work"`
	Level     string    `gorm:"not null;uniqueIndex:idx_work_links_entry,priority:3" json:"-"`
	Direction string    `gorm:"not null;uniqueIndex:idx_work_links_entry,priority:4" json:"-"`
	Type      string    `gorm:"not null" json:"type"`
	CreatedAt time.Time `json:"-"`
}

// AddLinkPair mirrors an approved edge onto both work records with set-add
// semantics: fromID gains a downstream entry for toID and toID gains the
// matching upstream entry. Repeating the call is a no-op.
func AddLinkPair(tx *gorm.DB, fromID, toID, connType, level string) error {
	rows := []WorkLink{
		{WorkID: fromID, PeerID: toID, Level: level, Direction: DirectionDownstream, Type: connType},
		{WorkID: toID, PeerID: fromID, Level: level, Direction: DirectionUpstream, Type: connType},
	}
	for _, row := range rows {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// RemoveLinkPair pulls both halves of an edge. Missing rows are not an error.
func RemoveLinkPair(tx *gorm.DB, fromID, toID, level string) error {
	if err := tx.Where(
		"work_id = ? AND peer_id = ? AND level = ? AND direction = ?",
		fromID, toID, level, DirectionDownstream,
	).Delete(&WorkLink{}).Error; err != nil {
		return err
	}
	return tx.Where(
		"work_id = ? AND peer_id = ? AND level = ? AND direction = ?",
		toID, fromID, level, DirectionUpstream,
	).Delete(&WorkLink{}).Error
}

// LinksOf returns every adjacency entry recorded on a work.
func LinksOf(db *gorm.DB, workID string) ([]WorkLink, error) {
	var links []WorkLink
	err := db.Where("work_id = ?", workID).Order("created_at ASC").Find(&links).Error
	return links, err
}
