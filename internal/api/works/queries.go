package works

import (
	"errors"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/reviews"
	"connections-app/internal/domain/works"

	"gorm.io/gorm"
)

var (
	ErrWorkNotFound       = errors.New("work does not exist")
	ErrSelfLink           = errors.New("cannot connect a work to itself")
	ErrInvalidPrimaryType = errors.New("primary connection can only be Adaptation or Sequel")
	ErrYearOrder          = errors.New("the year of the upstream work must be less than or equal to the downstream work")
	ErrLinkExists         = errors.New("this connection already exists")
	ErrLinkNotFound       = errors.New("connection does not exist")
)

type WorkSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Year  int    `json:"year"`
}

type LinkEntry struct {
	LinkID uint        `json:"link_id"`
	Work   WorkSummary `json:"work"`
	Type   string      `json:"type"`
}

// Adjacency is the four resolved lists shown on a work's details page.
type Adjacency struct {
	PrimaryUpstream     []LinkEntry `json:"primary_upstream_works"`
	PrimaryDownstream   []LinkEntry `json:"primary_downstream_works"`
	SecondaryUpstream   []LinkEntry `json:"secondary_upstream_works"`
	SecondaryDownstream []LinkEntry `json:"secondary_downstream_works"`
}

// buildAdjacency resolves a work's link rows to peer summaries. Links whose
// peer record has gone missing are skipped rather than failing the read.
func buildAdjacency(db *gorm.DB, workID string) (Adjacency, error) {
	adj := Adjacency{
		PrimaryUpstream:     []LinkEntry{},
		PrimaryDownstream:   []LinkEntry{},
		SecondaryUpstream:   []LinkEntry{},
		SecondaryDownstream: []LinkEntry{},
	}

	links, err := works.LinksOf(db, workID)
	if err != nil {
		return adj, err
	}
	if len(links) == 0 {
		return adj, nil
	}

	peerIDs := make([]string, 0, len(links))
	for _, l := range links {
		peerIDs = append(peerIDs, l.PeerID)
	}

	var peers []works.Work
	if err := db.Where("id IN ?", peerIDs).Find(&peers).Error; err != nil {
		return adj, err
	}
	byID := make(map[string]works.Work, len(peers))
	for _, p := range peers {
		byID[p.ID] = p
	}

	for _, l := range links {
		peer, ok := byID[l.PeerID]
		if !ok {
			continue
		}
		entry := LinkEntry{
			LinkID: l.ID,
			Work:   WorkSummary{ID: peer.ID, Title: peer.Title, Type: peer.Type, Year: peer.Year},
			Type:   l.Type,
		}
		switch {
		case l.Level == works.LevelPrimary && l.Direction == works.DirectionUpstream:
			adj.PrimaryUpstream = append(adj.PrimaryUpstream, entry)
		case l.Level == works.LevelPrimary && l.Direction == works.DirectionDownstream:
			adj.PrimaryDownstream = append(adj.PrimaryDownstream, entry)
		case l.Level == works.LevelSecondary && l.Direction == works.DirectionUpstream:
			adj.SecondaryUpstream = append(adj.SecondaryUpstream, entry)
		default:
			adj.SecondaryDownstream = append(adj.SecondaryDownstream, entry)
		}
	}

	return adj, nil
}

// DeleteWorkCascade removes a work and everything referencing it, in order:
// reviews, adjacency rows on both sides, connections, submissions, then the
// work itself. Peer works that no longer exist simply have no rows to
// delete, so the cascade never aborts half way.
func DeleteWorkCascade(db *gorm.DB, workID string) error {
	var work works.Work
	if err := db.First(&work, "id = ?", workID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_id = ?", workID).Delete(&reviews.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_id = ? OR peer_id = ?", workID, workID).Delete(&works.WorkLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_work_id = ? OR to_work_id = ?", workID, workID).
			Delete(&connections.Connection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_work_id = ? OR to_work_id = ?", workID, workID).
			Delete(&connections.ConnectionSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&work).Error
	})
}
