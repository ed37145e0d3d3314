package works

import (
	"testing"

	"connections-app/database"
	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/reviews"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedWork(t *testing.T, db *gorm.DB, title string, year int) *works.Work {
	t.Helper()
	work := works.Work{Title: title, Description: "d", Type: works.TypeBook, Year: year}
	require.NoError(t, db.Create(&work).Error)
	return &work
}

func TestBuildAdjacencyBuckets(t *testing.T) {
	db := newTestDB(t)
	center := seedWork(t, db, "Center", 1960)
	upPrimary := seedWork(t, db, "Up Primary", 1950)
	downSecondary := seedWork(t, db, "Down Secondary", 1970)

	require.NoError(t, works.AddLinkPair(db, upPrimary.ID, center.ID, connections.TypeAdaptation, works.LevelPrimary))
	require.NoError(t, works.AddLinkPair(db, center.ID, downSecondary.ID, connections.TypeThematicEcho, works.LevelSecondary))

	adj, err := buildAdjacency(db, center.ID)
	require.NoError(t, err)

	require.Len(t, adj.PrimaryUpstream, 1)
	assert.Equal(t, "Up Primary", adj.PrimaryUpstream[0].Work.Title)
	assert.Equal(t, connections.TypeAdaptation, adj.PrimaryUpstream[0].Type)

	require.Len(t, adj.SecondaryDownstream, 1)
	assert.Equal(t, "Down Secondary", adj.SecondaryDownstream[0].Work.Title)

	assert.Empty(t, adj.PrimaryDownstream)
	assert.Empty(t, adj.SecondaryUpstream)
}

func TestBuildAdjacencySkipsMissingPeers(t *testing.T) {
	db := newTestDB(t)
	center := seedWork(t, db, "Center", 1960)
	ghost := seedWork(t, db, "Ghost", 1970)

	require.NoError(t, works.AddLinkPair(db, center.ID, ghost.ID, connections.TypeOther, works.LevelSecondary))
	require.NoError(t, db.Delete(&works.Work{}, "id = ?", ghost.ID).Error)

	adj, err := buildAdjacency(db, center.ID)
	require.NoError(t, err)
	assert.Empty(t, adj.SecondaryDownstream)
}

func TestDeleteWorkCascade(t *testing.T) {
	db := newTestDB(t)
	user := users.User{Username: "u1", Password: "hashed", Nickname: "u1", Role: users.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	doomed := seedWork(t, db, "Doomed", 1960)
	peer := seedWork(t, db, "Peer", 1970)

	rating := 7
	review := reviews.Review{WorkID: doomed.ID, UserID: user.ID, Rating: &rating, Comment: "fine"}
	require.NoError(t, db.Create(&review).Error)

	require.NoError(t, works.AddLinkPair(db, doomed.ID, peer.ID, connections.TypeThematicEcho, works.LevelSecondary))

	conn := connections.Connection{
		Type: connections.TypeThematicEcho, ConnectionLevel: works.LevelSecondary,
		FromWorkID: doomed.ID, ToWorkID: peer.ID,
		ImagesFrom: "a.jpg", ImagesTo: "b.jpg", UserComment: "c",
		SubmittedByID: user.ID, Status: connections.StatusApproved,
	}
	require.NoError(t, db.Create(&conn).Error)

	require.NoError(t, DeleteWorkCascade(db, doomed.ID))

	var workCount, reviewCount, linkCount, connCount int64
	require.NoError(t, db.Model(&works.Work{}).Where("id = ?", doomed.ID).Count(&workCount).Error)
	require.NoError(t, db.Model(&reviews.Review{}).Count(&reviewCount).Error)
	require.NoError(t, db.Model(&works.WorkLink{}).Count(&linkCount).Error)
	require.NoError(t, db.Model(&connections.Connection{}).Count(&connCount).Error)
	assert.Zero(t, workCount)
	assert.Zero(t, reviewCount)
	assert.Zero(t, linkCount, "mirror rows on the peer must go too")
	assert.Zero(t, connCount)

	// The peer itself is untouched.
	var peerCount int64
	require.NoError(t, db.Model(&works.Work{}).Where("id = ?", peer.ID).Count(&peerCount).Error)
	assert.Equal(t, int64(1), peerCount)
}

func TestDeleteWorkCascadeMissingWork(t *testing.T) {
	db := newTestDB(t)
	err := DeleteWorkCascade(db, "44444444-4444-4444-4444-444444444444")
	require.ErrorIs(t, err, ErrWorkNotFound)
}

func TestAddPrimaryLink(t *testing.T) {
	db := newTestDB(t)
	book := seedWork(t, db, "Novel", 1960)
	film := seedWork(t, db, "Film", 1975)

	t.Run("DownstreamTarget", func(t *testing.T) {
		require.NoError(t, AddPrimaryLink(db, book.ID, film.ID, connections.TypeAdaptation, works.DirectionDownstream))

		var link works.WorkLink
		require.NoError(t, db.Where("work_id = ? AND peer_id = ?", book.ID, film.ID).First(&link).Error)
		assert.Equal(t, works.DirectionDownstream, link.Direction)
		assert.Equal(t, works.LevelPrimary, link.Level)
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := AddPrimaryLink(db, book.ID, film.ID, connections.TypeAdaptation, works.DirectionDownstream)
		require.ErrorIs(t, err, ErrLinkExists)
	})

	t.Run("YearOrder", func(t *testing.T) {
		// Claiming the newer film as upstream of the older book must fail.
		err := AddPrimaryLink(db, book.ID, film.ID, connections.TypeSequel, works.DirectionUpstream)
		require.ErrorIs(t, err, ErrYearOrder)
	})

	t.Run("SecondaryTypeRefused", func(t *testing.T) {
		err := AddPrimaryLink(db, book.ID, film.ID, connections.TypeThematicEcho, works.DirectionDownstream)
		require.ErrorIs(t, err, ErrInvalidPrimaryType)
	})

	t.Run("SelfLink", func(t *testing.T) {
		err := AddPrimaryLink(db, book.ID, book.ID, connections.TypeSequel, works.DirectionDownstream)
		require.ErrorIs(t, err, ErrSelfLink)
	})
}

func TestDeletePrimaryLinkRemovesBothRows(t *testing.T) {
	db := newTestDB(t)
	book := seedWork(t, db, "Novel", 1960)
	film := seedWork(t, db, "Film", 1975)

	require.NoError(t, AddPrimaryLink(db, book.ID, film.ID, connections.TypeAdaptation, works.DirectionDownstream))

	var link works.WorkLink
	require.NoError(t, db.Where("work_id = ? AND peer_id = ?", film.ID, book.ID).First(&link).Error)

	// Deleting through the mirror row must still pull both halves.
	require.NoError(t, DeletePrimaryLink(db, film.ID, link.ID))

	var count int64
	require.NoError(t, db.Model(&works.WorkLink{}).Count(&count).Error)
	assert.Zero(t, count)

	t.Run("MissingLink", func(t *testing.T) {
		err := DeletePrimaryLink(db, film.ID, link.ID)
		require.ErrorIs(t, err, ErrLinkNotFound)
	})
}
