package connections

import (
	"testing"

	"connections-app/database"
	domain "connections-app/internal/domain/connections"
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

func createUser(t *testing.T, db *gorm.DB, username, role string) *users.User {
	t.Helper()
	user := users.User{
		Username: username,
		Password: "hashed",
		Nickname: username,
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createWork(t *testing.T, db *gorm.DB, title, workType string, year int) *works.Work {
	t.Helper()
	work := works.Work{
		Title:       title,
		Description: "test work",
		Type:        workType,
		Year:        year,
	}
	require.NoError(t, db.Create(&work).Error)
	return &work
}

func createPending(t *testing.T, db *gorm.DB, connType, fromID, toID string, submitterID uint) *domain.Connection {
	t.Helper()
	conn, err := Create(db, CreateInput{
		Type:        connType,
		FromWorkID:  fromID,
		ToWorkID:    toID,
		ImagesFrom:  "from.jpg",
		ImagesTo:    "to.jpg",
		UserComment: "clear influence on the later work",
		SubmittedBy: submitterID,
	})
	require.NoError(t, err)
	return conn
}

func linkCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&works.WorkLink{}).Count(&count).Error)
	return count
}

func TestReviewApprovalMirrorsAdjacency(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	hobbit := createWork(t, db, "The Hobbit", works.TypeBook, 1937)
	lotr := createWork(t, db, "The Lord of the Rings", works.TypeBook, 1954)

	conn := createPending(t, db, domain.TypeSequel, hobbit.ID, lotr.ID, submitter.ID)

	reviewed, err := Review(db, conn.ID, domain.StatusApproved, "looks right", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.AdminReview.ReviewedByID)
	assert.Equal(t, admin.ID, *reviewed.AdminReview.ReviewedByID)
	assert.Equal(t, "looks right", reviewed.AdminReview.ReviewComment)
	assert.NotNil(t, reviewed.AdminReview.ReviewedAt)

	// Both halves of the edge must exist with mirrored directions.
	var downstream, upstream works.WorkLink
	require.NoError(t, db.Where("work_id = ? AND peer_id = ?", hobbit.ID, lotr.ID).First(&downstream).Error)
	require.NoError(t, db.Where("work_id = ? AND peer_id = ?", lotr.ID, hobbit.ID).First(&upstream).Error)
	assert.Equal(t, works.DirectionDownstream, downstream.Direction)
	assert.Equal(t, works.DirectionUpstream, upstream.Direction)
	assert.Equal(t, works.LevelPrimary, downstream.Level)
	assert.Equal(t, domain.TypeSequel, downstream.Type)

	var fresh users.User
	require.NoError(t, db.First(&fresh, submitter.ID).Error)
	history := fresh.PostHistory.Data()
	assert.Contains(t, history.Approved, conn.ID)
	assert.NotContains(t, history.Pending, conn.ID)
	assert.Equal(t, 1, fresh.ConnectionCount)
}

func TestReviewRejectionLeavesAdjacencyAlone(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1990)
	b := createWork(t, db, "Work B", works.TypeScreen, 2000)

	conn := createPending(t, db, domain.TypeThematicEcho, a.ID, b.ID, submitter.ID)

	reviewed, err := Review(db, conn.ID, domain.StatusRejected, "not convincing", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, reviewed.Status)
	assert.Zero(t, linkCount(t, db))

	var fresh users.User
	require.NoError(t, db.First(&fresh, submitter.ID).Error)
	history := fresh.PostHistory.Data()
	assert.Contains(t, history.Rejected, conn.ID)
	assert.NotContains(t, history.Pending, conn.ID)
	assert.Zero(t, fresh.ConnectionCount)
}

func TestReviewPrimaryConflictForcesRejection(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	book := createWork(t, db, "Novel", works.TypeBook, 1960)
	film := createWork(t, db, "Film", works.TypeScreen, 1975)

	first := createPending(t, db, domain.TypeAdaptation, book.ID, film.ID, submitter.ID)
	_, err := Review(db, first.ID, domain.StatusApproved, "", admin.ID)
	require.NoError(t, err)

	// A second pending connection between the same pair, approved later,
	// is forced to rejected with the system comment.
	second := domain.Connection{
		Type:            domain.TypeVisualHomage,
		ConnectionLevel: works.LevelSecondary,
		FromWorkID:      book.ID,
		ToWorkID:        film.ID,
		ImagesFrom:      "a.jpg",
		ImagesTo:        "b.jpg",
		UserComment:     "shot for shot",
		SubmittedByID:   submitter.ID,
		Status:          domain.StatusPending,
	}
	require.NoError(t, db.Create(&second).Error)

	reviewed, err := Review(db, second.ID, domain.StatusApproved, "fine by me", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, reviewed.Status)
	assert.Equal(t, RejectSecondaryConflictComment, reviewed.AdminReview.ReviewComment)
	assert.Contains(t, reviewed.AdminReview.ReviewComment, "primary connection already exists")

	// Only the first approval's two mirror rows exist.
	assert.Equal(t, int64(2), linkCount(t, db))

	var fresh users.User
	require.NoError(t, db.First(&fresh, submitter.ID).Error)
	assert.Contains(t, fresh.PostHistory.Data().Rejected, second.ID)
}

func TestReviewYearOrderViolationKeepsPending(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	newer := createWork(t, db, "Newer", works.TypeScreen, 2010)
	older := createWork(t, db, "Older", works.TypeBook, 1950)

	// Bypass Create's own ordering check to exercise the one at review time.
	conn := domain.Connection{
		Type:            domain.TypeQuoteBorrowing,
		ConnectionLevel: works.LevelSecondary,
		FromWorkID:      newer.ID,
		ToWorkID:        older.ID,
		ImagesFrom:      "a.jpg",
		ImagesTo:        "b.jpg",
		UserComment:     "quotes it directly",
		SubmittedByID:   submitter.ID,
		Status:          domain.StatusPending,
	}
	require.NoError(t, db.Create(&conn).Error)

	_, err := Review(db, conn.ID, domain.StatusApproved, "", admin.ID)
	require.ErrorIs(t, err, domain.ErrYearOrder)

	var fresh domain.Connection
	require.NoError(t, db.First(&fresh, "id = ?", conn.ID).Error)
	assert.Equal(t, domain.StatusPending, fresh.Status)
	assert.Zero(t, linkCount(t, db))
}

func TestReviewReApprovalIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1937)
	b := createWork(t, db, "Work B", works.TypeBook, 1954)

	conn := createPending(t, db, domain.TypeSequel, a.ID, b.ID, submitter.ID)

	_, err := Review(db, conn.ID, domain.StatusApproved, "", admin.ID)
	require.NoError(t, err)
	reviewed, err := Review(db, conn.ID, domain.StatusApproved, "", admin.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, reviewed.Status)
	assert.Equal(t, int64(2), linkCount(t, db))

	var fresh users.User
	require.NoError(t, db.First(&fresh, submitter.ID).Error)
	history := fresh.PostHistory.Data()
	assert.Len(t, history.Approved, 1)
	assert.Equal(t, 1, fresh.ConnectionCount)
}

func TestReviewRejectedThenApproved(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1980)
	b := createWork(t, db, "Work B", works.TypeScreen, 1999)

	conn := createPending(t, db, domain.TypeCharacterInspiration, a.ID, b.ID, submitter.ID)

	_, err := Review(db, conn.ID, domain.StatusRejected, "need better evidence", admin.ID)
	require.NoError(t, err)
	reviewed, err := Review(db, conn.ID, domain.StatusApproved, "evidence holds up", admin.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, reviewed.Status)
	assert.Equal(t, int64(2), linkCount(t, db))

	var fresh users.User
	require.NoError(t, db.First(&fresh, submitter.ID).Error)
	history := fresh.PostHistory.Data()
	assert.Contains(t, history.Approved, conn.ID)
	assert.NotContains(t, history.Rejected, conn.ID)
}

func TestReviewMissingConnection(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)

	_, err := Review(db, "11111111-1111-1111-1111-111111111111", domain.StatusApproved, "", admin.ID)
	require.ErrorIs(t, err, domain.ErrConnectionNotFound)
}
