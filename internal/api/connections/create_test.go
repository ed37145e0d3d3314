package connections

import (
	"testing"

	domain "connections-app/internal/domain/connections"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeavesAdjacencyUntouched(t *testing.T) {
	db := newTestDB(t)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1937)
	b := createWork(t, db, "Work B", works.TypeBook, 1954)

	conn := createPending(t, db, domain.TypeSequel, a.ID, b.ID, submitter.ID)

	assert.Equal(t, domain.StatusPending, conn.Status)
	assert.Equal(t, works.LevelPrimary, conn.ConnectionLevel)
	assert.Zero(t, linkCount(t, db))

	var fresh users.User
	require.NoError(t, db.First(&fresh, submitter.ID).Error)
	assert.Contains(t, fresh.PostHistory.Data().Pending, conn.ID)
}

func TestCreateDuplicateTypeConflict(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1970)
	b := createWork(t, db, "Work B", works.TypeScreen, 1985)

	conn := createPending(t, db, domain.TypeThematicEcho, a.ID, b.ID, submitter.ID)
	_, err := Review(db, conn.ID, domain.StatusApproved, "", admin.ID)
	require.NoError(t, err)

	// Same pair, same type, opposite direction still counts as a duplicate.
	_, err = Create(db, CreateInput{
		Type:        domain.TypeThematicEcho,
		FromWorkID:  b.ID,
		ToWorkID:    a.ID,
		ImagesFrom:  "x.jpg",
		ImagesTo:    "y.jpg",
		UserComment: "same theme again",
		SubmittedBy: submitter.ID,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateType)
}

func TestCreateBlockedByApprovedPrimary(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	book := createWork(t, db, "Novel", works.TypeBook, 1960)
	film := createWork(t, db, "Film", works.TypeScreen, 1975)

	conn := createPending(t, db, domain.TypeAdaptation, book.ID, film.ID, submitter.ID)
	_, err := Review(db, conn.ID, domain.StatusApproved, "", admin.ID)
	require.NoError(t, err)

	_, err = Create(db, CreateInput{
		Type:        domain.TypeVisualHomage,
		FromWorkID:  book.ID,
		ToWorkID:    film.ID,
		ImagesFrom:  "x.jpg",
		ImagesTo:    "y.jpg",
		UserComment: "also borrows framing",
		SubmittedBy: submitter.ID,
	})
	require.ErrorIs(t, err, domain.ErrPrimaryConflict)
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1990)
	b := createWork(t, db, "Work B", works.TypeScreen, 2005)

	base := CreateInput{
		Type:        domain.TypeOther,
		FromWorkID:  a.ID,
		ToWorkID:    b.ID,
		ImagesFrom:  "x.jpg",
		ImagesTo:    "y.jpg",
		UserComment: "a fair comment",
		SubmittedBy: submitter.ID,
	}

	t.Run("MissingWork", func(t *testing.T) {
		in := base
		in.ToWorkID = "22222222-2222-2222-2222-222222222222"
		_, err := Create(db, in)
		assert.ErrorIs(t, err, domain.ErrWorkNotFound)
	})

	t.Run("MissingImages", func(t *testing.T) {
		in := base
		in.ImagesTo = ""
		_, err := Create(db, in)
		assert.ErrorIs(t, err, domain.ErrMissingImages)
	})

	t.Run("MissingComment", func(t *testing.T) {
		in := base
		in.UserComment = "   "
		_, err := Create(db, in)
		assert.ErrorIs(t, err, domain.ErrMissingComment)
	})

	t.Run("YearOrder", func(t *testing.T) {
		in := base
		in.FromWorkID = b.ID
		in.ToWorkID = a.ID
		_, err := Create(db, in)
		assert.ErrorIs(t, err, domain.ErrYearOrder)
	})
}

func TestDeleteRemovesMirroredLinks(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin1", users.RoleAdmin)
	submitter := createUser(t, db, "submitter1", users.RoleUser)
	a := createWork(t, db, "Work A", works.TypeBook, 1937)
	b := createWork(t, db, "Work B", works.TypeBook, 1954)

	conn := createPending(t, db, domain.TypeSequel, a.ID, b.ID, submitter.ID)
	_, err := Review(db, conn.ID, domain.StatusApproved, "", admin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), linkCount(t, db))

	require.NoError(t, Delete(db, conn.ID))
	assert.Zero(t, linkCount(t, db))

	var count int64
	require.NoError(t, db.Model(&domain.Connection{}).Count(&count).Error)
	assert.Zero(t, count)
}
