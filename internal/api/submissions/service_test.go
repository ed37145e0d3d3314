package submissions

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"connections-app/database"
	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"
	"connections-app/internal/infra/ai"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubJudge records invocations instead of calling OpenAI.
type stubJudge struct {
	calls  int
	result string
	err    error
}

func (s *stubJudge) Judge(ctx context.Context, req ai.JudgmentRequest) (string, error) {
	s.calls++
	return s.result, s.err
}

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

func seedPair(t *testing.T, db *gorm.DB) (works.Work, works.Work, users.User) {
	t.Helper()

	earlier := works.Work{Title: "Earlier", Description: "d", Type: works.TypeBook, Year: 1960}
	later := works.Work{Title: "Later", Description: "d", Type: works.TypeScreen, Year: 1980}
	require.NoError(t, db.Create(&earlier).Error)
	require.NoError(t, db.Create(&later).Error)

	user := users.User{Username: "submitter1", Password: "hashed", Nickname: "submitter1", Role: users.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return earlier, later, user
}

func validInput(earlier, later works.Work, userID uint) IntakeInput {
	return IntakeInput{
		WorkA:       WorkStub{ID: earlier.ID, Title: earlier.Title, Type: earlier.Type, Year: earlier.Year},
		WorkB:       WorkStub{ID: later.ID, Title: later.Title, Type: later.Type, Year: later.Year},
		Direction:   connections.DirectionAToB,
		Type:        connections.TypeVisualHomage,
		UserComment: "the framing of the opening scene matches",
		ImageA:      []byte("image-a"),
		ImageB:      []byte("image-b"),
		CreatedBy:   userID,
	}
}

func TestIntakeValidationNeverCallsJudge(t *testing.T) {
	db := newTestDB(t)
	earlier, later, user := seedPair(t, db)
	judge := &stubJudge{result: "plausible"}

	cases := []struct {
		name    string
		mutate  func(*IntakeInput)
		wantErr error
	}{
		{"PrimaryType", func(in *IntakeInput) { in.Type = connections.TypeAdaptation }, ErrInvalidType},
		{"BadDirection", func(in *IntakeInput) { in.Direction = "sideways" }, ErrInvalidDirection},
		{"EmptyComment", func(in *IntakeInput) { in.UserComment = "  " }, connections.ErrMissingComment},
		{"CommentTooLong", func(in *IntakeInput) { in.UserComment = strings.Repeat("word ", 101) }, ErrCommentTooLong},
		{"MissingImage", func(in *IntakeInput) { in.ImageB = nil }, connections.ErrMissingImages},
		{"UnknownWork", func(in *IntakeInput) { in.WorkB.ID = "33333333-3333-3333-3333-333333333333" }, connections.ErrWorkNotFound},
		{"SelfConnection", func(in *IntakeInput) { in.WorkB = in.WorkA }, ErrSelfConnection},
		{"TypeMismatch", func(in *IntakeInput) { in.WorkA.Type = works.TypeScreen }, ErrTypeMismatch},
		{"YearMismatch", func(in *IntakeInput) { in.WorkB.Year = 1999 }, ErrYearMismatch},
		{"DirectionYearOrder", func(in *IntakeInput) { in.Direction = connections.DirectionBToA }, connections.ErrYearOrder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(earlier, later, user.ID)
			tc.mutate(&in)
			_, err := Intake(context.Background(), db, judge, in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Zero(t, judge.calls, "a failed validation must not cost an AI call")

	var count int64
	require.NoError(t, db.Model(&connections.ConnectionSubmission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIntakeFailedJudgmentPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	earlier, later, user := seedPair(t, db)
	judge := &stubJudge{err: ai.ErrJudgmentFailed}

	_, err := Intake(context.Background(), db, judge, validInput(earlier, later, user.ID))
	require.ErrorIs(t, err, ai.ErrJudgmentFailed)
	assert.Equal(t, 1, judge.calls)

	var count int64
	require.NoError(t, db.Model(&connections.ConnectionSubmission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIntakeStoresTruncatedJudgment(t *testing.T) {
	db := newTestDB(t)
	earlier, later, user := seedPair(t, db)
	judge := &stubJudge{result: strings.Repeat("x", 2500)}

	submission, err := Intake(context.Background(), db, judge, validInput(earlier, later, user.ID))
	require.NoError(t, err)
	assert.Len(t, submission.AIJudgment, connections.AIJudgmentMaxLen)
	assert.Equal(t, connections.StatusPending, submission.Status)

	// Direction A→B: the earlier work is the inspiration side.
	assert.Equal(t, earlier.ID, submission.FromWorkID)
	assert.Equal(t, later.ID, submission.ToWorkID)
	assert.Equal(t, "Earlier", submission.FromWork.Data().Title)
	assert.NotEmpty(t, submission.FromWork.Data().Image)
}

func TestIntakeTruncationKeepsRuneBoundary(t *testing.T) {
	db := newTestDB(t)
	earlier, later, user := seedPair(t, db)
	// 2100 bytes of three-byte runes; a byte-offset cut at the limit would
	// land mid-rune.
	judge := &stubJudge{result: strings.Repeat("连", 700)}

	submission, err := Intake(context.Background(), db, judge, validInput(earlier, later, user.ID))
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(submission.AIJudgment))
	assert.LessOrEqual(t, len(submission.AIJudgment), connections.AIJudgmentMaxLen)
	assert.Equal(t, 1998, len(submission.AIJudgment))
}

func TestIntakeOrientsReversedDirection(t *testing.T) {
	db := newTestDB(t)
	bookWork, screenWork, user := seedPair(t, db)

	judge := &stubJudge{result: "plausible"}
	in := IntakeInput{
		WorkA:       WorkStub{ID: screenWork.ID, Title: screenWork.Title, Type: screenWork.Type, Year: screenWork.Year},
		WorkB:       WorkStub{ID: bookWork.ID, Title: bookWork.Title, Type: bookWork.Type, Year: bookWork.Year},
		Direction:   connections.DirectionBToA,
		Type:        connections.TypeQuoteBorrowing,
		UserComment: "lines lifted almost verbatim",
		ImageA:      []byte("image-a"),
		ImageB:      []byte("image-b"),
		CreatedBy:   user.ID,
	}

	submission, err := Intake(context.Background(), db, judge, in)
	require.NoError(t, err)
	assert.Equal(t, bookWork.ID, submission.FromWorkID)
	assert.Equal(t, screenWork.ID, submission.ToWorkID)
}

func TestReviewSubmissionApproveSynthesizesConnection(t *testing.T) {
	db := newTestDB(t)
	earlier, later, user := seedPair(t, db)
	admin := users.User{Username: "admin1", Password: "hashed", Nickname: "admin1", Role: users.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	judge := &stubJudge{result: "plausible"}
	submission, err := Intake(context.Background(), db, judge, validInput(earlier, later, user.ID))
	require.NoError(t, err)

	reviewed, err := ReviewSubmission(db, submission.ID, connections.StatusApproved, "good evidence", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, connections.StatusApproved, reviewed.Status)

	var conn connections.Connection
	require.NoError(t, db.First(&conn, "from_work_id = ? AND to_work_id = ?", earlier.ID, later.ID).Error)
	assert.Equal(t, connections.TypeVisualHomage, conn.Type)
	assert.Equal(t, works.LevelSecondary, conn.ConnectionLevel)
	assert.Equal(t, connections.StatusApproved, conn.Status)
	assert.Equal(t, user.ID, conn.SubmittedByID)

	var links []works.WorkLink
	require.NoError(t, db.Find(&links).Error)
	require.Len(t, links, 2)
	for _, l := range links {
		assert.Equal(t, works.LevelSecondary, l.Level)
	}

	// Submissions are single-shot.
	_, err = ReviewSubmission(db, submission.ID, connections.StatusRejected, "", admin.ID)
	require.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestDeleteSubmissionReversesApproval(t *testing.T) {
	db := newTestDB(t)
	earlier, later, user := seedPair(t, db)
	admin := users.User{Username: "admin1", Password: "hashed", Nickname: "admin1", Role: users.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	judge := &stubJudge{result: "plausible"}
	submission, err := Intake(context.Background(), db, judge, validInput(earlier, later, user.ID))
	require.NoError(t, err)
	_, err = ReviewSubmission(db, submission.ID, connections.StatusApproved, "", admin.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteSubmission(db, submission.ID))

	var connCount, linkCount, subCount int64
	require.NoError(t, db.Model(&connections.Connection{}).Count(&connCount).Error)
	require.NoError(t, db.Model(&works.WorkLink{}).Count(&linkCount).Error)
	require.NoError(t, db.Model(&connections.ConnectionSubmission{}).Count(&subCount).Error)
	assert.Zero(t, connCount)
	assert.Zero(t, linkCount)
	assert.Zero(t, subCount)
}
