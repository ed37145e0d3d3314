package submissions

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/works"
	"connections-app/internal/infra/ai"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyReviewed    = errors.New("this submission has already been reviewed")
	ErrSelfConnection     = errors.New("cannot connect a work to itself")
	ErrTypeMismatch       = errors.New("work type mismatch")
	ErrYearMismatch       = errors.New("work year mismatch")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidType        = errors.New("invalid connection type")
	ErrCommentTooLong     = errors.New("user comment must not exceed 100 words")
)

// WorkStub is the submitter's claim about a work, checked against the
// authoritative record before anything else happens.
type WorkStub struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Year  int    `json:"year"`
}

type IntakeInput struct {
	WorkA       WorkStub
	WorkB       WorkStub
	Direction   string
	Type        string
	UserComment string
	ImageA      []byte
	ImageB      []byte
	CreatedBy   uint
}

// Intake validates a secondary-connection submission and, only once every
// check has passed, requests the AI judgment and persists the record. The
// ordering matters: a failed validation must never cost an AI call, and a
// failed AI call must never leave a partial submission behind.
func Intake(ctx context.Context, db *gorm.DB, judge ai.Judge, in IntakeInput) (*connections.ConnectionSubmission, error) {
	if !connections.IsSecondaryType(in.Type) {
		return nil, ErrInvalidType
	}
	if in.Direction != connections.DirectionAToB && in.Direction != connections.DirectionBToA {
		return nil, ErrInvalidDirection
	}
	if strings.TrimSpace(in.UserComment) == "" {
		return nil, connections.ErrMissingComment
	}
	if len(strings.Fields(in.UserComment)) > 100 {
		return nil, ErrCommentTooLong
	}
	if len(in.ImageA) == 0 || len(in.ImageB) == 0 {
		return nil, connections.ErrMissingImages
	}

	var workA, workB works.Work
	if err := db.First(&workA, "id = ?", in.WorkA.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connections.ErrWorkNotFound
		}
		return nil, err
	}
	if err := db.First(&workB, "id = ?", in.WorkB.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connections.ErrWorkNotFound
		}
		return nil, err
	}
	if workA.ID == workB.ID {
		return nil, ErrSelfConnection
	}
	if workA.Type != in.WorkA.Type || workB.Type != in.WorkB.Type {
		return nil, ErrTypeMismatch
	}
	if workA.Year != in.WorkA.Year || workB.Year != in.WorkB.Year {
		return nil, ErrYearMismatch
	}

	// The declared inspiration must not be newer than the inspired work.
	if in.Direction == connections.DirectionAToB {
		if workA.Year > workB.Year {
			return nil, connections.ErrYearOrder
		}
	} else {
		if workB.Year > workA.Year {
			return nil, connections.ErrYearOrder
		}
	}

	from, to := orient(in, workA, workB)

	judgment, err := judge.Judge(ctx, ai.JudgmentRequest{
		FromTitle:      from.snapshot.Title,
		FromType:       from.snapshot.Type,
		FromYear:       from.snapshot.Year,
		ToTitle:        to.snapshot.Title,
		ToType:         to.snapshot.Type,
		ToYear:         to.snapshot.Year,
		ConnectionType: in.Type,
		UserComment:    in.UserComment,
		FromImage:      from.image,
		ToImage:        to.image,
	})
	if err != nil {
		return nil, err
	}
	if len(judgment) > connections.AIJudgmentMaxLen {
		// Back off to a rune boundary so the cut never splits a character.
		cut := connections.AIJudgmentMaxLen
		for cut > 0 && !utf8.RuneStart(judgment[cut]) {
			cut--
		}
		judgment = judgment[:cut]
	}

	submission := connections.ConnectionSubmission{
		FromWorkID:  from.snapshot.ID,
		ToWorkID:    to.snapshot.ID,
		FromWork:    datatypes.NewJSONType(from.snapshot),
		ToWork:      datatypes.NewJSONType(to.snapshot),
		Direction:   in.Direction,
		Type:        in.Type,
		UserComment: in.UserComment,
		Status:      connections.StatusPending,
		AIJudgment:  judgment,
		CreatedByID: in.CreatedBy,
	}
	if err := db.Create(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

type orientedWork struct {
	snapshot connections.WorkSnapshot
	image    []byte
}

// orient resolves the direction sentence into from (inspiration) and to
// (inspired) sides, snapshotting title/type/year and the evidence image.
func orient(in IntakeInput, workA, workB works.Work) (from, to orientedWork) {
	snapA := connections.WorkSnapshot{ID: workA.ID, Title: workA.Title, Type: workA.Type, Year: workA.Year, Image: encodeImage(in.ImageA)}
	snapB := connections.WorkSnapshot{ID: workB.ID, Title: workB.Title, Type: workB.Type, Year: workB.Year, Image: encodeImage(in.ImageB)}

	if in.Direction == connections.DirectionAToB {
		return orientedWork{snapA, in.ImageA}, orientedWork{snapB, in.ImageB}
	}
	return orientedWork{snapB, in.ImageB}, orientedWork{snapA, in.ImageA}
}

// ReviewSubmission applies the admin decision. Approval of a secondary-type
// submission synthesizes the Connection record and mirrors the secondary
// adjacency entries on both works, all in one transaction. Rejection is
// terminal with no side effects. Submissions are single-shot: once decided,
// re-review is refused.
func ReviewSubmission(db *gorm.DB, submissionID, decision, reviewComment string, reviewerID uint) (*connections.ConnectionSubmission, error) {
	var submission connections.ConnectionSubmission
	if err := db.First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.Status != connections.StatusPending {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now()
	review := connections.AdminReview{
		ReviewedByID:  &reviewerID,
		Decision:      decision,
		ReviewComment: reviewComment,
		ReviewedAt:    &now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		submission.Status = decision
		submission.AdminReview = review
		if err := tx.Save(&submission).Error; err != nil {
			return err
		}

		if decision != connections.StatusApproved || !connections.IsSecondaryType(submission.Type) {
			return nil
		}

		conn := connections.Connection{
			Type:            submission.Type,
			ConnectionLevel: works.LevelSecondary,
			FromWorkID:      submission.FromWorkID,
			ToWorkID:        submission.ToWorkID,
			ImagesFrom:      submission.FromWork.Data().Image,
			ImagesTo:        submission.ToWork.Data().Image,
			UserComment:     submission.UserComment,
			SubmittedByID:   submission.CreatedByID,
			Status:          connections.StatusApproved,
			AdminReview:     review,
		}
		if err := tx.Create(&conn).Error; err != nil {
			return err
		}

		return works.AddLinkPair(tx, submission.FromWorkID, submission.ToWorkID, submission.Type, works.LevelSecondary)
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// DeleteSubmission removes a submission. For approved submissions this
// reverses the approval exactly: the synthesized Connection is deleted and
// the mirrored adjacency entries are pulled from both works.
func DeleteSubmission(db *gorm.DB, submissionID string) error {
	var submission connections.ConnectionSubmission
	if err := db.First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if submission.Status == connections.StatusApproved {
			var conn connections.Connection
			err := tx.Where(
				"from_work_id = ? AND to_work_id = ? AND type = ?",
				submission.FromWorkID, submission.ToWorkID, submission.Type,
			).First(&conn).Error
			if err == nil {
				if err := works.RemoveLinkPair(tx, submission.FromWorkID, submission.ToWorkID, works.LevelSecondary); err != nil {
					return err
				}
				if err := tx.Delete(&conn).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return tx.Delete(&submission).Error
	})
}

func encodeImage(img []byte) string {
	return base64.StdEncoding.EncodeToString(img)
}
