package reviews

import (
	"errors"

	"connections-app/internal/domain/reviews"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"

	"gorm.io/gorm"
)

var (
	ErrWorkNotFound   = errors.New("work not found")
	ErrParentNotFound = errors.New("parent review not found")
	ErrParentMismatch = errors.New("parent review does not belong to this work")
	ErrRatingRequired = errors.New("root review must include a rating")
	ErrRatingRange    = errors.New("rating must be between 1 and 10")
)

// CreateOrUpdate writes a review. Replies never carry a rating; root reviews
// must, and there is one root per (work, user) which is updated in place.
// The work's average rating is maintained incrementally alongside.
func CreateOrUpdate(db *gorm.DB, workID string, userID uint, rating *int, comment string, parentID *string) (*reviews.Review, error) {
	var work works.Work
	if err := db.First(&work, "id = ?", workID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent reviews.Review
		if err := db.First(&parent, "id = ?", *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.WorkID != workID {
			return nil, ErrParentMismatch
		}

		reply := reviews.Review{
			WorkID:   workID,
			UserID:   userID,
			Comment:  comment,
			ParentID: parentID,
		}
		if err := db.Create(&reply).Error; err != nil {
			return nil, err
		}
		return &reply, nil
	}

	if rating == nil {
		return nil, ErrRatingRequired
	}
	if *rating < 1 || *rating > 10 {
		return nil, ErrRatingRange
	}

	var review reviews.Review
	err := db.Where("work_id = ? AND user_id = ? AND parent_id IS NULL", workID, userID).
		First(&review).Error
	switch {
	case err == nil:
		// Update the existing root review and re-derive the average.
		oldRating := 0
		if review.Rating != nil {
			oldRating = *review.Rating
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			review.Rating = rating
			review.Comment = comment
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
			total := work.AverageRating*float64(work.RatingCount) - float64(oldRating) + float64(*rating)
			work.AverageRating = total / float64(work.RatingCount)
			return tx.Save(&work).Error
		})
		if txErr != nil {
			return nil, txErr
		}
		return &review, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		review = reviews.Review{
			WorkID:  workID,
			UserID:  userID,
			Rating:  rating,
			Comment: comment,
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			total := work.AverageRating*float64(work.RatingCount) + float64(*rating)
			work.RatingCount++
			work.AverageRating = total / float64(work.RatingCount)
			if err := tx.Save(&work).Error; err != nil {
				return err
			}
			return tx.Model(&users.User{}).Where("id = ?", userID).
				UpdateColumn("rating_count", gorm.Expr("rating_count + 1")).Error
		})
		if txErr != nil {
			return nil, txErr
		}
		return &review, nil

	default:
		return nil, err
	}
}

type ReviewNode struct {
	reviews.Review
	Replies []*ReviewNode `json:"replies"`
}

// FetchWorkReviews returns all root reviews of a work, newest first, with
// their full reply trees. Replies are accumulated breadth-first over the
// parent index, level by level, so deep threads cannot blow the stack.
func FetchWorkReviews(db *gorm.DB, workID string) ([]*ReviewNode, error) {
	var roots []reviews.Review
	err := db.Where("work_id = ? AND parent_id IS NULL", workID).
		Order("created_at DESC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*ReviewNode)
	result := make([]*ReviewNode, 0, len(roots))
	frontier := make([]string, 0, len(roots))
	for _, r := range roots {
		node := &ReviewNode{Review: r, Replies: []*ReviewNode{}}
		nodes[r.ID] = node
		result = append(result, node)
		frontier = append(frontier, r.ID)
	}

	for len(frontier) > 0 {
		var replies []reviews.Review
		err := db.Where("parent_id IN ?", frontier).
			Order("created_at ASC").
			Find(&replies).Error
		if err != nil {
			return nil, err
		}
		if len(replies) == 0 {
			break
		}

		next := make([]string, 0, len(replies))
		for _, r := range replies {
			node := &ReviewNode{Review: r, Replies: []*ReviewNode{}}
			nodes[r.ID] = node
			if parent, ok := nodes[*r.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
			}
			next = append(next, r.ID)
		}
		frontier = next
	}

	return result, nil
}
