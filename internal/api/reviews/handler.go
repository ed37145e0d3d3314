package reviews

import (
	"errors"
	"net/http"

	"connections-app/database"
	"connections-app/internal/domain/reviews"

	"github.com/gin-gonic/gin"
)

// POST /reviews
func CreateOrUpdateReview(c *gin.Context) {
	var req struct {
		WorkID   string  `json:"work_id" binding:"required"`
		Rating   *int    `json:"rating"`
		Comment  string  `json:"comment"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := CreateOrUpdate(database.DB, req.WorkID, c.GetUint("user_id"), req.Rating, req.Comment, req.ParentID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrWorkNotFound), errors.Is(err, ErrParentNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrParentMismatch), errors.Is(err, ErrRatingRequired), errors.Is(err, ErrRatingRange):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review saved successfully", "data": review})
}

// GET /works/:id/reviews
func GetWorkReviews(c *gin.Context) {
	tree, err := FetchWorkReviews(database.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tree})
}

// GET /users/me/reviews
func GetMyReviews(c *gin.Context) {
	var list []reviews.Review
	err := database.DB.Where("user_id = ?", c.GetUint("user_id")).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
