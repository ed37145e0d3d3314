package submissions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"connections-app/database"
	"connections-app/internal/domain/connections"
	"connections-app/internal/infra/ai"

	"github.com/gin-gonic/gin"
)

// Judge is the external AI collaborator, wired in main. Tests swap in stubs.
var Judge ai.Judge

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, connections.ErrWorkNotFound):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrJudgmentFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrAlreadyReviewed),
		errors.Is(err, ErrSelfConnection),
		errors.Is(err, ErrTypeMismatch),
		errors.Is(err, ErrYearMismatch),
		errors.Is(err, ErrInvalidDirection),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrCommentTooLong),
		errors.Is(err, connections.ErrYearOrder),
		errors.Is(err, connections.ErrMissingComment),
		errors.Is(err, connections.ErrMissingImages):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// POST /submissions
// Multipart form: workA/workB JSON stubs, direction, type, userComment and
// the two evidence images.
func CreateSubmission(c *gin.Context) {
	var workA, workB WorkStub
	if err := json.Unmarshal([]byte(c.PostForm("workA")), &workA); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workA format"})
		return
	}
	if err := json.Unmarshal([]byte(c.PostForm("workB")), &workB); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workB format"})
		return
	}

	imageA, okA := readFormImage(c, "workAImage")
	imageB, okB := readFormImage(c, "workBImage")
	if !okA || !okB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide workAImage and workBImage"})
		return
	}

	submission, err := Intake(c.Request.Context(), database.DB, Judge, IntakeInput{
		WorkA:       workA,
		WorkB:       workB,
		Direction:   c.PostForm("direction"),
		Type:        c.PostForm("type"),
		UserComment: c.PostForm("userComment"),
		ImageA:      imageA,
		ImageB:      imageB,
		CreatedBy:   c.GetUint("user_id"),
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": submission})
}

func readFormImage(c *gin.Context, field string) ([]byte, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// GET /submissions  (admin only)
func GetAllSubmissions(c *gin.Context) {
	var submissions []connections.ConnectionSubmission
	err := database.DB.Order("created_at DESC").Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": submissions})
}

// GET /submissions/mine
func GetMySubmissions(c *gin.Context) {
	var submissions []connections.ConnectionSubmission
	err := database.DB.Where("created_by_id = ?", c.GetUint("user_id")).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": submissions})
}

// GET /submissions/by-work?workId=
// Approved submissions touching a work, for the details page.
func GetSubmissionsByWork(c *gin.Context) {
	workID := c.Query("workId")
	if workID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Work ID is required"})
		return
	}

	var submissions []connections.ConnectionSubmission
	err := database.DB.
		Where("(from_work_id = ? OR to_work_id = ?) AND status = ?",
			workID, workID, connections.StatusApproved).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": submissions})
}

// GET /submissions/:id
func GetSubmission(c *gin.Context) {
	var submission connections.ConnectionSubmission
	if err := database.DB.First(&submission, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": submission})
}

// PATCH /submissions/:id/review  (admin only)
func ReviewSubmissionHandler(c *gin.Context) {
	var req struct {
		Decision      string `json:"decision" binding:"required"`
		ReviewComment string `json:"review_comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Decision != connections.StatusApproved && req.Decision != connections.StatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be approved or rejected"})
		return
	}

	submission, err := ReviewSubmission(database.DB, c.Param("id"), req.Decision, req.ReviewComment, c.GetUint("user_id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": submission})
}

// DELETE /submissions/:id  (admin only)
func DeleteSubmissionHandler(c *gin.Context) {
	if err := DeleteSubmission(database.DB, c.Param("id")); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted successfully"})
}
