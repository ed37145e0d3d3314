package comments

import (
	"errors"
	"net/http"

	"connections-app/database"
	"connections-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrCommentNotFound),
		errors.Is(err, ErrConnectionNotFound),
		errors.Is(err, ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrParentMismatch), errors.Is(err, ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthor):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// POST /connections/:id/comments
func CreateComment(c *gin.Context) {
	var req struct {
		Content  string  `json:"content" binding:"required"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := Create(database.DB, c.Param("id"), c.GetUint("user_id"), req.Content, req.ParentID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /connections/:id/comments
func GetConnectionComments(c *gin.Context) {
	tree, err := FetchConnectionComments(database.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tree})
}

// PUT /comments/:id
func UpdateComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := Update(database.DB, c.Param("id"), c.GetUint("user_id"), req.Content)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE /comments/:id
func DeleteComment(c *gin.Context) {
	role := c.GetString("role")
	isAdmin := role == users.RoleAdmin || role == users.RoleSuperAdmin

	if err := Delete(database.DB, c.Param("id"), c.GetUint("user_id"), isAdmin); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
