package connections

import (
	"errors"
	"net/http"

	"connections-app/database"
	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, connections.ErrConnectionNotFound),
		errors.Is(err, connections.ErrWorkNotFound):
		return http.StatusNotFound
	case errors.Is(err, connections.ErrDuplicateType),
		errors.Is(err, connections.ErrPrimaryConflict):
		return http.StatusConflict
	case errors.Is(err, connections.ErrYearOrder),
		errors.Is(err, connections.ErrMissingImages),
		errors.Is(err, connections.ErrMissingComment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// POST /connections
func CreateConnection(c *gin.Context) {
	var req struct {
		Type        string `json:"type" binding:"required"`
		FromWork    string `json:"from_work" binding:"required"`
		ToWork      string `json:"to_work" binding:"required"`
		ImagesFrom  string `json:"images_from"`
		ImagesTo    string `json:"images_to"`
		UserComment string `json:"user_comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !connections.IsValidType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid connection type"})
		return
	}

	conn, err := Create(database.DB, CreateInput{
		Type:        req.Type,
		FromWorkID:  req.FromWork,
		ToWorkID:    req.ToWork,
		ImagesFrom:  req.ImagesFrom,
		ImagesTo:    req.ImagesTo,
		UserComment: req.UserComment,
		SubmittedBy: c.GetUint("user_id"),
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, conn)
}

// GET /connections/:id
// Pending and rejected connections are visible only to the submitter and to
// admins.
func GetConnection(c *gin.Context) {
	var conn connections.Connection
	if err := database.DB.First(&conn, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Connection not found"})
		return
	}

	if conn.Status != connections.StatusApproved {
		role := c.GetString("role")
		isAdmin := role == users.RoleAdmin || role == users.RoleSuperAdmin
		if conn.SubmittedByID != c.GetUint("user_id") && !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "No access"})
			return
		}
	}

	c.JSON(http.StatusOK, conn)
}

// GET /connections?fromWork=&toWork=
// Returns all connections between the pair, both directions.
func GetConnections(c *gin.Context) {
	fromWork := c.Query("fromWork")
	toWork := c.Query("toWork")
	if fromWork == "" || toWork == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Must provide fromWork and toWork parameters"})
		return
	}

	var conns []connections.Connection
	err := pairScope(database.DB, fromWork, toWork).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load connections"})
		return
	}

	c.JSON(http.StatusOK, conns)
}

// GET /users/:userID/connections
func GetUserConnections(c *gin.Context) {
	var user users.User
	if err := database.DB.Where("user_id = ?", c.Param("userID")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var conns []connections.Connection
	err := database.DB.Where("submitted_by_id = ?", user.ID).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load connections"})
		return
	}

	c.JSON(http.StatusOK, conns)
}

// GET /admin/connections/pending
func GetPendingConnections(c *gin.Context) {
	var conns []connections.Connection
	err := database.DB.Where("status = ?", connections.StatusPending).
		Order("created_at ASC").
		Find(&conns).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pending connections"})
		return
	}

	c.JSON(http.StatusOK, conns)
}

// PATCH /connections/:id/review  (admin only)
func ReviewConnection(c *gin.Context) {
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

	conn, err := Review(database.DB, c.Param("id"), req.Decision, req.ReviewComment, c.GetUint("user_id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conn)
}

// DELETE /connections/:id  (admin only)
func DeleteConnection(c *gin.Context) {
	if err := Delete(database.DB, c.Param("id")); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Connection deleted successfully"})
}
