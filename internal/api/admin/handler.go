package admin

import (
	"errors"
	"net/http"

	"connections-app/database"
	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GET /admin/stats
func GetStats(c *gin.Context) {
	var userCount, workCount, pendingCount, approvedCount, rejectedCount int64

	db := database.DB
	db.Model(&users.User{}).Count(&userCount)
	db.Model(&works.Work{}).Count(&workCount)
	db.Model(&connections.Connection{}).Where("status = ?", connections.StatusPending).Count(&pendingCount)
	db.Model(&connections.Connection{}).Where("status = ?", connections.StatusApproved).Count(&approvedCount)
	db.Model(&connections.Connection{}).Where("status = ?", connections.StatusRejected).Count(&rejectedCount)

	c.JSON(http.StatusOK, gin.H{
		"users":                userCount,
		"works":                workCount,
		"pending_connections":  pendingCount,
		"approved_connections": approvedCount,
		"rejected_connections": rejectedCount,
	})
}

// GET /admin/connections/history
func GetApprovalHistory(c *gin.Context) {
	var list []connections.Connection
	err := database.DB.
		Where("status IN ?", []string{connections.StatusApproved, connections.StatusRejected}).
		Order("review_reviewed_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load approval history"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := database.DB.Order("created_at ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /admin/users/:userID/role  (super admin only)
func AppointAdminHandler(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := AppointAdmin(database.DB, c.Param("userID"), req.Action); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrInvalidAction):
			status = http.StatusBadRequest
		case errors.Is(err, ErrTargetSuperAdmin):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// POST /admin/transfer-super-admin  (super admin only)
// Requires the caller's password again before handing over the role.
func TransferSuperAdminHandler(c *gin.Context) {
	var req struct {
		Password     string `json:"password" binding:"required"`
		TargetUserID string `json:"target_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var current users.User
	if err := database.DB.First(&current, "id = ?", c.GetUint("user_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	if err := TransferSuperAdmin(database.DB, current.ID, req.TargetUserID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrNotSuperAdmin):
			status = http.StatusForbidden
		case errors.Is(err, ErrAlreadySuperAdmin):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Super admin role transferred successfully"})
}

// DELETE /admin/users/:userID  (super admin only)
func DeleteUser(c *gin.Context) {
	var target users.User
	if err := database.DB.First(&target, "user_id = ?", c.Param("userID")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.IsSuperAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete the super admin"})
		return
	}

	if err := database.DB.Delete(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
