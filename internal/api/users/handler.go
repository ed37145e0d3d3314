package users

import (
	"net/http"
	"time"

	"connections-app/database"
	"connections-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GET /users/me
func GetCurrentUser(c *gin.Context) {
	var user users.User
	if err := database.DB.First(&user, "id = ?", c.GetUint("user_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /users/me
// Username, role and counters are not editable here.
func UpdateProfile(c *gin.Context) {
	var user users.User
	if err := database.DB.First(&user, "id = ?", c.GetUint("user_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input struct {
		Nickname  *string    `json:"nickname"`
		Avatar    *string    `json:"avatar"`
		Gender    *string    `json:"gender"`
		BirthDate *time.Time `json:"birth_date"`
		Bio       *string    `json:"bio"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Nickname != nil {
		user.Nickname = *input.Nickname
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update profile failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /users/:userID
func GetPublicProfile(c *gin.Context) {
	var user users.User
	if err := database.DB.First(&user, "user_id = ?", c.Param("userID")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":          user.UserID,
		"username":         user.Username,
		"nickname":         user.Nickname,
		"avatar":           user.Avatar,
		"bio":              user.Bio,
		"role":             user.Role,
		"rating_count":     user.RatingCount,
		"connection_count": user.ConnectionCount,
		"post_history":     user.PostHistory.Data(),
		"created_at":       user.CreatedAt,
	})
}
