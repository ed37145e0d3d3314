package routes

import (
	adminapi "connections-app/internal/api/admin"
	authapi "connections-app/internal/api/auth"
	commentsapi "connections-app/internal/api/comments"
	connectionsapi "connections-app/internal/api/connections"
	likesapi "connections-app/internal/api/likes"
	reviewsapi "connections-app/internal/api/reviews"
	submissionsapi "connections-app/internal/api/submissions"
	usersapi "connections-app/internal/api/users"
	worksapi "connections-app/internal/api/works"
	"connections-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	public.GET("/works", worksapi.ListWorks)
	public.GET("/works/search", worksapi.SearchWorks)
	public.GET("/works/:id", worksapi.GetWorkDetail)
	public.GET("/works/:id/reviews", reviewsapi.GetWorkReviews)

	public.GET("/connections", connectionsapi.GetConnections)
	public.GET("/connections/:id/comments", commentsapi.GetConnectionComments)
	public.GET("/submissions/by-work", submissionsapi.GetSubmissionsByWork)
	public.GET("/likes/count", likesapi.GetLikeCount)

	public.GET("/users/:userID", usersapi.GetPublicProfile)
	public.GET("/users/:userID/connections", connectionsapi.GetUserConnections)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())

	auth.GET("/users/me", usersapi.GetCurrentUser)
	auth.PUT("/users/me", usersapi.UpdateProfile)
	auth.GET("/users/me/reviews", reviewsapi.GetMyReviews)

	auth.POST("/reviews", reviewsapi.CreateOrUpdateReview)

	auth.POST("/likes/toggle", likesapi.ToggleLike)
	auth.GET("/likes/status", likesapi.CheckUserLike)

	auth.POST("/connections", connectionsapi.CreateConnection)
	auth.GET("/connections/:id", connectionsapi.GetConnection)
	auth.POST("/connections/:id/comments", commentsapi.CreateComment)
	auth.PUT("/comments/:id", commentsapi.UpdateComment)
	auth.DELETE("/comments/:id", commentsapi.DeleteComment)

	auth.POST("/submissions", submissionsapi.CreateSubmission)
	auth.GET("/submissions/mine", submissionsapi.GetMySubmissions)
	auth.GET("/submissions/:id", submissionsapi.GetSubmission)

	// Admin routes
	admin := r.Group("/")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())

	admin.POST("/works", worksapi.CreateWork)
	admin.PUT("/works/:id", worksapi.UpdateWork)
	admin.DELETE("/works/:id", worksapi.DeleteWork)
	admin.POST("/works/:id/primary-connections", worksapi.AddPrimaryConnection)
	admin.PUT("/works/:id/primary-connections/:connectionId", worksapi.UpdatePrimaryConnection)
	admin.DELETE("/works/:id/primary-connections/:connectionId", worksapi.DeletePrimaryConnection)

	admin.PATCH("/connections/:id/review", connectionsapi.ReviewConnection)
	admin.DELETE("/connections/:id", connectionsapi.DeleteConnection)

	admin.GET("/submissions", submissionsapi.GetAllSubmissions)
	admin.PATCH("/submissions/:id/review", submissionsapi.ReviewSubmissionHandler)
	admin.DELETE("/submissions/:id", submissionsapi.DeleteSubmissionHandler)

	admin.GET("/admin/stats", adminapi.GetStats)
	admin.GET("/admin/connections/pending", connectionsapi.GetPendingConnections)
	admin.GET("/admin/connections/history", adminapi.GetApprovalHistory)
	admin.GET("/admin/users", adminapi.ListAllUsers)

	// Super admin routes
	super := r.Group("/admin")
	super.Use(middleware.AuthMiddleware(), middleware.RequireSuperAdmin())

	super.POST("/users/:userID/role", adminapi.AppointAdminHandler)
	super.POST("/transfer-super-admin", adminapi.TransferSuperAdminHandler)
	super.DELETE("/users/:userID", adminapi.DeleteUser)
}
