package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campuslink/backend/internal/app/controllers"
	"github.com/campuslink/backend/internal/middleware"
	"github.com/campuslink/backend/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	communityController *controllers.CommunityController,
	postController *controllers.PostController,
	projectController *controllers.ProjectController,
	startupController *controllers.StartupController,
	membershipController *controllers.MembershipController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// Profiles
		authenticated.GET("/profile", profileController.GetOwnProfile)
		authenticated.PUT("/profile", profileController.UpdateProfile)
		authenticated.GET("/users/:id/profile", profileController.GetPublicProfile)

		// Memberships
		authenticated.GET("/me/memberships", membershipController.GetMyMemberships)

		// Communities
		communities := authenticated.Group("/communities")
		{
			communities.GET("", communityController.GetCommunities)
			communities.GET("/joined", communityController.GetJoinedCommunities)
			communities.POST("", communityController.CreateCommunity)
			communities.POST("/join", communityController.JoinByCode)
			communities.GET("/:id", communityController.GetCommunityByID)
			communities.PUT("/:id", communityController.UpdateCommunity)
			communities.GET("/:id/members", communityController.GetCommunityMembers)
			communities.POST("/:id/members", communityController.JoinCommunity)
			communities.DELETE("/:id/members", communityController.LeaveCommunity)

			// Posts live inside their community
			communities.GET("/:id/posts", postController.GetPosts)
			communities.POST("/:id/posts", postController.CreatePost)
			communities.GET("/:id/posts/ws", wsHandler.HandleConnection)
		}

		// Projects
		projects := authenticated.Group("/projects")
		{
			projects.GET("", projectController.GetProjects)
			projects.POST("", projectController.CreateProject)
			projects.GET("/:id", projectController.GetProjectByID)
			projects.PUT("/:id", projectController.UpdateProject)
			projects.POST("/:id/members", projectController.JoinProject)
			projects.DELETE("/:id/members", projectController.LeaveProject)
		}

		// Startups
		startups := authenticated.Group("/startups")
		{
			startups.GET("", startupController.GetStartups)
			startups.POST("", startupController.CreateStartup)
			startups.GET("/:id", startupController.GetStartupByID)
			startups.PUT("/:id", startupController.UpdateStartup)
			startups.POST("/:id/members", startupController.JoinStartup)
			startups.DELETE("/:id/members", startupController.LeaveStartup)
		}
	}
}
