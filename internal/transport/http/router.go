package handlers

import (
	"time"

	"eduway/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *AuthHandler, profileHandler *ProfileHandler, limiter *middleware.RateLimiter, authMW gin.HandlerFunc, frontendURL string) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{frontendURL}
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	auth := r.Group("/auth")
	{
		auth.POST("/signup", limiter.Limit("signup", 5, 1*time.Minute), authHandler.Signup)
		auth.POST("/signin", limiter.Limit("signin", 5, 1*time.Minute), authHandler.Signin)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/welcome", authMW, authHandler.Welcome)
		auth.GET("/signout", authHandler.Signout)
	}

	profile := r.Group("/api/profile")
	profile.Use(authMW)
	{
		profile.GET("/:username", profileHandler.GetProfile)
		profile.PUT("/:username", profileHandler.UpdateProfile)
		profile.DELETE("/:username", profileHandler.DeleteProfile)
		profile.POST("/:username/save-learning-path", profileHandler.SaveLearningPath)
		profile.POST("/:username/complete-topic", profileHandler.CompleteTopic)
		profile.GET("/:username/badges", profileHandler.GetBadges)
		profile.GET("/:username/learning-progress", profileHandler.GetLearningProgress)
	}

	return r
}
