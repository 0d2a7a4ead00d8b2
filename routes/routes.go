package routes

import (
	"github.com/walpass/health-tracker-app/config"
	"github.com/walpass/health-tracker-app/controllers"
	"github.com/walpass/health-tracker-app/middlewares"
	"github.com/walpass/health-tracker-app/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()

	authCtl := controllers.NewAuthController(services.NewAuthService(config.DB))
	userCtl := controllers.NewUserController(services.NewUserService(config.DB))
	recordCtl := controllers.NewRecordController(services.NewRecordService(config.DB, hub))
	groupCtl := controllers.NewGroupController(services.NewGroupService(config.DB))
	trendCtl := controllers.NewTrendController(services.NewTrendService(config.DB))
	realtimeCtl := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	// Protected routes
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/user/profile", userCtl.GetProfile)
		api.PUT("/user/profile", userCtl.UpdateProfile)

		api.GET("/records", recordCtl.List)
		api.POST("/records", recordCtl.Create)
		api.PUT("/records/:id", recordCtl.Update)
		api.DELETE("/records/:id", recordCtl.Delete)

		api.GET("/trends/weight", trendCtl.Weight)
		api.GET("/trends/bmi", trendCtl.BMI)

		api.POST("/groups", groupCtl.Create)
		api.GET("/groups/candidates", groupCtl.SearchCandidates)
		api.POST("/groups/members", groupCtl.Invite)
		api.DELETE("/groups/members/:id", groupCtl.Remove)
		api.GET("/groups/overview", groupCtl.MemberLatestRecords)
		api.GET("/groups/members/:id/records", groupCtl.MemberRecords)

		api.GET("/ws", realtimeCtl.DashboardWS)
	}

	return r
}
