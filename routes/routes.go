package routes

import (
	"research-registry-api/controllers"
	"research-registry-api/middleware"
	"research-registry-api/monitor"
	"research-registry-api/services"

	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers that need wiring at startup.
type Controllers struct {
	Research *controllers.ResearchController
	Lookups  *controllers.LookupController
}

func SetupRoutes(router *gin.Engine, h Controllers) {
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Registry API is running",
				})
			})

			public.GET("/academic-years", h.Research.GetAcademicYears)
			public.GET("/departments", h.Lookups.GetDepartments)
			public.GET("/departments/:id/courses", h.Lookups.GetDepartmentCourses)
		}

		// Anonymous visitors may browse; a valid token narrows or widens the catalogue.
		research := v1.Group("/research")
		research.Use(middleware.OptionalAuth())
		{
			research.GET("", h.Research.ListResearch)
			research.POST("/:origin/:id/views", h.Research.RecordView)
			research.GET("/schema", middleware.RequireRole(services.RoleAdmin), h.Research.GetSchema)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(services.RoleAdmin))
		{
			monitor.RegisterLogRoutes(admin)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"success": false, "error": "Endpoint not found"})
	})
}
