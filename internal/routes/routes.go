package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skillbridge/skillbridge-backend/internal/config"
	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/handlers"
	"github.com/skillbridge/skillbridge-backend/internal/middleware"
	"github.com/skillbridge/skillbridge-backend/internal/models"
	"github.com/skillbridge/skillbridge-backend/internal/services"
)

// SetupRouter wires the single authoritative route table.
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"db_connected": database.GetDB() != nil,
		})
	})

	// Initialize services and handlers
	authService := services.NewAuthService(cfg)

	authHandler := handlers.NewAuthHandler(authService)
	companyHandler := handlers.NewCompanyHandler()
	skillHandler := handlers.NewSkillHandler()
	userHandler := handlers.NewUserHandler()
	projectHandler := handlers.NewProjectHandler()

	api := router.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(authService))
			{
				authProtected.GET("/profile", authHandler.GetProfile)
			}
		}

		// Company routes
		companies := api.Group("/companies")
		companies.Use(middleware.AuthMiddleware(authService))
		{
			companies.GET("", companyHandler.ListCompanies)
			companies.GET("/:id", companyHandler.GetCompany)
			companies.POST("", middleware.RequireAdmin(), companyHandler.CreateCompany)
			companies.PUT("/:id", middleware.RequireAdmin(), companyHandler.UpdateCompany)
			companies.DELETE("/:id", middleware.RequireAdmin(), companyHandler.DeleteCompany)
		}

		// Skill routes
		skills := api.Group("/skills")
		skills.Use(middleware.AuthMiddleware(authService))
		{
			skills.GET("", skillHandler.ListSkills)
			skills.GET("/:id", skillHandler.GetSkill)
			skills.POST("", middleware.RequireAdmin(), skillHandler.CreateSkill)
			skills.PUT("/:id", middleware.RequireAdmin(), skillHandler.UpdateSkill)
			skills.DELETE("/:id", middleware.RequireAdmin(), skillHandler.DeleteSkill)
		}

		// User routes
		users := api.Group("/users")
		users.Use(middleware.AuthMiddleware(authService))
		{
			users.GET("", middleware.RequireManager(), userHandler.ListUsers)
			users.GET("/:id", middleware.RequireSelfOrAdmin("id"), userHandler.GetUser)
			users.PUT("/:id", middleware.RequireSelfOrAdmin("id"), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)

			users.GET("/:id/skills", middleware.RequireSelfOrAdmin("id"), userHandler.GetUserSkills)
			users.POST("/:id/skills", middleware.RequireSelfOrAdmin("id"), userHandler.AddUserSkill)
			users.GET("/:id/projects", middleware.RequireSelfOrAdmin("id"), userHandler.GetUserProjects)
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(middleware.AuthMiddleware(authService))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", middleware.RequireManager(), projectHandler.CreateProject)
			projects.PUT("/:id", middleware.RequireManager(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireManager(), projectHandler.DeleteProject)

			projects.GET("/:id/members", projectHandler.GetProjectMembers)
			projects.POST("/:id/members", middleware.RequireManager(), projectHandler.AddProjectMember)
			projects.DELETE("/:id/members/:memberID", middleware.RequireManager(), projectHandler.RemoveProjectMember)

			projects.GET("/:id/skills", projectHandler.GetProjectSkills)
			projects.POST("/:id/skills", middleware.RequireManager(), projectHandler.AddProjectSkill)

			projects.GET("/:id/skill-gap", projectHandler.AnalyzeSkillGap)
		}
	}

	return router
}

// SeedAdminUser creates the default admin account if it does not exist
func SeedAdminUser(cfg *config.Config, authService *services.AuthService) error {
	if _, err := authService.GetUserByUsername(cfg.AdminUsername); err == nil {
		return nil // admin exists
	}

	_, err := authService.Register(cfg.AdminUsername, "", cfg.AdminPassword, "Admin", "User", models.RoleAdmin, nil)
	return err
}
