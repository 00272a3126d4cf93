package main

import (
	"github.com/skillbridge/skillbridge-backend/internal/config"
	"github.com/skillbridge/skillbridge-backend/internal/database"
	"github.com/skillbridge/skillbridge-backend/internal/logging"
	"github.com/skillbridge/skillbridge-backend/internal/routes"
	"github.com/skillbridge/skillbridge-backend/internal/services"
)

func main() {
	cfg := config.Load()

	logging.Init(cfg)
	log := logging.Logger

	log.Info("Starting SkillBridge backend...")
	log.Infof("Config loaded. Database type: %s", cfg.DatabaseType)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn("JWT_SECRET is not set; using the insecure development default")
	}

	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	authService := services.NewAuthService(cfg)
	if err := routes.SeedAdminUser(cfg, authService); err != nil {
		log.Warnf("Failed to seed admin user: %v", err)
	} else {
		log.Infof("Admin user ready (username: %s)", cfg.AdminUsername)
	}

	router := routes.SetupRouter(cfg)

	addr := cfg.ServerHost + ":" + cfg.ServerPort
	log.Infof("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
