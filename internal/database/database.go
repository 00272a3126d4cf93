package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillbridge/skillbridge-backend/internal/config"
	"github.com/skillbridge/skillbridge-backend/internal/logging"
	"github.com/skillbridge/skillbridge-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg *config.Config) error {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique-constraint violations as gorm.ErrDuplicatedKey
		// so handlers can answer 409 instead of 500.
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	DB = db
	logging.Logger.Info("Database connected successfully")

	if err := autoMigrate(); err != nil {
		return err
	}

	if err := seedData(); err != nil {
		logging.Logger.Warnf("seed data error: %v", err)
	}

	return nil
}

func autoMigrate() error {
	return DB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Skill{},
		&models.UserSkill{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectSkill{},
	)
}

func seedData() error {
	// Seed a starter skill catalog if empty
	var count int64
	DB.Model(&models.Skill{}).Count(&count)
	if count == 0 {
		skills := []models.Skill{
			{Name: "Go", Category: "Programming", Description: "Go programming language"},
			{Name: "Python", Category: "Programming", Description: "Python programming language"},
			{Name: "JavaScript", Category: "Programming", Description: "JavaScript and the web platform"},
			{Name: "SQL", Category: "Data", Description: "Relational databases and SQL"},
			{Name: "Kubernetes", Category: "Infrastructure", Description: "Container orchestration"},
			{Name: "Project Management", Category: "Management", Description: "Planning and delivery"},
			{Name: "UI Design", Category: "Design", Description: "User interface design"},
		}
		for _, skill := range skills {
			DB.Create(&skill)
		}
		logging.Logger.Info("Seeded skill catalog")
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}
