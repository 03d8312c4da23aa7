package db

import (
	"os"
	"worknest-backend/models"
	"worknest-backend/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.LogError(err, "Warning: impossible to load the .env file")
		utils.LogInfo("The environment variable DB_URL must be defined in the system environment")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		utils.LogError(nil, "Variable DB_URL not set")
		panic("database URL not configured")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		panic("Could not connect to the database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Candidate{},
		&models.Employer{},
		&models.SubscriptionPlan{},
		&models.Payment{},
		&models.EmployerSubscription{},
		&models.Job{},
		&models.SavedJob{},
		&models.AppliedJob{},
		&models.Question{},
		&models.Answer{},
		&models.Approval{},
		&models.InterviewSchedule{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.Notification{},
	)
	if err != nil {
		utils.LogError(err, "Error migrating database")
		panic("Could not migrate database")
	}

	utils.LogSuccess("Database connection successful")
}
