package database

import (
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthtrack/backend/internal/models"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	logrus.Info("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Relationship{},
		&models.FriendGroup{},
		&models.DiaryEntry{},
		&models.A1CRecord{},
		&models.MedicalProfile{},
		&models.UserSettings{},
		&models.ShareRecord{},
		&models.News{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to migrate database")
	}

	logrus.Info("Database migrated successfully")
}
