package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gamescope/app/internal/config"
	"gamescope/app/internal/docstore"
	"gamescope/app/internal/docstore/firestorestore"
	"gamescope/app/internal/docstore/gormstore"
	"gamescope/app/internal/docstore/mongostore"
	"gamescope/app/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Documents is the document repository selected by STORE_DRIVER.
var Documents docstore.Repository

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established.")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migrated successfully.")
}

// Migrate creates or updates the tables the server owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Account{}, &models.Session{}, &models.Document{})
}

// OpenDocuments connects the document repository for cfg.StoreDriver. The
// postgres driver reuses DB.
func OpenDocuments(ctx context.Context, cfg *config.Config) (docstore.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres, "":
		if DB == nil {
			return nil, fmt.Errorf("postgres document store needs a database connection")
		}
		return gormstore.New(DB), nil
	case config.DriverMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverFirestore:
		return firestorestore.Connect(ctx, cfg.FirestoreProject)
	}
	return nil, fmt.Errorf("unknown document store driver %q", cfg.StoreDriver)
}
