package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"interviewiq/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.JobDescription{},
		&models.Question{},
		&models.Response{},
		&models.ResponseScore{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if err := db.Create(&models.User{ID: id, Email: email, PasswordHash: "hash"}).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

func createTestJobDescription(t *testing.T, db *gorm.DB, userID uuid.UUID, status models.JobDescriptionStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := db.Create(&models.JobDescription{
		ID:              id,
		UserID:          userID,
		CompanyName:     "Acme",
		JobTitle:        "Backend Engineer",
		DescriptionText: "Build APIs in Go.",
		Status:          status,
	}).Error
	if err != nil {
		t.Fatalf("failed to create test job description: %v", err)
	}
	return id
}

func createTestQuestion(t *testing.T, db *gorm.DB, jdID, userID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := db.Create(&models.Question{
		ID:               id,
		JobDescriptionID: jdID,
		UserID:           userID,
		QuestionText:     "Tell me about a challenging project.",
	}).Error
	if err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return id
}
