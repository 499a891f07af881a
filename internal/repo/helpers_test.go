package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

// newTestDB returns a migrated, isolated in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{FullName: string(role), Email: uuid.NewString() + "@example.com", PasswordHash: "x", Role: role}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func mustTask(t *testing.T, db *gorm.DB, ownerID, title string) *domain.Task {
	t.Helper()
	task, err := CreateTask(context.Background(), db, ownerID, TaskFields{
		Title:        title,
		RewardAmount: decimal.NewFromInt(20),
		Urgency:      domain.UrgencyToday,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}
