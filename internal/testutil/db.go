// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"

	"smartchecklist/internal/database"
	"smartchecklist/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens an isolated in-memory database with the schema applied.
// The pool is pinned to one connection so every query sees the same
// in-memory database.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.EnsureSchema(t.Context(), db))
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateChecklist inserts a checklist owned by user.
func CreateChecklist(t testing.TB, db *gorm.DB, user *models.User, title string) *models.Checklist {
	t.Helper()
	checklist := &models.Checklist{UserID: user.ID, Title: title}
	require.NoError(t, db.Create(checklist).Error)
	return checklist
}

// CreateItem inserts an item. A nil parent makes a root item.
func CreateItem(t testing.TB, db *gorm.DB, checklistID uint, parent *models.Item, content string) *models.Item {
	t.Helper()
	item := &models.Item{ChecklistID: checklistID, Content: content}
	if parent != nil {
		item.ParentItemID = &parent.ID
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
