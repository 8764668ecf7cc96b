package repository

import (
	"os"
	"testing"

	"smartchecklist/internal/models"
	"smartchecklist/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

// setupSQLite opens an isolated in-memory database with the schema applied.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}

func seedChecklist(t *testing.T, db *gorm.DB, username string) (*models.User, *models.Checklist) {
	t.Helper()
	user := testutil.CreateUser(t, db, username)
	return user, testutil.CreateChecklist(t, db, user, username+"'s list")
}

func seedItem(t *testing.T, db *gorm.DB, checklistID uint, parent *models.Item, content string) *models.Item {
	t.Helper()
	return testutil.CreateItem(t, db, checklistID, parent, content)
}
