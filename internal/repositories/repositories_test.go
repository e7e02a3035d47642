package repositories_test

import (
	"fmt"
	"testing"

	"pitwall/internal/database"
	"pitwall/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB returns a private in-memory SQLite database with both tables migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open("sqlite", dsn, &models.User{}, &models.Circuit{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
