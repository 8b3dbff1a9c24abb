package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func mustItem(t *testing.T, db *DB, ownerID int64, name, description string, available bool) *models.Item {
	t.Helper()
	it := &models.Item{Name: name, Description: description, Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), it))
	return it
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNewDB_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shareit.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	mustUser(t, db, "Alice", "alice@example.com")
	require.NoError(t, db.Close())

	db, err = NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	users, err := db.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDB_ErrorPaths(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	db.Close()

	ctx := context.Background()

	t.Run("CreateUser", func(t *testing.T) {
		assert.Error(t, db.CreateUser(ctx, &models.User{Name: "x", Email: "x@example.com"}))
	})
	t.Run("GetAllUsers", func(t *testing.T) {
		_, err := db.GetAllUsers(ctx)
		assert.Error(t, err)
	})
	t.Run("SearchItems", func(t *testing.T) {
		_, err := db.SearchItems(ctx, "drill", models.DefaultPage())
		assert.Error(t, err)
	})
	t.Run("ListBookings", func(t *testing.T) {
		_, err := db.ListBookings(ctx, models.BookingFilter{BookerID: 1, State: models.StateAll, Page: models.DefaultPage()})
		assert.Error(t, err)
	})
	t.Run("Ping", func(t *testing.T) {
		assert.Error(t, db.Ping(ctx))
	})
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
