// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"errors"
	"testing"

	"github.com/chartcyanvas/backend/internal/database"
	"github.com/chartcyanvas/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive and
	// serialises writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type UserOption func(*models.User)

func WithOwner(owner *models.User) UserOption {
	return func(u *models.User) { u.OwnerID = &owner.ID }
}

func AsAdmin() UserOption {
	return func(u *models.User) { u.Admin = true }
}

func WithDiscord(id string) UserOption {
	return func(u *models.User) {
		name := "discord-" + id
		u.DiscordID = &id
		u.DiscordUsername = &name
		u.DiscordDisplayName = &name
	}
}

func WithThread(threadID string) UserOption {
	return func(u *models.User) { u.DiscordThreadID = &threadID }
}

func CreateUser(t testing.TB, db *gorm.DB, handle string, opts ...UserOption) *models.User {
	t.Helper()
	user := &models.User{Handle: handle, Name: "user" + handle}
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateChart(t testing.TB, db *gorm.DB, author *models.User, name string, visibility models.Visibility) *models.Chart {
	t.Helper()
	chart := &models.Chart{
		Name:       name,
		Title:      "Title of " + name,
		Composer:   "composer",
		Artist:     "artist",
		Rating:     30,
		Visibility: visibility,
		AuthorID:   author.ID,
	}
	require.NoError(t, db.Create(chart).Error)
	return chart
}

func CreateFile(t testing.TB, db *gorm.DB, chart *models.Chart, kind models.FileKind) *models.FileResource {
	t.Helper()
	file := &models.FileResource{Kind: kind, ObjectKey: string(kind) + "/" + uuid.NewString()}
	if chart != nil {
		file.ChartID = &chart.ID
	}
	require.NoError(t, db.Create(file).Error)
	return file
}

// FailDeletes makes every DELETE against table fail.
func FailDeletes(t testing.TB, db *gorm.DB, table string) {
	t.Helper()
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))
}
