package database_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/chartcyanvas/backend/internal/database"
	"github.com/chartcyanvas/backend/internal/models"
	"github.com/chartcyanvas/backend/internal/testutil"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrate_GenreDefaultsToOthers(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "100")

	require.NoError(t, db.Exec(
		"INSERT INTO charts (name, title, author_id, visibility) VALUES (?, ?, ?, ?)",
		"raw", "raw chart", author.ID, "public",
	).Error)

	var chart models.Chart
	require.NoError(t, db.Where("name = ?", "raw").First(&chart).Error)
	assert.Equal(t, models.GenreOthers, chart.Genre)
}

func TestPromoteAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "admin")
	testutil.CreateUser(t, db, "someone")

	require.NoError(t, database.PromoteAdmin(context.Background(), db, "admin"))
	require.NoError(t, database.PromoteAdmin(context.Background(), db, "missing"))
	require.NoError(t, database.PromoteAdmin(context.Background(), db, ""))

	var admins []models.User
	require.NoError(t, db.Where("admin = ?", true).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Handle)
}

func TestPing(t *testing.T) {
	db := testutil.NewDB(t)
	assert.NoError(t, database.Ping(db))
}

func TestLogger_SkipsMissingRows(t *testing.T) {
	var buf bytes.Buffer
	db, err := database.OpenWith(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), database.Logger(&buf))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	buf.Reset()

	var user models.User
	err = db.Where("handle = ?", "nobody").First(&user).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, buf.String())

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), "no_such_table")
}
