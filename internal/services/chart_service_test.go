package services

import (
	"context"
	"testing"

	"github.com/chartcyanvas/backend/internal/models"
	"github.com/chartcyanvas/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartService_ListByAuthors(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "1")
	bob := testutil.CreateUser(t, db, "2")
	testutil.CreateChart(t, db, alice, "a1", models.VisibilityPublic)
	testutil.CreateChart(t, db, alice, "a2", models.VisibilityPrivate)
	testutil.CreateChart(t, db, bob, "b1", models.VisibilityPublic)

	svc := NewChartService(db)

	charts, err := svc.ListByAuthors(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, "a1", charts[0].Name)
	assert.Equal(t, "1", charts[0].Author.Handle)

	charts, err = svc.ListByAuthors(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, charts, 2)
}

func TestChartService_FindVisible(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "1")
	stranger := testutil.CreateUser(t, db, "2")
	admin := testutil.CreateUser(t, db, "3", testutil.AsAdmin())
	testutil.CreateChart(t, db, author, "public", models.VisibilityPublic)
	testutil.CreateChart(t, db, author, "private", models.VisibilityPrivate)
	svc := NewChartService(db)
	ctx := context.Background()

	chart, err := svc.FindVisible(ctx, "public", nil)
	require.NoError(t, err)
	assert.Equal(t, "public", chart.Name)

	_, err = svc.FindVisible(ctx, "private", nil)
	assert.ErrorIs(t, err, ErrChartNotFound)
	_, err = svc.FindVisible(ctx, "private", stranger)
	assert.ErrorIs(t, err, ErrChartNotFound)

	_, err = svc.FindVisible(ctx, "private", author)
	assert.NoError(t, err)
	_, err = svc.FindVisible(ctx, "private", admin)
	assert.NoError(t, err)

	_, err = svc.FindVisible(ctx, "missing", admin)
	assert.ErrorIs(t, err, ErrChartNotFound)
}

func TestUserService_Profile(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "1")
	testutil.CreateChart(t, db, user, "a", models.VisibilityPublic)
	testutil.CreateChart(t, db, user, "b", models.VisibilityPublic)
	testutil.CreateChart(t, db, user, "c", models.VisibilityScheduled)
	svc := NewUserService(db)

	profile, err := svc.Profile(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "user1", profile.Name)
	assert.Equal(t, int64(2), profile.ChartCount)

	_, err = svc.Profile(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
