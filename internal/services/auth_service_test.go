package services

import (
	"context"
	"testing"
	"time"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "42")
	cfg := &config.Config{JWTSecret: "secret", JWTExpiry: time.Hour}
	svc := NewAuthService(db, cfg)

	signed, err := svc.IssueToken(user)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)

	loaded, err := svc.UserFromClaims(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, "42", claims["handle"])
}

func TestAuthService_UserFromClaims_Invalid(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, &config.Config{JWTSecret: "secret"})
	ctx := context.Background()

	_, err := svc.UserFromClaims(ctx, jwt.MapClaims{})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.UserFromClaims(ctx, jwt.MapClaims{"sub": "not-a-number"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.UserFromClaims(ctx, jwt.MapClaims{"sub": "9999"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
