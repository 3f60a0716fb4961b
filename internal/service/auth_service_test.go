package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour)

	user, err := auth.Register(ctx, " Ann ", " Ann@Example.COM ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.PasswordHash)

	token, loggedIn, err := auth.Login(ctx, "ANN@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	userID, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(newMemUserRepo(), "test-secret", time.Hour)

	_, err := auth.Register(ctx, "Ann", "ann@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = auth.Register(ctx, "", "ann@example.com", "password1")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = auth.Register(ctx, "Ann", "ann@example.com", "password1")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Ann", "ANN@example.com", "password2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthService(newMemUserRepo(), "test-secret", time.Hour)
	_, err := auth.Register(ctx, "Ann", "ann@example.com", "password1")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = auth.Login(ctx, "bob@example.com", "password1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_ParseToken(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour)
	other := NewAuthService(users, "other-secret", time.Hour)
	expired := NewAuthService(users, "test-secret", time.Nanosecond)

	_, err := auth.Register(ctx, "Ann", "ann@example.com", "password1")
	require.NoError(t, err)

	foreign, _, err := other.Login(ctx, "ann@example.com", "password1")
	require.NoError(t, err)
	stale, _, err := expired.Login(ctx, "ann@example.com", "password1")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      stale,
	} {
		t.Run(name, func(t *testing.T) {
			userID, err := auth.ParseToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, primitive.NilObjectID, userID)
		})
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour)
	svc := NewUserService(users)

	user, err := auth.Register(ctx, "Ann", "ann@example.com", "password1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "nope-nope", "password2"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "password1", "short"), ErrPasswordTooShort)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "password1", "password2"))

	_, _, err = auth.Login(ctx, "ann@example.com", "password2")
	assert.NoError(t, err)
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	auth := NewAuthService(users, "test-secret", time.Hour)
	svc := NewUserService(users)

	ann, err := auth.Register(ctx, "Ann", "ann@example.com", "password1")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Bob", "bob@example.com", "password1")
	require.NoError(t, err)

	updated, err := svc.UpdateGoal(ctx, ann.ID, " strength ")
	require.NoError(t, err)
	assert.Equal(t, "strength", updated.Goal)
	assert.Empty(t, updated.PasswordHash)

	updated, err = svc.UpdateWeight(ctx, ann.ID, 72.5)
	require.NoError(t, err)
	require.NotNil(t, updated.Weight)
	assert.InDelta(t, 72.5, *updated.Weight, 0.001)

	_, err = svc.UpdateWeight(ctx, ann.ID, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.UpdateProfile(ctx, ann.ID, "Ann", "bob@example.com")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.GetProfile(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
