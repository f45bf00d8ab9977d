package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), "test-secret", time.Hour)
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	user, token, err := svc.SignUp(ctx, "Alex@Example.com", "correct horse", "Alex")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Equal(t, 1, user.Level)
	assert.NotEmpty(t, user.LinkCode)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	userID, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	signedIn, _, err := svc.SignIn(ctx, "alex@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, _, err := svc.SignUp(ctx, "not-an-email", "long enough pw", "")
	assert.Error(t, err)

	_, _, err = svc.SignUp(ctx, "a@b.com", "short", "")
	assert.Error(t, err)

	_, _, err = svc.SignUp(ctx, "a@b.com", "long enough pw", "")
	require.NoError(t, err)
	_, _, err = svc.SignUp(ctx, "A@B.com", "long enough pw", "")
	assert.Error(t, err, "duplicate email")
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, _, err := svc.SignUp(ctx, "a@b.com", "long enough pw", "")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "a@b.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "missing@b.com", "long enough pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)

	issuer := NewAuthService(userRepo, "secret-one", time.Hour)
	other := NewAuthService(userRepo, "secret-two", time.Hour)

	_, token, err := issuer.SignUp(ctx, "a@b.com", "long enough pw", "")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)

	_, err = issuer.ParseToken(token + "x")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), "test-secret", -time.Minute)

	_, token, err := svc.SignUp(ctx, "a@b.com", "long enough pw", "")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}
