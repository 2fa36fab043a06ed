package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(e *testEnv) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(e.users, cfg)
}

func TestRegisterAndLogin_RoundTrip(t *testing.T) {
	e := newTestEnv(t)
	auth := newAuthService(e)

	user, err := auth.Register(RegisterRequest{
		Name:     "Sam Student",
		Email:    "sam@example.com",
		Password: "swordfish123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "swordfish123", user.Password)

	token, loggedIn, err := auth.Login("sam@example.com", "swordfish123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)

	var stored model.User
	require.NoError(t, e.db.First(&stored, user.ID).Error)
	assert.False(t, stored.LastLogin.IsZero())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	auth := newAuthService(e)

	req := RegisterRequest{Name: "A", Email: "a@example.com", Password: "password1"}
	_, err := auth.Register(req)
	require.NoError(t, err)
	_, err = auth.Register(req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	e := newTestEnv(t)
	auth := newAuthService(e)

	user, err := auth.Register(RegisterRequest{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, _, err = auth.Login("a@example.com", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody@example.com", "password1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	user.Disabled = true
	require.NoError(t, e.db.Save(user).Error)
	_, _, err = auth.Login("a@example.com", "password1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
