package auth

import (
	"context"
	"testing"
	"time"

	"tourbook/internal/guides"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/internal/shared/testutil"
	"tourbook/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:           "test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: time.Hour,
	}}
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t, &users.User{}, &guides.GuideProfile{})
	profiles := guides.NewService(guides.NewRepository(db))
	return NewService(NewRepository(db), database.NewTransactor(db), profiles, testConfig()), db
}

func registerReq(email, role string) *RegisterRequest {
	return &RegisterRequest{FirstName: "Ana", LastName: "Silva", Email: email, Password: "secret123", Role: role}
}

func TestRegister(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("Ana@Example.com ", ""))
	require.NoError(t, err)
	assert.Equal(t, "user", resp.User.Role)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	_, err = svc.Register(ctx, registerReq("ana@example.com", "guide"))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(ctx, registerReq("root@example.com", "admin"))
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	var profiles int64
	require.NoError(t, db.Model(&guides.GuideProfile{}).Count(&profiles).Error)
	assert.Zero(t, profiles)
}

func TestRegister_GuideGetsPendingProfile(t *testing.T) {
	svc, db := newTestService(t)

	resp, err := svc.Register(context.Background(), registerReq("guide@example.com", "guide"))
	require.NoError(t, err)
	assert.Equal(t, "guide", resp.User.Role)

	var profile guides.GuideProfile
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&profile).Error)
	assert.Equal(t, guides.StatusPending, profile.Status)
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerReq("ana@example.com", ""))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(ctx, &LoginRequest{Email: "ANA@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeAccess, claims.Type)
	assert.Equal(t, "user", claims.Role)

	_, err = svc.RefreshToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	pair, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.ValidateToken(login.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, registerReq("ana@example.com", ""))
	require.NoError(t, err)
	me, err := svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(me.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	id := mustParse(t, reg.User.ID)
	err = svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another1"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another1"}))
	_, err = svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "another1"})
	assert.NoError(t, err)

	user, err := svc.GetMe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.FirstName)
}
