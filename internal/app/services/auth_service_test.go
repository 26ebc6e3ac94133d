package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/testutil"
)

func newAuthFixture() (*AuthService, *testutil.UserStore, *auth.JWTService) {
	users := testutil.NewUserStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "cyberclub-test",
	})
	return NewAuthService(users, jwtService, auth.PasswordHasher{Cost: 4}, zerolog.Nop()), users, jwtService
}

func TestRegisterThenLoginWithDifferentCase(t *testing.T) {
	svc, _, jwtService := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Name: " Ada ", Email: "Ada@Club.EDU", Password: "hunter22x"})
	require.NoError(t, err)
	assert.Equal(t, "ada@club.edu", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "hunter22x", user.Password)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ADA@club.edu", Password: "hunter22x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	identity, err := jwtService.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.False(t, identity.IsAdmin())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@club.edu", Password: "hunter22x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "Other", Email: "ADA@club.edu", Password: "hunter22x"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, 1, users.Len())
}

func TestRegisterValidation(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	cases := []dto.RegisterRequest{
		{Name: "A", Email: "ada@club.edu", Password: "hunter22x"},
		{Name: "Ada", Email: "not-an-email", Password: "hunter22x"},
		{Name: "Ada", Email: "ada@club.edu", Password: "short1"},
		{Name: "Ada", Email: "ada@club.edu", Password: "onlyletters"},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, &req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "%+v", req)
	}
	assert.Zero(t, users.Len())
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@club.edu", Password: "hunter22x"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, &dto.LoginRequest{Email: "ada@club.edu", Password: "hunter23x"})
	_, unknownEmail := svc.Login(ctx, &dto.LoginRequest{Email: "bob@club.edu", Password: "hunter22x"})

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestSetRoleAndDeleteUser(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	user, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@club.edu", Password: "hunter22x"})
	require.NoError(t, err)

	_, err = svc.SetRole(ctx, user.ID, "superuser")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	promoted, err := svc.SetRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	_, err = svc.SetRole(ctx, uuid.NewString(), models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, user.ID), apperrors.ErrResourceNotFound)

	_, err = svc.Me(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, "Root", "Root@Club.edu", "changeme123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, "root@club.edu", admin.Email)

	again, err := svc.EnsureAdmin(ctx, "Root", "root@club.edu", "changeme123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, 1, users.Len())

	member, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@club.edu", Password: "hunter22x"})
	require.NoError(t, err)
	promoted, err := svc.EnsureAdmin(ctx, "Ada", "ada@club.edu", "ignored1")
	require.NoError(t, err)
	assert.Equal(t, member.ID, promoted.ID)
	assert.True(t, promoted.IsAdmin())
}
