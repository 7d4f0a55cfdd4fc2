package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/identity"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/auth"
	"github.com/tripled/backend/internal/infrastructure/config"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-0123456789abcdef",
		RefreshSecret:          "test-refresh-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "tripled-test",
		MaxRefreshCount:        5,
	})
}

func newAuthService(userRepo *MockUserRepository, blacklist auth.TokenBlacklist) *AuthService {
	return NewAuthService(userRepo, testJWTService(), blacklist, DefaultAuthServiceConfig(), testLogger())
}

func newTestUser(t *testing.T, username string, role identity.UserRole) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, "Sunshine42", role)
	require.NoError(t, err)
	return user
}

func authErrCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func TestAuthService_Login(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, auth.NewInMemoryTokenBlacklist())

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	result, err := service.Login(context.Background(), LoginInput{
		Username: "amaka",
		Password: "Sunshine42",
		IP:       "10.0.0.7",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "secretary", result.User.Role)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "10.0.0.7", user.LastLoginIP)

	// The issued access token round-trips through validation.
	claims, err := testJWTService().ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "secretary", claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, nil)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	_, err := service.Login(context.Background(), LoginInput{
		Username: "amaka",
		Password: "WrongPass1",
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", authErrCode(err))
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestAuthService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, nil)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	input := LoginInput{Username: "amaka", Password: "WrongPass1"}
	for i := 0; i < 4; i++ {
		_, err := service.Login(context.Background(), input)
		assert.Equal(t, "INVALID_CREDENTIALS", authErrCode(err))
	}

	// Fifth failure trips the lock.
	_, err := service.Login(context.Background(), input)
	assert.Equal(t, "ACCOUNT_LOCKED", authErrCode(err))
	assert.True(t, user.IsLocked())

	// Even the right password is rejected while locked.
	_, err = service.Login(context.Background(), LoginInput{Username: "amaka", Password: "Sunshine42"})
	assert.Equal(t, "ACCOUNT_LOCKED", authErrCode(err))
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, nil)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	require.NoError(t, user.Deactivate())
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)

	_, err := service.Login(context.Background(), LoginInput{
		Username: "amaka",
		Password: "Sunshine42",
	})

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", authErrCode(err))
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, nil)

	userRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, shared.ErrNotFound)

	_, err := service.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "Sunshine42",
	})

	// Unknown user and wrong password are indistinguishable to a caller.
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", authErrCode(err))
}

func TestAuthService_RefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, auth.NewInMemoryTokenBlacklist())

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	login, err := service.Login(context.Background(), LoginInput{Username: "amaka", Password: "Sunshine42"})
	require.NoError(t, err)

	// The user gains a new role between login and refresh; the refreshed
	// access token must carry the current role.
	require.NoError(t, user.ChangeRole(identity.RoleBranchAdmin))

	refreshed, err := service.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})

	require.NoError(t, err)
	claims, err := testJWTService().ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "branch_admin", claims.Role)
}

func TestAuthService_RefreshToken_RevokedSession(t *testing.T) {
	userRepo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := newAuthService(userRepo, blacklist)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	login, err := service.Login(context.Background(), LoginInput{Username: "amaka", Password: "Sunshine42"})
	require.NoError(t, err)

	// Revoke every session issued up to this point.
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), user.ID.String(), time.Hour))

	_, err = service.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})

	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", authErrCode(err))
}

func TestAuthService_RefreshToken_DeactivatedUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, nil)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByUsername", mock.Anything, "amaka").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	login, err := service.Login(context.Background(), LoginInput{Username: "amaka", Password: "Sunshine42"})
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())

	_, err = service.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", authErrCode(err))
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	service := newAuthService(new(MockUserRepository), nil)

	_, err := service.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: "not-a-token",
	})

	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", authErrCode(err))
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := newAuthService(userRepo, blacklist)

	user := newTestUser(t, "amaka", identity.RoleSecretary)

	err := service.Logout(context.Background(), LogoutInput{
		UserID:      user.ID,
		JTI:         "session-jti-1",
		TokenExpiry: time.Now().Add(10 * time.Minute),
	})

	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(context.Background(), "session-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := newAuthService(userRepo, blacklist)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, user).Return(nil)

	err := service.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "Sunshine42",
		NewPassword: "Moonlight77",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("Moonlight77"))
	assert.False(t, user.VerifyPassword("Sunshine42"))
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo, nil)

	user := newTestUser(t, "amaka", identity.RoleSecretary)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	err := service.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "WrongPass1",
		NewPassword: "Moonlight77",
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_PASSWORD", authErrCode(err))
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
