package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

func newAuthFixture(t *testing.T) (*AuthService, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	svc := NewAuthService(
		config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
		AuthDependencies{
			UserRepo:   users,
			Dispatcher: events.NewInMemoryDispatcher(),
			Logger:     zap.NewNop(),
		},
	)
	return svc, users
}

func seedUser(t *testing.T, users *memory.UserStore, username, password string, active bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		Role:         domain.RoleAgent,
		Active:       active,
		PasswordHash: hash,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestLogin(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "jane", "ValidPass1234!", true)

	user, token, expiresAt, err := svc.Login(context.Background(), "jane", "ValidPass1234!")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginFailures(t *testing.T) {
	svc, users := newAuthFixture(t)
	seedUser(t, users, "jane", "ValidPass1234!", true)
	seedUser(t, users, "inactive", "ValidPass1234!", false)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown username", username: "nobody", password: "ValidPass1234!"},
		{name: "wrong password", username: "jane", password: "WrongPass1234!"},
		{name: "inactive account", username: "inactive", password: "ValidPass1234!"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tc.username, tc.password)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
			// One message for all causes; callers cannot probe accounts.
			assert.Equal(t, "invalid credentials", domainErr.Message)
		})
	}
}

func TestChangePassword(t *testing.T) {
	svc, users := newAuthFixture(t)
	user := seedUser(t, users, "jane", "ValidPass1234!", true)

	err := svc.ChangePassword(context.Background(), user.ID, "ValidPass1234!", "NewerPass1234!", "NewerPass1234!")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "jane", "NewerPass1234!")
	assert.NoError(t, err)
	_, _, _, err = svc.Login(context.Background(), "jane", "ValidPass1234!")
	assert.Error(t, err)
}

func TestChangePasswordGuards(t *testing.T) {
	svc, users := newAuthFixture(t)
	user := seedUser(t, users, "jane", "ValidPass1234!", true)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, "ValidPass1234!", "NewerPass1234!", "Different1234!")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	err = svc.ChangePassword(ctx, user.ID, "ValidPass1234!", "weak", "weak")
	require.Error(t, err)
	assert.Equal(t, "WEAK_PASSWORD", apperrors.ToDomainError(err).Code)

	err = svc.ChangePassword(ctx, user.ID, "WrongOld1234!", "NewerPass1234!", "NewerPass1234!")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}
