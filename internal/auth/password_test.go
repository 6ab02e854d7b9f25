package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{name: "valid", password: "ValidPass1234!", wantErr: ""},
		{name: "too short", password: "Short1!", wantErr: "password must be at least 12 characters"},
		{name: "no uppercase", password: "alllowercase123!", wantErr: "password must contain an uppercase letter"},
		{name: "no lowercase", password: "ALLUPPERCASE123!", wantErr: "password must contain a lowercase letter"},
		{name: "no digit", password: "NoDigitsHere!!!!", wantErr: "password must contain a digit"},
		{name: "no symbol", password: "NoSymbolsHere123", wantErr: "password must contain a symbol"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPasswordStrength(tc.password)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "WEAK_PASSWORD", domainErr.Code)
			assert.Equal(t, tc.wantErr, domainErr.Message)
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("ValidPass1234!", 4)
	require.NoError(t, err)
	require.NotEqual(t, "ValidPass1234!", hash)

	assert.NoError(t, ComparePassword(hash, "ValidPass1234!"))
	assert.Error(t, ComparePassword(hash, "WrongPass1234!"))
}

func TestComparePasswordPlaceholderHash(t *testing.T) {
	// Placeholder identities store "!" which is not a bcrypt hash; login
	// against one must always fail.
	assert.Error(t, ComparePassword("!", "anything"))
}
