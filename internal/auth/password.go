package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// MinPasswordLength is the policy floor for chosen credentials.
const MinPasswordLength = 12

// CheckPasswordStrength enforces the credential policy: at least 12
// characters with an uppercase letter, a lowercase letter, a digit, and a
// symbol.
func CheckPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewWeakPassword("password must be at least 12 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return apperrors.NewWeakPassword("password must contain an uppercase letter")
	case !hasLower:
		return apperrors.NewWeakPassword("password must contain a lowercase letter")
	case !hasDigit:
		return apperrors.NewWeakPassword("password must contain a digit")
	case !hasSymbol:
		return apperrors.NewWeakPassword("password must contain a symbol")
	}
	return nil
}
