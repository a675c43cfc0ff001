// internal/app/system/auth/password.go
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for member passwords.
const PasswordCost = 12

// ErrFederatedOnly is returned when a local login is attempted against
// an account that has no stored password and signs in through Google.
var ErrFederatedOnly = errors.New("account uses Google sign-in")

// HashPassword produces a bcrypt digest of the plaintext. The digest is
// salted and one-way; there is no recovery path other than reset.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks plaintext against a stored digest through
// bcrypt's own comparison. A missing digest means the account is
// federated-only, which is a distinct failure from a wrong password.
func VerifyPassword(plain, digest string) error {
	if digest == "" {
		return ErrFederatedOnly
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
}
