// internal/api/auth/password.go
package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt truncates input beyond 72 bytes; registration enforces a
// minimum length but no maximum, so reject oversized passwords here.
const maxPasswordBytes = 72

// HashPassword produces a bcrypt hash suitable for the users table.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", bcrypt.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
