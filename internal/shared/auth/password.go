package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// hashCost is bcrypt's default work factor. Raising it invalidates no
// stored hashes; bcrypt encodes the cost in the hash itself.
const hashCost = bcrypt.DefaultCost

// HashPassword derives a salted bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a stored hash against a login attempt. A nil
// return means the password matches.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
