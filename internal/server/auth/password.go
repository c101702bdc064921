// Package auth contains the credential primitives of the server: password
// hashing and the issue/verify machinery for the two JWT classes.
package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt work factor applied to new hashes.
const PasswordHashCost = 12

// HashPassword derives a bcrypt hash from the plaintext password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored hash. It never
// fails hard: empty plaintext, an empty hash, or a malformed hash all
// yield false.
func CheckPassword(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
