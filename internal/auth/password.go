package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost balances brute-force resistance against login latency. Raising
// it only affects newly hashed passwords; stored hashes embed their own cost.
const bcryptCost = 10

// HashPassword produces a salted bcrypt hash of the plaintext. Two calls on
// the same input yield different hashes because bcrypt salts per call.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. Malformed
// hashes simply fail verification; bcrypt compares in constant time.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
