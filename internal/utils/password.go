package utils

import "golang.org/x/crypto/bcrypt"

// normalizeCost keeps the bcrypt cost inside the algorithm's supported
// range. Out-of-range values, including an unset zero, fall back to
// bcrypt.DefaultCost instead of erroring on every sign-up.
func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// HashPassword returns a bcrypt hash of the plaintext. bcrypt salts
// internally, so hashing the same plaintext twice yields different output.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), normalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password. A
// mismatch is reported as false, never as an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
