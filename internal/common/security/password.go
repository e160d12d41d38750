package security

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password against a stored hash. Rows created
// before bcrypt hold base64(password); those match with legacy set so the
// caller can rehash.
func CheckPasswordHash(password, hash string) (ok bool, legacy bool) {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(password))
	if subtle.ConstantTimeCompare([]byte(encoded), []byte(hash)) == 1 {
		return true, true
	}
	return false, false
}
