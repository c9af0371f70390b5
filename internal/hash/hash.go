package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes; longer passwords are refused instead
// of silently truncated.
const (
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

var ErrPasswordLength = fmt.Errorf("password must be %d to %d bytes", MinPasswordLen, MaxPasswordLen)

// Cost is the bcrypt work factor for new hashes.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return "", ErrPasswordLength
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash is true for hashes made with a lower cost than Cost, so a
// successful login can upgrade accounts seeded with an older setting.
func NeedsRehash(hash string) bool {
	c, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return c < Cost
}
