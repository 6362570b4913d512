package domain

import "fmt"

// MaxPasswordBytes is the longest password bcrypt accepts. The limit counts
// bytes, so multibyte characters use it up faster.
const MaxPasswordBytes = 72

// CheckPassword rejects empty passwords and passwords over MaxPasswordBytes.
func CheckPassword(password string) error {
	switch {
	case password == "":
		return InvalidInput("password is required")
	case len(password) > MaxPasswordBytes:
		return InvalidInput(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}
