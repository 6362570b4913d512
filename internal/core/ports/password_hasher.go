package ports

// PasswordHasher produces and verifies one-way salted password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}
