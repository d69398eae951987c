package hash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for every stored password.
const Cost = bcrypt.DefaultCost

// MaxPasswordLen is the longest input bcrypt accepts, in bytes.
const MaxPasswordLen = 72

var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLen {
		return "", ErrPasswordTooLong
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// A malformed hash never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}
