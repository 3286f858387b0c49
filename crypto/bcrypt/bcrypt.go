// Package bcrypt hashes admin passwords.
package bcrypt

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 10
)

var ErrMismatchedPassword = errors.New("password does not match")

// HashAndSalt returns bcrypt hash of password. Cost below bcrypt.MinCost
// is replaced with DefaultCost.
func HashAndSalt(pwd string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return "", errors.Wrap(err, "generate from password")
	}

	return string(hash), nil
}

func ComparePasswords(hashedPwd, plainPwd string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPwd), []byte(plainPwd))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedPassword
	}
	if err != nil {
		return errors.Wrap(err, "compare hash and password")
	}

	return nil
}
