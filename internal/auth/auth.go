package auth

import (
	"errors"

	"github.com/mohesu/jasmin-api/internal/database"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

var ErrInvalidCredentials = errors.New("invalid username or password")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate looks the user up and verifies the password.
func Authenticate(username, password string) (*database.User, error) {
	u, err := database.GetUserByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureUser creates username, or resets its password when it exists.
func EnsureUser(username, password string) (*database.User, bool, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	if u, err := database.GetUserByUsername(username); err == nil {
		if err := database.UpdateUserPassword(u.ID, hash); err != nil {
			return nil, false, err
		}
		u.PasswordHash = hash
		return u, false, nil
	}
	u := &database.User{Username: username, PasswordHash: hash, Role: "admin"}
	if err := database.CreateUser(u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
