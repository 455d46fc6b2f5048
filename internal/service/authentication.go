// File: internal/service/authentication.go
package service

import (
	"errors"

	"user-api/internal/model"
)

var ErrInvalidPassword = errors.New("invalid password")

// AuthenticateUser 以 bcrypt 驗證明文密碼是否符合使用者儲存的哈希
func AuthenticateUser(user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
