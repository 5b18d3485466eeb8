package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an administrator account. Guests never authenticate.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"unique;not null" json:"email"`
	Name      string `json:"name"`
	Role      string `gorm:"default:admin" json:"role"`
	Password  string `gorm:"not null" json:"-"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"createdAt"`
}

// EnsureAdmin creates a bcrypt-hashed admin account when both email and
// password are non-empty and no account with that email exists yet.
func EnsureAdmin(email, password string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{Email: trimmedEmail, Name: "Admin", Role: "admin", Password: string(hashed)}).Error
	}

	return nil
}
