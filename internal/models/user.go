package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a learner account. Identity proper lives in an external service;
// this row only carries what the platform needs to authenticate requests and
// link sessions to a person.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Password  string
	PersonID  string `gorm:"index"`
	FirstName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
