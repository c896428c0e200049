package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Operator is a human account for the maintenance HTTP API. Callers of the
// bot never have one.
type Operator struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Operator) TableName() string { return "operators" }

// EnsureOperator migrates the table and seeds the configured account if it is
// missing. An empty password leaves the table untouched, which disables
// logins entirely.
func EnsureOperator(db *gorm.DB, username, password string) error {
	if err := db.AutoMigrate(&Operator{}); err != nil {
		return err
	}
	if password == "" {
		return nil
	}

	var existing Operator
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&Operator{Username: username, PasswordHash: hash}).Error
}

// Authenticate checks a username/password pair against the operators table.
func Authenticate(db *gorm.DB, username, password string) (bool, error) {
	var op Operator
	err := db.Where("username = ?", username).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return CheckPassword(op.PasswordHash, password), nil
}
