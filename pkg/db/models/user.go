package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rowdysden/rowdysden-backend/pkg/enums"
)

// User is a registered customer or staff account.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         string           `gorm:"column:role;not null;default:'user'"`
	Phone        *string          `gorm:"column:phone"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
