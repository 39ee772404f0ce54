package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	"github.com/rowdysden/rowdysden-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Phone     *string          `json:"phone,omitempty"`
	Status    enums.UserStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CreateUserInput is the body of POST /users.
type CreateUserInput struct {
	Name     string  `json:"name" validate:"required,notblank,max=120"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Role     string  `json:"role" validate:"omitempty,max=64"`
}

// UpdateStatusInput is the body of PUT /users/{id}/status.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active inactive block"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
