package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
)

// CreateCategoryInput is the payload accepted by POST /category.
type CreateCategoryInput struct {
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Slug     string `json:"slug" validate:"omitempty,max=140"`
	IsActive *bool  `json:"is_active"`
}

// UpdateCategoryInput carries a partial update; nil fields are left alone.
type UpdateCategoryInput struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=120"`
	Slug     *string `json:"slug" validate:"omitempty,min=1,max=140"`
	IsActive *bool   `json:"is_active"`
}

// CategoryDTO is the API representation of a category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fromModel(m *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
