package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
)

// CreateItemInput is the payload accepted by POST /items.
type CreateItemInput struct {
	Name       string           `json:"name" validate:"required,notblank,max=200"`
	SKU        *string          `json:"sku" validate:"omitempty,max=64"`
	ImageURL   *string          `json:"image_url" validate:"omitempty,max=2048"`
	Price      *decimal.Decimal `json:"price" validate:"required"`
	CategoryID uuid.UUID        `json:"category_id"`
	IsActive   *bool            `json:"is_active"`
}

// UpdateItemInput is a partial update. A nil field keeps its stored value.
type UpdateItemInput struct {
	Name       *string          `json:"name" validate:"omitempty,notblank,max=200"`
	SKU        *string          `json:"sku" validate:"omitempty,max=64"`
	ImageURL   *string          `json:"image_url" validate:"omitempty,max=2048"`
	Price      *decimal.Decimal `json:"price"`
	CategoryID *uuid.UUID       `json:"category_id"`
	IsActive   *bool            `json:"is_active"`
}

// ListItemsFilter narrows the catalog listing.
type ListItemsFilter struct {
	CategoryID *uuid.UUID
}

// ItemDTO is the API shape of a catalog item.
type ItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	SKU        *string         `json:"sku,omitempty"`
	ImageURL   *string         `json:"image_url,omitempty"`
	Price      decimal.Decimal `json:"price"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FromModel maps a persisted item to its DTO.
func FromModel(m *models.Item) ItemDTO {
	return ItemDTO{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		SKU:        m.SKU,
		ImageURL:   m.ImageURL,
		Price:      m.Price,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
