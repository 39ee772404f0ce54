package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a sellable catalog entry.
type Item struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index:items_category_id_idx"`
	Name       string          `gorm:"column:name;not null"`
	SKU        *string         `gorm:"column:sku"`
	ImageURL   *string         `gorm:"column:image_url"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive   bool            `gorm:"column:is_active;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
