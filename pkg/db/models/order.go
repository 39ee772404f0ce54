package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rowdysden/rowdysden-backend/pkg/enums"
	"github.com/rowdysden/rowdysden-backend/pkg/types"
)

// Order is an immutable-priced purchase; only Status changes after creation.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID         uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;index:orders_owner_id_idx"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	Phone           string            `gorm:"column:phone;not null"`
	ShippingAddress *types.Address    `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  *types.Address    `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Payment         types.Payment     `gorm:"column:payment;type:jsonb;serializer:json;not null"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax             decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal   `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	Discount        decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Notes           *string           `gorm:"column:notes"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending';index:orders_status_idx"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
