package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	"github.com/rowdysden/rowdysden-backend/pkg/enums"
	"github.com/rowdysden/rowdysden-backend/pkg/types"
)

// LineInput requests quantity units of an item.
type LineInput struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity" validate:"min=1,max=1000"`
}

// PaymentInput records how the customer intends to pay.
type PaymentInput struct {
	Method        string `json:"method" validate:"omitempty,oneof=cash upi card"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=128"`
	Paid          bool   `json:"paid"`
}

// CheckoutInput carries the customer and charge details shared by both
// order creation paths.
type CheckoutInput struct {
	CustomerName    string           `json:"customer_name" validate:"required,notblank,max=120"`
	Phone           string           `json:"phone" validate:"required,min=3,max=32"`
	ShippingAddress *types.Address   `json:"shipping_address"`
	BillingAddress  *types.Address   `json:"billing_address"`
	Payment         PaymentInput     `json:"payment"`
	Tax             *decimal.Decimal `json:"tax"`
	ShippingFee     *decimal.Decimal `json:"shipping_fee"`
	Discount        *decimal.Decimal `json:"discount"`
	Notes           *string          `json:"notes" validate:"omitempty,max=1000"`
}

// CreateOrderInput is the explicit item-list checkout body.
type CreateOrderInput struct {
	OwnerID *uuid.UUID  `json:"owner_id"`
	Items   []LineInput `json:"items" validate:"required,min=1,dive"`
	CheckoutInput
}

// UpdateStatusInput is the body of PUT /order/{id}/status.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// LineItemDTO is a snapshotted order line.
type LineItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	SKU       *string         `json:"sku,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the API view of an order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	OwnerID         uuid.UUID         `json:"owner_id"`
	CustomerName    string            `json:"customer_name"`
	Phone           string            `json:"phone"`
	ShippingAddress *types.Address    `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address    `json:"billing_address,omitempty"`
	Payment         types.Payment     `json:"payment"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Tax             decimal.Decimal   `json:"tax"`
	ShippingFee     decimal.Decimal   `json:"shipping_fee"`
	Discount        decimal.Decimal   `json:"discount"`
	Total           decimal.Decimal   `json:"total"`
	Notes           *string           `json:"notes,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	Items           []LineItemDTO     `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrderList is a page of orders, newest first.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toDTO(order *models.Order, lines []models.OrderLineItem) OrderDTO {
	dto := OrderDTO{
		ID:              order.ID,
		OwnerID:         order.OwnerID,
		CustomerName:    order.CustomerName,
		Phone:           order.Phone,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Payment:         order.Payment,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		ShippingFee:     order.ShippingFee,
		Discount:        order.Discount,
		Total:           order.Total,
		Notes:           order.Notes,
		Status:          order.Status,
		Items:           make([]LineItemDTO, 0, len(lines)),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, line := range lines {
		dto.Items = append(dto.Items, LineItemDTO{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Name:      line.Name,
			SKU:       line.SKU,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	return dto
}
