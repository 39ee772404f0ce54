package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput is the body of POST /cart. OwnerID falls back to the session owner.
type AddItemInput struct {
	OwnerID  *uuid.UUID `json:"owner_id"`
	ItemID   uuid.UUID  `json:"item_id"`
	Quantity int        `json:"quantity" validate:"required,min=1,max=1000"`
}

// SetQuantityInput is the body of PUT /cart/{owner}/item/{item}. A quantity
// of zero or less removes the line.
type SetQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required,max=1000"`
}

// LineView is a cart line priced against the live catalog.
type LineView struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	ImageURL  *string         `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	AddedAt   time.Time       `json:"added_at"`
}

// View is the aggregated cart returned by every cart endpoint.
type View struct {
	OwnerID   uuid.UUID       `json:"owner_id"`
	Items     []LineView      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func emptyView(ownerID uuid.UUID) *View {
	return &View{OwnerID: ownerID, Items: []LineView{}, Total: decimal.Zero}
}
