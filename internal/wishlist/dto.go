package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MembershipInput is the body of POST /wishlist/add and DELETE /wishlist/remove.
// OwnerID falls back to the session owner.
type MembershipInput struct {
	OwnerID *uuid.UUID `json:"owner_id"`
	ItemID  uuid.UUID  `json:"item_id"`
}

// Entry is a wishlist member joined with its live catalog item.
type Entry struct {
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   *string         `json:"image_url,omitempty"`
	IsActive   bool            `json:"is_active"`
	CategoryID uuid.UUID       `json:"category_id"`
	AddedAt    time.Time       `json:"added_at"`
}

// WishlistDTO is the owner's wishlist, newest first.
type WishlistDTO struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Items   []Entry   `json:"items"`
}
