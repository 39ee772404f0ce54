package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single basket owned by a user or guest session. Lines live in
// a jsonb column and the row is rewritten whole on every mutation.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:carts_owner_id_key"`
	Items     []CartLine `gorm:"column:items;type:jsonb;serializer:json;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartLine is one (item, quantity) pair inside a cart.
type CartLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Line returns the index of the line holding itemID, or -1.
func (c *Cart) Line(itemID uuid.UUID) int {
	if c == nil {
		return -1
	}
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
