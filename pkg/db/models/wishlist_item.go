package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links an owner to a saved item.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index:wishlist_items_owner_id_idx;uniqueIndex:wishlist_items_owner_item_key"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:wishlist_items_item_id_idx;uniqueIndex:wishlist_items_owner_item_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
