package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, ownerID, itemID uuid.UUID, at time.Time) error {
	if ownerID == uuid.Nil || itemID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	entry := models.WishlistItem{ID: uuid.New(), OwnerID: ownerID, ItemID: itemID, CreatedAt: at}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).
		Error
}

// RemoveItem deletes the owner-item entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND item_id = ?", ownerID, itemID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns the owner's wishlist joined with live item data. Entries
// whose item was deleted drop out of the join.
func (r *Repository) ListItems(ctx context.Context, ownerID uuid.UUID) ([]Entry, error) {
	var rows []Entry
	err := r.db.WithContext(ctx).
		Table("wishlist_items AS wi").
		Select(
			"i.id AS item_id",
			"i.name",
			"i.price",
			"i.image_url",
			"i.is_active",
			"i.category_id",
			"wi.created_at AS added_at",
		).
		Joins("JOIN items i ON i.id = wi.item_id").
		Where("wi.owner_id = ?", ownerID).
		Order("wi.created_at DESC").
		Order("wi.id DESC").
		Scan(&rows).Error
	return rows, err
}

// CountItems reports how many entries the owner holds, including stale ones.
func (r *Repository) CountItems(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistItem{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
