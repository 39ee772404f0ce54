package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

type wishlistRepository interface {
	AddItem(ctx context.Context, ownerID, itemID uuid.UUID, at time.Time) error
	RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) error
	ListItems(ctx context.Context, ownerID uuid.UUID) ([]Entry, error)
}

// ItemLookup confirms an item exists before it is saved.
type ItemLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo wishlistRepository
	ItemRepo     ItemLookup
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, ownerID uuid.UUID) (*WishlistDTO, error)
	AddItem(ctx context.Context, ownerID, itemID uuid.UUID) error
	RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) error
}

type service struct {
	wishlistRepo wishlistRepository
	itemRepo     ItemLookup
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		itemRepo:     params.ItemRepo,
	}, nil
}

// GetWishlist returns the owner's saved items with live catalog data.
func (s *service) GetWishlist(ctx context.Context, ownerID uuid.UUID) (*WishlistDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	rows, err := s.wishlistRepo.ListItems(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	if rows == nil {
		rows = []Entry{}
	}
	return &WishlistDTO{OwnerID: ownerID, Items: rows}, nil
}

// AddItem ensures the item exists and adds it to the wishlist. Adding an
// existing member changes nothing.
func (s *service) AddItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if err := s.wishlistRepo.AddItem(ctx, ownerID, itemID, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return nil
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if err := s.wishlistRepo.RemoveItem(ctx, ownerID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}
