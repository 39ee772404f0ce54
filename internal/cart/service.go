package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rowdysden/rowdysden-backend/pkg/db"
	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

// Service exposes cart aggregation and line mutations for an owner.
type Service interface {
	Add(ctx context.Context, ownerID, itemID uuid.UUID, quantity int) (*View, error)
	Get(ctx context.Context, ownerID uuid.UUID) (*View, error)
	Increment(ctx context.Context, ownerID, itemID uuid.UUID) (*View, error)
	Decrement(ctx context.Context, ownerID, itemID uuid.UUID) (*View, error)
	SetQuantity(ctx context.Context, ownerID, itemID uuid.UUID, quantity int) (*View, error)
	Remove(ctx context.Context, ownerID, itemID uuid.UUID) (*View, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}

type service struct {
	repo  CartRepository
	items ItemLookup
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires the cart service.
func NewService(repo CartRepository, items ItemLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item lookup required")
	}
	return &service{repo: repo, items: items, logg: logg, now: time.Now}, nil
}

func (s *service) Add(ctx context.Context, ownerID, itemID uuid.UUID, quantity int) (*View, error) {
	if err := requireIDs(ownerID, itemID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	cart, err := s.repo.FindByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		cart = &models.Cart{
			OwnerID: ownerID,
			Items:   []models.CartLine{{ItemID: itemID, Quantity: quantity, AddedAt: s.now().UTC()}},
		}
		if _, err := s.repo.Create(ctx, cart); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart was created concurrently; retry")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
		return s.view(ctx, cart)
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if idx := cart.Line(itemID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartLine{ItemID: itemID, Quantity: quantity, AddedAt: s.now().UTC()})
	}
	return s.save(ctx, cart)
}

// Get prices the cart with current catalog data. A missing cart is an empty view.
func (s *service) Get(ctx context.Context, ownerID uuid.UUID) (*View, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	cart, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyView(ownerID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.view(ctx, cart)
}

func (s *service) Increment(ctx context.Context, ownerID, itemID uuid.UUID) (*View, error) {
	return s.mutateLine(ctx, ownerID, itemID, func(cart *models.Cart, idx int) {
		cart.Items[idx].Quantity++
	})
}

// Decrement lowers the quantity by one and drops the line once it reaches zero.
func (s *service) Decrement(ctx context.Context, ownerID, itemID uuid.UUID) (*View, error) {
	return s.mutateLine(ctx, ownerID, itemID, func(cart *models.Cart, idx int) {
		if cart.Items[idx].Quantity <= 1 {
			cart.Items = removeLine(cart.Items, idx)
			return
		}
		cart.Items[idx].Quantity--
	})
}

func (s *service) SetQuantity(ctx context.Context, ownerID, itemID uuid.UUID, quantity int) (*View, error) {
	return s.mutateLine(ctx, ownerID, itemID, func(cart *models.Cart, idx int) {
		if quantity <= 0 {
			cart.Items = removeLine(cart.Items, idx)
			return
		}
		cart.Items[idx].Quantity = quantity
	})
}

func (s *service) Remove(ctx context.Context, ownerID, itemID uuid.UUID) (*View, error) {
	return s.mutateLine(ctx, ownerID, itemID, func(cart *models.Cart, idx int) {
		cart.Items = removeLine(cart.Items, idx)
	})
}

// Clear deletes the owner's cart. Clearing a missing cart succeeds.
func (s *service) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	deleted, err := s.repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	if deleted && s.logg != nil {
		s.logg.Info(s.logg.WithOwnerID(ctx, ownerID.String()), "cart.cleared")
	}
	return nil
}

func (s *service) mutateLine(ctx context.Context, ownerID, itemID uuid.UUID, apply func(cart *models.Cart, idx int)) (*View, error) {
	if err := requireIDs(ownerID, itemID); err != nil {
		return nil, err
	}
	cart, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	idx := cart.Line(itemID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart").
			WithDetails(map[string]any{"item_id": itemID.String()})
	}
	apply(cart, idx)
	return s.save(ctx, cart)
}

func (s *service) save(ctx context.Context, cart *models.Cart) (*View, error) {
	if _, err := s.repo.Update(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return s.view(ctx, cart)
}

func (s *service) view(ctx context.Context, cart *models.Cart) (*View, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.ItemID)
	}
	catalog, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
	}
	view := Aggregate(cart, catalog)
	return &view, nil
}

func removeLine(lines []models.CartLine, idx int) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines)-1)
	out = append(out, lines[:idx]...)
	return append(out, lines[idx+1:]...)
}

func requireIDs(ownerID, itemID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return nil
}
