package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	"github.com/rowdysden/rowdysden-backend/pkg/enums"
	"github.com/rowdysden/rowdysden-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order, lines []models.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindLineItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderLineItem, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemLookup resolves catalog items for pricing.
type ItemLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error)
}

// Recorder receives order counters. *metrics.OrderMetrics satisfies it.
type Recorder interface {
	IncCreated(source string)
	IncStatusChange(status string)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
