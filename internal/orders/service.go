package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rowdysden/rowdysden-backend/internal/cart"
	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	"github.com/rowdysden/rowdysden-backend/pkg/enums"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	"github.com/rowdysden/rowdysden-backend/pkg/pagination"
	"github.com/rowdysden/rowdysden-backend/pkg/types"
)

const (
	SourceItems = "items"
	SourceCart  = "cart"
)

// Service covers order creation, the status lifecycle and order queries.
type Service interface {
	CreateFromItems(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	CreateFromCart(ctx context.Context, ownerID uuid.UUID, input CheckoutInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListOpen(ctx context.Context) ([]OrderDTO, error)
	ListCompleted(ctx context.Context) ([]OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams groups the order service dependencies.
type ServiceParams struct {
	Repo              Repository
	Carts             cart.CartRepository
	Items             ItemLookup
	Tx                txRunner
	Metrics           Recorder
	Logger            *logger.Logger
	StrictTransitions bool
}

type service struct {
	repo    Repository
	carts   cart.CartRepository
	items   ItemLookup
	tx      txRunner
	metrics Recorder
	logg    *logger.Logger
	strict  bool
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item lookup required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner required")
	}
	return &service{
		repo:    params.Repo,
		carts:   params.Carts,
		items:   params.Items,
		tx:      params.Tx,
		metrics: params.Metrics,
		logg:    params.Logger,
		strict:  params.StrictTransitions,
	}, nil
}

func (s *service) CreateFromItems(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.OwnerID == nil || *input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	lines, err := MergeLines(input.Items)
	if err != nil {
		return nil, err
	}
	order, snapshot, err := s.prepare(ctx, *input.OwnerID, lines, input.CheckoutInput)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order, snapshot)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	s.recordCreated(ctx, order, SourceItems)
	dto := toDTO(order, snapshot)
	return &dto, nil
}

// CreateFromCart turns the owner's cart into an order. The order insert and
// the cart delete commit together.
func (s *service) CreateFromCart(ctx context.Context, ownerID uuid.UUID, input CheckoutInput) (*OrderDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	current, err := s.carts.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	lines := make([]LineInput, 0, len(current.Items))
	for _, line := range current.Items {
		lines = append(lines, LineInput{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	lines, err = MergeLines(lines)
	if err != nil {
		return nil, err
	}
	order, snapshot, err := s.prepare(ctx, ownerID, lines, input)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order, snapshot); err != nil {
			return err
		}
		_, err := s.carts.WithTx(tx).DeleteByOwner(ctx, ownerID)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout cart")
	}
	s.recordCreated(ctx, order, SourceCart)
	dto := toDTO(order, snapshot)
	return &dto, nil
}

// UpdateStatus moves an order to status. Re-applying the current status is a
// no-op; in strict mode only transitions from the lifecycle table are allowed.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	next, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]any{"status": status})
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	current := order.Status
	if current != next {
		if s.strict && !current.CanTransitionTo(next) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
				WithDetails(map[string]any{"from": current.String(), "to": next.String()})
		}
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = next
		if s.metrics != nil {
			s.metrics.IncStatusChange(next.String())
		}
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"order_id":    id.String(),
				"from_status": current.String(),
				"to_status":   next.String(),
			}), "order.status_changed")
		}
		// re-read to pick up updated_at
		if fresh, err := s.repo.FindByID(ctx, id); err == nil {
			order = fresh
		}
	}
	return s.withLines(ctx, order)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, order)
}

func (s *service) List(ctx context.Context, params pagination.Params) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &OrderList{}
	rows, result.NextCursor = pagination.Trim(rows, limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	result.Orders, err = s.hydrate(ctx, rows)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListOpen returns orders that are still being worked on.
func (s *service) ListOpen(ctx context.Context) ([]OrderDTO, error) {
	return s.listByStatuses(ctx, enums.OpenOrderStatuses)
}

func (s *service) ListCompleted(ctx context.Context) ([]OrderDTO, error) {
	return s.listByStatuses(ctx, []enums.OrderStatus{enums.OrderStatusDelivered})
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// prepare validates charges, resolves items and builds the unsaved order.
func (s *service) prepare(ctx context.Context, ownerID uuid.UUID, lines []LineInput, input CheckoutInput) (*models.Order, []models.OrderLineItem, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	charges, err := ChargesFrom(input.Tax, input.ShippingFee, input.Discount)
	if err != nil {
		return nil, nil, err
	}
	payment, err := paymentFrom(input.Payment)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	catalog, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	snapshot, totals, err := Price(lines, catalog, charges)
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		OwnerID:         ownerID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		Phone:           strings.TrimSpace(input.Phone),
		ShippingAddress: addressOrNil(input.ShippingAddress),
		BillingAddress:  addressOrNil(input.BillingAddress),
		Payment:         payment,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingFee:     totals.ShippingFee,
		Discount:        totals.Discount,
		Total:           totals.Total,
		Notes:           input.Notes,
		Status:          enums.OrderStatusPending,
	}
	return order, snapshot, nil
}

func (s *service) recordCreated(ctx context.Context, order *models.Order, source string) {
	if s.metrics != nil {
		s.metrics.IncCreated(source)
	}
	if s.logg != nil {
		ctx = s.logg.WithOwnerID(ctx, order.OwnerID.String())
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"source":   source,
			"total":    order.Total.String(),
		}), "order.created")
	}
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) withLines(ctx context.Context, order *models.Order) (*OrderDTO, error) {
	hydrated, err := s.hydrate(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

func (s *service) hydrate(ctx context.Context, rows []models.Order) ([]OrderDTO, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	lines, err := s.repo.FindLineItems(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order line items")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i], lines[rows[i].ID]))
	}
	return out, nil
}

func (s *service) listByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]OrderDTO, error) {
	rows, err := s.repo.ListByStatuses(ctx, statuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return s.hydrate(ctx, rows)
}

func paymentFrom(input PaymentInput) (types.Payment, error) {
	method := enums.PaymentMethodCash
	if raw := strings.TrimSpace(input.Method); raw != "" {
		parsed, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return types.Payment{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		method = parsed
	}
	payment := types.Payment{
		Method:        method,
		TransactionID: strings.TrimSpace(input.TransactionID),
		Paid:          input.Paid,
	}
	if payment.Paid {
		paidAt := time.Now().UTC()
		payment.PaidAt = &paidAt
	}
	return payment, nil
}

func addressOrNil(addr *types.Address) *types.Address {
	if addr.IsZero() {
		return nil
	}
	return addr
}
