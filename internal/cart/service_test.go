package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rowdysden/rowdysden-backend/internal/items"
	"github.com/rowdysden/rowdysden-backend/pkg/db/dbtest"
	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

type cartFixture struct {
	svc   Service
	db    *gorm.DB
	repo  *Repository
	owner uuid.UUID
}

func newCartFixture(t *testing.T) cartFixture {
	t.Helper()
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, items.NewRepository(db), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return cartFixture{svc: svc, db: db, repo: repo, owner: uuid.New()}
}

func (f cartFixture) seedItem(t *testing.T, name string, price string) models.Item {
	t.Helper()
	var category models.Category
	if err := f.db.First(&category).Error; err != nil {
		category = models.Category{ID: uuid.New(), Name: "Menu", Slug: "menu", IsActive: true}
		require.NoError(t, f.db.Create(&category).Error)
	}
	item := models.Item{ID: uuid.New(), CategoryID: category.ID, Name: name, Price: decimal.RequireFromString(price), IsActive: true}
	require.NoError(t, f.db.Create(&item).Error)
	return item
}

func TestAddCreatesCartAndAggregates(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4.50")

	view, err := f.svc.Add(context.Background(), f.owner, latte.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("9")))
	assert.Equal(t, 2, view.ItemCount)
}

func TestRepeatedAddIncrementsQuantity(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 1)
	require.NoError(t, err)
	view, err := f.svc.Add(context.Background(), f.owner, latte.ID, 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)

	stored, err := f.repo.FindByOwner(context.Background(), f.owner)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestAddValidatesQuantityAndItem(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 0)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.svc.Add(context.Background(), f.owner, uuid.New(), 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Add(context.Background(), uuid.Nil, latte.ID, 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDecrementRemovesLineAtOne(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")
	scone := f.seedItem(t, "Scone", "3")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.Add(context.Background(), f.owner, scone.ID, 1)
	require.NoError(t, err)

	view, err := f.svc.Decrement(context.Background(), f.owner, latte.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)

	view, err = f.svc.Decrement(context.Background(), f.owner, scone.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, latte.ID, view.Items[0].ItemID)
}

func TestIncrementSetAndRemove(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 1)
	require.NoError(t, err)

	view, err := f.svc.Increment(context.Background(), f.owner, latte.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)

	view, err = f.svc.SetQuantity(context.Background(), f.owner, latte.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Items[0].Quantity)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(28)))

	view, err = f.svc.SetQuantity(context.Background(), f.owner, latte.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.svc.Remove(context.Background(), f.owner, latte.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestMutationsOnMissingCartAreNotFound(t *testing.T) {
	f := newCartFixture(t)
	itemID := uuid.New()

	_, err := f.svc.Increment(context.Background(), f.owner, itemID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	_, err = f.svc.Decrement(context.Background(), f.owner, itemID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	_, err = f.svc.Remove(context.Background(), f.owner, itemID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestGetMissingCartIsEmpty(t *testing.T) {
	f := newCartFixture(t)

	view, err := f.svc.Get(context.Background(), f.owner)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestGetDropsDeletedItems(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")
	gone := f.seedItem(t, "Seasonal", "6")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.Add(context.Background(), f.owner, gone.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.db.Delete(&models.Item{}, "id = ?", gone.ID).Error)

	view, err := f.svc.Get(context.Background(), f.owner)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(4)))
}

func TestGetUsesLivePrices(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Item{}).Where("id = ?", latte.ID).Update("price", decimal.NewFromInt(5)).Error)

	view, err := f.svc.Get(context.Background(), f.owner)
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(10)))
}

func TestClearIsIdempotent(t *testing.T) {
	f := newCartFixture(t)
	latte := f.seedItem(t, "Latte", "4")

	_, err := f.svc.Add(context.Background(), f.owner, latte.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.Clear(context.Background(), f.owner))
	require.NoError(t, f.svc.Clear(context.Background(), f.owner))

	_, err = f.repo.FindByOwner(context.Background(), f.owner)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFailuresAreDependencyErrors(t *testing.T) {
	svc, err := NewService(&stubCartRepo{findErr: errors.New("conn reset")}, stubItemLookup{}, nil)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, stubItemLookup{}, nil)
	require.Error(t, err)
	_, err = NewService(&stubCartRepo{}, nil, nil)
	require.Error(t, err)
}

type stubCartRepo struct {
	cart    *models.Cart
	findErr error
}

func (s *stubCartRepo) WithTx(*gorm.DB) CartRepository { return s }
func (s *stubCartRepo) FindByOwner(context.Context, uuid.UUID) (*models.Cart, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}
func (s *stubCartRepo) Create(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	s.cart = cart
	return cart, nil
}
func (s *stubCartRepo) Update(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	s.cart = cart
	return cart, nil
}
func (s *stubCartRepo) DeleteByOwner(context.Context, uuid.UUID) (bool, error) {
	existed := s.cart != nil
	s.cart = nil
	return existed, nil
}

type stubItemLookup struct{}

func (stubItemLookup) FindByID(context.Context, uuid.UUID) (*models.Item, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubItemLookup) FindByIDs(context.Context, []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	return map[uuid.UUID]models.Item{}, nil
}
