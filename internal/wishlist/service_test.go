package wishlist

import (
	"context"
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
)

type wishlistFixture struct {
	svc   Service
	repo  *Repository
	db    *gorm.DB
	owner uuid.UUID
	items []models.Item
}

func newWishlistFixture(t *testing.T) wishlistFixture {
	t.Helper()
	db := dbtest.Open(t)
	category := models.Category{ID: uuid.New(), Name: "Desserts", Slug: "desserts", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	var seeded []models.Item
	for _, name := range []string{"Brownie", "Cheesecake"} {
		item := models.Item{ID: uuid.New(), CategoryID: category.ID, Name: name, Price: decimal.NewFromInt(6), IsActive: true}
		require.NoError(t, db.Create(&item).Error)
		seeded = append(seeded, item)
	}

	repo := NewRepository(db)
	svc, err := NewService(ServiceParams{WishlistRepo: repo, ItemRepo: items.NewRepository(db)})
	require.NoError(t, err)
	return wishlistFixture{svc: svc, repo: repo, db: db, owner: uuid.New(), items: seeded}
}

func TestAddTwiceKeepsOneEntry(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddItem(ctx, f.owner, f.items[0].ID))
	require.NoError(t, f.svc.AddItem(ctx, f.owner, f.items[0].ID))

	count, err := f.repo.CountItems(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddMissingItemIsNotFound(t *testing.T) {
	f := newWishlistFixture(t)

	err := f.svc.AddItem(context.Background(), f.owner, uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = f.svc.AddItem(context.Background(), uuid.Nil, f.items[0].ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestRemoveNonMemberIsNoop(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.AddItem(ctx, f.owner, f.items[0].ID))

	require.NoError(t, f.svc.RemoveItem(ctx, f.owner, f.items[1].ID))

	list, err := f.svc.GetWishlist(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, f.items[0].ID, list.Items[0].ItemID)
}

func TestGetWishlistJoinsLiveItems(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.AddItem(ctx, f.owner, f.items[0].ID))
	require.NoError(t, f.svc.AddItem(ctx, f.owner, f.items[1].ID))
	require.NoError(t, f.db.Model(&models.Item{}).Where("id = ?", f.items[1].ID).Update("price", decimal.NewFromInt(8)).Error)

	list, err := f.svc.GetWishlist(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	for _, entry := range list.Items {
		if entry.ItemID == f.items[1].ID {
			assert.True(t, entry.Price.Equal(decimal.NewFromInt(8)))
			assert.Equal(t, "Cheesecake", entry.Name)
		}
	}

	require.NoError(t, f.db.Delete(&models.Item{}, "id = ?", f.items[0].ID).Error)
	list, err = f.svc.GetWishlist(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, f.items[1].ID, list.Items[0].ItemID)
}

func TestGetWishlistEmpty(t *testing.T) {
	f := newWishlistFixture(t)

	list, err := f.svc.GetWishlist(context.Background(), f.owner)
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func TestRemoveItemDeletesEntry(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.AddItem(ctx, f.owner, f.items[0].ID))

	require.NoError(t, f.svc.RemoveItem(ctx, f.owner, f.items[0].ID))
	count, err := f.repo.CountItems(ctx, f.owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}
