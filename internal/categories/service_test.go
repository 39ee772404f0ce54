package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowdysden/rowdysden-backend/pkg/db/dbtest"
	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

func newSQLiteService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateDerivesSlug(t *testing.T) {
	svc, _ := newSQLiteService(t)

	got, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Hot Drinks"})
	require.NoError(t, err)
	assert.Equal(t, "hot-drinks", got.Slug)
	assert.True(t, got.IsActive)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestCreateHonoursInactiveFlag(t *testing.T) {
	svc, _ := newSQLiteService(t)
	inactive := false

	created, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Seasonal", IsActive: &inactive})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCreateDuplicateSlugConflicts(t *testing.T) {
	svc, _ := newSQLiteService(t)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Snacks"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateCategoryInput{Name: "snacks!"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestCreateRejectsUnsluggableName(t *testing.T) {
	svc, _ := newSQLiteService(t)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "***"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestListOrdersByName(t *testing.T) {
	svc, _ := newSQLiteService(t)
	for _, name := range []string{"Wraps", "Burgers", "Mains"} {
		_, err := svc.Create(context.Background(), CreateCategoryInput{Name: name})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Burgers", "Mains", "Wraps"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc, _ := newSQLiteService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestUpdateChangesFields(t *testing.T) {
	svc, _ := newSQLiteService(t)
	created, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Old"})
	require.NoError(t, err)

	name := "New Name"
	slug := "Fresh Slug"
	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateCategoryInput{Name: &name, Slug: &slug, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "fresh-slug", updated.Slug)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(context.Background(), uuid.New(), UpdateCategoryInput{Name: &name})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestDeleteWithItemsConflicts(t *testing.T) {
	svc, repo := newSQLiteService(t)
	created, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Busy"})
	require.NoError(t, err)

	item := models.Item{ID: uuid.New(), CategoryID: created.ID, Name: "Latte", Price: decimal.NewFromInt(4), IsActive: true}
	require.NoError(t, repo.db.Create(&item).Error)

	err = svc.Delete(context.Background(), created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestDeleteRemovesCategory(t *testing.T) {
	svc, _ := newSQLiteService(t)
	created, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Gone"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = svc.Delete(context.Background(), created.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
