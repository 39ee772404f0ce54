package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowdysden/rowdysden-backend/api/controllers"
	"github.com/rowdysden/rowdysden-backend/internal/cart"
	"github.com/rowdysden/rowdysden-backend/internal/categories"
	"github.com/rowdysden/rowdysden-backend/internal/items"
	"github.com/rowdysden/rowdysden-backend/internal/orders"
	"github.com/rowdysden/rowdysden-backend/internal/roles"
	"github.com/rowdysden/rowdysden-backend/internal/uploads"
	"github.com/rowdysden/rowdysden-backend/internal/users"
	"github.com/rowdysden/rowdysden-backend/internal/wishlist"
	"github.com/rowdysden/rowdysden-backend/pkg/config"
	"github.com/rowdysden/rowdysden-backend/pkg/db/dbtest"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	"github.com/rowdysden/rowdysden-backend/pkg/metrics"
	"github.com/rowdysden/rowdysden-backend/pkg/session"
	"github.com/rowdysden/rowdysden-backend/pkg/storage/local"
)

type apiFixture struct {
	server *httptest.Server
	client *http.Client
}

func newAPIFixture(t *testing.T, readiness ...controllers.ReadinessCheck) apiFixture {
	t.Helper()
	db := dbtest.Open(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	reg := prometheus.NewRegistry()

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Session: config.SessionConfig{Secret: "test-secret-test-secret", CookieName: "rd_test", MaxAgeDays: 1},
		Storage: config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicPath: "/uploads", MaxUploadMB: 1},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	categoryRepo := categories.NewRepository(db)
	itemRepo := items.NewRepository(db)
	cartRepo := cart.NewRepository(db)

	categorySvc, err := categories.NewService(categoryRepo)
	require.NoError(t, err)
	itemSvc, err := items.NewService(itemRepo, categoryRepo)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cartRepo, itemRepo, logg)
	require.NoError(t, err)
	orderSvc, err := orders.NewService(orders.ServiceParams{
		Repo:              orders.NewRepository(db),
		Carts:             cartRepo,
		Items:             itemRepo,
		Tx:                dbtest.TxRunner{DB: db},
		Metrics:           metrics.NewOrderMetrics(reg),
		Logger:            logg,
		StrictTransitions: true,
	})
	require.NoError(t, err)
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(db),
		ItemRepo:     itemRepo,
	})
	require.NoError(t, err)
	userSvc, err := users.NewService(users.NewRepository(db), config.PasswordConfig{
		ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	require.NoError(t, err)
	roleSvc, err := roles.NewService(roles.NewRepository(db))
	require.NoError(t, err)
	store, err := local.New(cfg.Storage)
	require.NoError(t, err)
	uploadSvc, err := uploads.NewService(store, cfg.Storage.MaxUploadBytes(), logg)
	require.NoError(t, err)
	sessions, err := session.New(cfg.Session)
	require.NoError(t, err)

	handler := NewRouter(Dependencies{
		Config:          cfg,
		Logger:          logg,
		Gatherer:        reg,
		Metrics:         metrics.NewHTTPMetrics(reg),
		Sessions:        sessions,
		Readiness:       readiness,
		LocalUploadsDir: store.Dir(),
		Categories:      categorySvc,
		Items:           itemSvc,
		Cart:            cartSvc,
		Orders:          orderSvc,
		Wishlist:        wishlistSvc,
		Users:           userSvc,
		Roles:           roleSvc,
		Uploads:         uploadSvc,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return apiFixture{server: server, client: &http.Client{Jar: jar}}
}

func (f apiFixture) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp.StatusCode, envelope
}

func data(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	out, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "expected object data, got %v", envelope)
	return out
}

func errorCode(envelope map[string]any) string {
	e, _ := envelope["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestCatalogCartCheckoutFlow(t *testing.T) {
	f := newAPIFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/v1/category", map[string]any{"name": "Hot Drinks"})
	require.Equal(t, http.StatusCreated, status, body)
	category := data(t, body)
	assert.Equal(t, "hot-drinks", category["slug"])

	status, body = f.do(t, http.MethodPost, "/api/v1/items", map[string]any{
		"name": "Chai", "price": "12.50", "category_id": category["id"],
	})
	require.Equal(t, http.StatusCreated, status, body)
	itemID := data(t, body)["id"].(string)

	status, body = f.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"item_id": itemID, "quantity": 2})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = f.do(t, http.MethodPut, "/api/v1/cart/me/item/"+itemID+"/increment", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "37.5", data(t, body)["total"])

	status, body = f.do(t, http.MethodPost, "/api/v1/cart/me/order", map[string]any{
		"customer_name": "Rowdy", "phone": "555-0100",
	})
	require.Equal(t, http.StatusCreated, status, body)
	order := data(t, body)
	assert.Equal(t, "37.5", order["total"])
	orderID := order["id"].(string)

	status, body = f.do(t, http.MethodGet, "/api/v1/cart/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, data(t, body)["items"])

	status, body = f.do(t, http.MethodPut, "/api/v1/order/"+orderID+"/status", map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "STATE_CONFLICT", errorCode(body))

	status, _ = f.do(t, http.MethodPut, "/api/v1/items/order/"+orderID+"/status", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, status)

	status, body = f.do(t, http.MethodDelete, "/api/v1/category/"+category["id"].(string), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))
}

func TestLegacyOrderCreateAndLists(t *testing.T) {
	f := newAPIFixture(t)

	_, body := f.do(t, http.MethodPost, "/api/v1/items/category", map[string]any{"name": "Snacks"})
	categoryID := data(t, body)["id"]
	_, body = f.do(t, http.MethodPost, "/api/v1/items", map[string]any{"name": "Samosa", "price": "4", "category_id": categoryID})
	itemID := data(t, body)["id"]

	status, body := f.do(t, http.MethodPost, "/api/v1/items/order", map[string]any{
		"customer_name": "Guest", "phone": "123",
		"items": []map[string]any{{"item_id": itemID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = f.do(t, http.MethodGet, "/api/v1/order/pending-inprocess", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = f.do(t, http.MethodGet, "/api/v1/order?limit=10", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data(t, body)["orders"], 1)
}

func TestWishlistAndSession(t *testing.T) {
	f := newAPIFixture(t)

	_, body := f.do(t, http.MethodGet, "/api/v1/session", nil)
	owner := data(t, body)["owner_id"].(string)

	_, body = f.do(t, http.MethodPost, "/api/v1/category", map[string]any{"name": "Tees"})
	_, body = f.do(t, http.MethodPost, "/api/v1/items", map[string]any{"name": "Logo Tee", "price": "20", "category_id": data(t, body)["id"]})
	itemID := data(t, body)["id"].(string)

	for i := 0; i < 2; i++ {
		status, body := f.do(t, http.MethodPost, "/api/v1/wishlist/add", map[string]any{"item_id": itemID})
		require.Equal(t, http.StatusCreated, status, body)
	}

	status, body := f.do(t, http.MethodGet, "/api/v1/wishlist/"+owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, data(t, body)["items"], 1)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/wishlist/me/items/"+itemID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestWishlistRemoveRoute(t *testing.T) {
	f := newAPIFixture(t)

	_, body := f.do(t, http.MethodGet, "/api/v1/session", nil)
	owner := data(t, body)["owner_id"].(string)
	_, body = f.do(t, http.MethodPost, "/api/v1/category", map[string]any{"name": "Caps"})
	_, body = f.do(t, http.MethodPost, "/api/v1/items", map[string]any{"name": "Snapback", "price": "15", "category_id": data(t, body)["id"]})
	itemID := data(t, body)["id"].(string)

	count := func() int {
		_, body := f.do(t, http.MethodGet, "/api/v1/wishlist/"+owner, nil)
		entries, _ := data(t, body)["items"].([]any)
		return len(entries)
	}
	add := func() {
		status, body := f.do(t, http.MethodPost, "/api/v1/wishlist/add", map[string]any{"item_id": itemID})
		require.Equal(t, http.StatusCreated, status, body)
	}

	add()
	status, body := f.do(t, http.MethodDelete, "/api/v1/wishlist/remove?user_id="+owner+"&product_id="+itemID, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, data(t, body)["deleted"])
	assert.Zero(t, count())

	// removing a non-member is still a success
	status, body = f.do(t, http.MethodDelete, "/api/v1/wishlist/remove?owner_id="+owner+"&item_id="+itemID, nil)
	require.Equal(t, http.StatusOK, status, body)

	add()
	status, body = f.do(t, http.MethodDelete, "/api/v1/wishlist/remove", map[string]any{"owner_id": owner, "item_id": itemID})
	require.Equal(t, http.StatusOK, status, body)
	assert.Zero(t, count())

	status, body = f.do(t, http.MethodDelete, "/api/v1/wishlist/remove?product_id=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
}

func TestMalformedIDsAreValidationErrors(t *testing.T) {
	f := newAPIFixture(t)

	paths := []string{
		"/api/v1/items/not-a-uuid",
		"/api/v1/cart/nope",
		"/api/v1/order/123",
		"/api/v1/role/x",
		"/api/v1/category/zzz",
		"/api/v1/items/category/zzz",
		"/api/v1/wishlist/zzz",
	}
	for _, path := range paths {
		status, body := f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(body), path)
	}
}

func TestUsersAndRoles(t *testing.T) {
	f := newAPIFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/v1/users", map[string]any{
		"name": "Ana", "email": "Ana@Example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, status, body)
	user := data(t, body)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	status, _ = f.do(t, http.MethodPost, "/api/v1/users", map[string]any{
		"name": "Ana 2", "email": "ana@example.com", "password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = f.do(t, http.MethodPut, "/api/v1/users/"+user["id"].(string)+"/status", map[string]any{"status": "block"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "block", data(t, body)["status"])

	status, body = f.do(t, http.MethodPost, "/api/v1/add-role", map[string]any{"name": "admin"})
	require.Equal(t, http.StatusCreated, status, body)
	roleID := data(t, body)["id"].(string)

	status, _ = f.do(t, http.MethodPost, "/api/v1/add-role", map[string]any{"name": "admin"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = f.do(t, http.MethodDelete, "/api/v1/delete-role/"+roleID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUploadImageIsServed(t *testing.T) {
	f := newAPIFixture(t)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/v1/upload-image", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope struct {
		Data uploads.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "image/png", envelope.Data.ContentType)

	served, err := f.client.Get(f.server.URL + envelope.Data.URL)
	require.NoError(t, err)
	defer served.Body.Close()
	assert.Equal(t, http.StatusOK, served.StatusCode)
	got, err := io.ReadAll(served.Body)
	require.NoError(t, err)
	assert.Equal(t, png, got)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t, controllers.ReadinessCheck{
		Name: "redis",
		Ping: func(context.Context) error { return errors.New("connection refused") },
	})

	status, _ := f.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := f.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_ERROR", errorCode(body))

	resp, err := f.client.Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")
}
