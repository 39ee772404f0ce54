package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rowdysden/rowdysden-backend/api/controllers"
	"github.com/rowdysden/rowdysden-backend/api/middleware"
	"github.com/rowdysden/rowdysden-backend/internal/cart"
	"github.com/rowdysden/rowdysden-backend/internal/categories"
	"github.com/rowdysden/rowdysden-backend/internal/items"
	"github.com/rowdysden/rowdysden-backend/internal/orders"
	"github.com/rowdysden/rowdysden-backend/internal/roles"
	"github.com/rowdysden/rowdysden-backend/internal/uploads"
	"github.com/rowdysden/rowdysden-backend/internal/users"
	"github.com/rowdysden/rowdysden-backend/internal/wishlist"
	"github.com/rowdysden/rowdysden-backend/pkg/config"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	"github.com/rowdysden/rowdysden-backend/pkg/metrics"
	"github.com/rowdysden/rowdysden-backend/pkg/redis"
)

// Dependencies carries everything the HTTP surface needs. Idempotency may be
// nil when Redis is not configured.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Gatherer prometheus.Gatherer
	Metrics  *metrics.HTTPMetrics

	Sessions    middleware.SessionOwners
	Idempotency redis.IdempotencyStore
	Readiness   []controllers.ReadinessCheck

	// LocalUploadsDir is served at the storage public path when set.
	LocalUploadsDir string

	Categories categories.Service
	Items      items.Service
	Cart       cart.Service
	Orders     orders.Service
	Wishlist   wishlist.Service
	Users      users.Service
	Roles      roles.Service
	Uploads    uploads.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(deps.Metrics),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	if deps.LocalUploadsDir != "" {
		prefix := "/" + strings.Trim(cfg.Storage.PublicPath, "/")
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(deps.LocalUploadsDir)))
		r.Handle(prefix+"/*", files)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Session(deps.Sessions, logg),
			middleware.Idempotency(deps.Idempotency, logg),
		)

		r.Get("/session", controllers.SessionGet(logg))

		categoryRoutes(r, deps)
		orderRoutes(r, deps, false)

		// legacy prefix: items plus category and order routes under /items
		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(deps.Items, logg))
			r.Get("/", controllers.ItemList(deps.Items, logg))
			r.Get("/{id}", controllers.ItemGet(deps.Items, logg))
			r.Put("/{id}", controllers.ItemUpdate(deps.Items, logg))
			r.Delete("/{id}", controllers.ItemDelete(deps.Items, logg))

			categoryRoutes(r, deps)
			orderRoutes(r, deps, true)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Get("/{owner}", controllers.CartGet(deps.Cart, logg))
			r.Delete("/{owner}", controllers.CartClear(deps.Cart, logg))
			r.Post("/{owner}/order", controllers.OrderCheckout(deps.Orders, logg))
			r.Put("/{owner}/item/{item}", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/{owner}/item/{item}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Put("/{owner}/item/{item}/increment", controllers.CartIncrement(deps.Cart, logg))
			r.Put("/{owner}/item/{item}/decrement", controllers.CartDecrement(deps.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/add", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/remove", controllers.WishlistRemove(deps.Wishlist, logg))
			r.Get("/{owner}", controllers.WishlistGet(deps.Wishlist, logg))
			r.Delete("/{owner}/items/{item}", controllers.WishlistRemoveItem(deps.Wishlist, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UserCreate(deps.Users, logg))
			r.Get("/", controllers.UserList(deps.Users, logg))
			r.Get("/{id}", controllers.UserGet(deps.Users, logg))
			r.Put("/{id}/status", controllers.UserUpdateStatus(deps.Users, logg))
		})

		r.Post("/add-role", controllers.RoleCreate(deps.Roles, logg))
		r.Get("/all-roles", controllers.RoleList(deps.Roles, logg))
		r.Get("/role/{id}", controllers.RoleGet(deps.Roles, logg))
		r.Put("/update-role/{id}", controllers.RoleUpdate(deps.Roles, logg))
		r.Delete("/delete-role/{id}", controllers.RoleDelete(deps.Roles, logg))

		r.Post("/upload-image", controllers.UploadImage(deps.Uploads, cfg.Storage.MaxUploadBytes(), logg))
	})

	return r
}

func categoryRoutes(r chi.Router, deps Dependencies) {
	logg := deps.Logger
	r.Get("/categories", controllers.CategoryList(deps.Categories, logg))
	r.Route("/category", func(r chi.Router) {
		r.Post("/", controllers.CategoryCreate(deps.Categories, logg))
		r.Get("/", controllers.CategoryList(deps.Categories, logg))
		r.Get("/{id}", controllers.CategoryGet(deps.Categories, logg))
		r.Put("/{id}", controllers.CategoryUpdate(deps.Categories, logg))
		r.Delete("/{id}", controllers.CategoryDelete(deps.Categories, logg))
	})
}

// orderRoutes registers the order surface. legacyCreate adds POST /order,
// the create alias kept under /items.
func orderRoutes(r chi.Router, deps Dependencies, legacyCreate bool) {
	logg := deps.Logger
	r.Post("/create-order", controllers.OrderCreate(deps.Orders, logg))
	r.Route("/order", func(r chi.Router) {
		if legacyCreate {
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
		}
		r.Get("/", controllers.OrderList(deps.Orders, logg))
		r.Get("/all", controllers.OrderList(deps.Orders, logg))
		r.Get("/pending-inprocess", controllers.OrderListOpen(deps.Orders, logg))
		r.Get("/complete", controllers.OrderListCompleted(deps.Orders, logg))
		r.Get("/{id}", controllers.OrderGet(deps.Orders, logg))
		r.Put("/{id}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
		r.Delete("/{id}", controllers.OrderDelete(deps.Orders, logg))
	})
}
