package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rowdysden/rowdysden-backend/api/responses"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	pkgredis "github.com/rowdysden/rowdysden-backend/pkg/redis"
)

const (
	idempotencyHeader   = "Idempotency-Key"
	orderIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed request can hold its key.
	pendingTTL = 2 * time.Minute
)

// idempotentRoutes lists the POST paths that create orders. A "*" segment
// matches any single path segment.
var idempotentRoutes = []string{
	"/api/v1/create-order",
	"/api/v1/items/order",
	"/api/v1/items/create-order",
	"/api/v1/cart/*/order",
}

// replay is what gets cached for an order request. A record with Pending set
// marks a request that reserved the key and has not finished yet.
type replay struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key on order creation routes. The key is reserved before the
// handler runs, so a concurrent duplicate gets 409 instead of a second
// order. Requests without the header, or when no store is configured, pass
// straight through.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := routeTTL(r.Method, r.URL.Path)
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !guarded || store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintBody(body)
			key := store.IdempotencyKey(scopeFor(r), clientKey)

			marker, err := json.Marshal(replay{Pending: true, Fingerprint: fingerprint})
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency marker"))
				return
			}
			reserved, err := store.SetNX(ctx, key, string(marker), pendingTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				if err := replayExisting(ctx, store, key, fingerprint, w); err != nil {
					responses.WriteError(ctx, logg, w, err)
				}
				return
			}

			rec := &capturingRecorder{statusRecorder: statusRecorder{ResponseWriter: w}}
			next.ServeHTTP(rec, r)

			// the request may be gone, the bookkeeping still has to land
			ctx = context.WithoutCancel(ctx)

			// failed attempts stay retryable
			if rec.Status() >= http.StatusBadRequest {
				if err := store.Del(ctx, key); err != nil && logg != nil {
					logg.Error(ctx, "idempotency.release_failed", err)
				}
				return
			}

			payload, err := json.Marshal(replay{
				Status:      rec.Status(),
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
				Fingerprint: fingerprint,
			})
			if err == nil {
				err = store.Set(ctx, key, string(payload), ttl)
			}
			if err != nil && logg != nil {
				logg.Error(ctx, "idempotency.persist_failed", err)
			}
		})
	}
}

// replayExisting answers a request whose key is already held: it replays a
// finished record and rejects one that is still running or that was made
// with a different body.
func replayExisting(ctx context.Context, store pkgredis.IdempotencyStore, key, fingerprint string, w http.ResponseWriter) error {
	cached, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// released between SetNX and Get; the client can retry straight away
		return pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}

	var prior replay
	if err := json.Unmarshal([]byte(cached), &prior); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	if prior.Fingerprint != fingerprint {
		return pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body")
	}
	if prior.Pending {
		return pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in progress")
	}
	prior.writeTo(w)
	return nil
}

func (p replay) writeTo(w http.ResponseWriter) {
	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(p.Status)
	_, _ = w.Write(p.Body)
}

func routeTTL(method, path string) (time.Duration, bool) {
	if method != http.MethodPost {
		return 0, false
	}
	for _, route := range idempotentRoutes {
		if matchSegments(route, path) {
			return orderIdempotencyTTL, true
		}
	}
	return 0, false
}

func matchSegments(route, path string) bool {
	want := strings.Split(route, "/")
	got := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != "*" && want[i] != got[i] {
			return false
		}
	}
	return true
}

// scopeFor keeps keys from colliding across owners and routes.
func scopeFor(r *http.Request) string {
	owner := "anonymous"
	if id, ok := SessionOwnerFromContext(r.Context()); ok {
		owner = id.String()
	}
	return owner + "|" + r.Method + "|" + r.URL.Path
}

func fingerprintBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

type capturingRecorder struct {
	statusRecorder
	body bytes.Buffer
}

func (c *capturingRecorder) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.statusRecorder.Write(b)
}
