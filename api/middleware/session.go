package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/api/responses"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

// SessionOwners issues or reads the guest id for a request.
type SessionOwners interface {
	OwnerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, error)
}

// Session attaches the guest id to every request context, setting the cookie
// on first contact.
func Session(sessions SessionOwners, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions == nil {
				next.ServeHTTP(w, r)
				return
			}
			owner, err := sessions.OwnerID(w, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve session"))
				return
			}
			ctx := WithSessionOwner(r.Context(), owner)
			if logg != nil {
				ctx = logg.WithOwnerID(ctx, owner.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
