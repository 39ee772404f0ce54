package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/api/responses"
	"github.com/rowdysden/rowdysden-backend/api/validators"
	"github.com/rowdysden/rowdysden-backend/internal/wishlist"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

func WishlistGet(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetWishlist(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// WishlistAdd is idempotent and returns the updated wishlist.
func WishlistAdd(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input wishlist.MembershipInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		owner, err := ownerFromBody(r, input.OwnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddItem(r.Context(), owner, input.ItemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetWishlist(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, dto)
	}
}

// WishlistRemove accepts the member either as query parameters
// (owner_id|user_id, item_id|product_id) or as a JSON body. Removing a
// non-member succeeds.
func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, item, err := wishlistMember(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveItem(r.Context(), owner, item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDeleted(w)
	}
}

func wishlistMember(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	item, err := queryUUID(r, "item_id", "product_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if item == nil {
		var input wishlist.MembershipInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		owner, err := ownerFromBody(r, input.OwnerID)
		return owner, input.ItemID, err
	}

	explicit, err := queryUUID(r, "owner_id", "user_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	owner, err := ownerFromBody(r, explicit)
	return owner, *item, err
}

// queryUUID returns the first of names present in the query string.
func queryUUID(r *http.Request, names ...string) (*uuid.UUID, error) {
	for _, name := range names {
		id, err := validators.ParseQueryUUID(r, name)
		if err != nil || id != nil {
			return id, err
		}
	}
	return nil, nil
}

// WishlistRemoveItem is the path-addressed form of WishlistRemove.
func WishlistRemoveItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := validators.ParseUUIDParam(r, "item")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveItem(r.Context(), owner, item); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDeleted(w)
	}
}
