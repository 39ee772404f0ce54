package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/api/responses"
	"github.com/rowdysden/rowdysden-backend/api/validators"
	"github.com/rowdysden/rowdysden-backend/internal/cart"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

// CartAdd handles POST /cart. A repeated add increments the existing line.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		owner, err := ownerFromBody(r, input.OwnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Add(r.Context(), owner, input.ItemID, input.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, view)
	}
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartIncrement(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, svc.Increment)
}

func CartDecrement(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, svc.Decrement)
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(logg, svc.Remove)
}

// CartSetQuantity handles PUT /cart/{owner}/item/{item}. Zero removes the line.
func CartSetQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, item, err := cartLineParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input cart.SetQuantityInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetQuantity(r.Context(), owner, item, *input.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDeleted(w)
	}
}

type cartLineFunc func(ctx context.Context, ownerID, itemID uuid.UUID) (*cart.View, error)

func cartLineHandler(logg *logger.Logger, fn cartLineFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, item, err := cartLineParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := fn(r.Context(), owner, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func cartLineParams(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	owner, err := ownerParam(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	item, err := validators.ParseUUIDParam(r, "item")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return owner, item, nil
}
