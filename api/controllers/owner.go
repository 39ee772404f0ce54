package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/api/middleware"
	"github.com/rowdysden/rowdysden-backend/api/validators"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

const ownerSelf = "me"

// ownerParam resolves the {owner} path segment. "me" maps to the session guest id.
func ownerParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "owner"))
	if strings.EqualFold(raw, ownerSelf) {
		return sessionOwner(r)
	}
	return validators.ParseUUID(raw, "owner")
}

// ownerFromBody prefers an explicit owner_id and falls back to the session.
func ownerFromBody(r *http.Request, explicit *uuid.UUID) (uuid.UUID, error) {
	if explicit != nil && *explicit != uuid.Nil {
		return *explicit, nil
	}
	return sessionOwner(r)
}

func sessionOwner(r *http.Request) (uuid.UUID, error) {
	if id, ok := middleware.SessionOwnerFromContext(r.Context()); ok {
		return id, nil
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "owner_id is required")
}
