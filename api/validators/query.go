package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded by
// [lo, hi]. A missing value yields def.
func ParseQueryInt(r *http.Request, key string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	details := map[string]any{"field": key}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, key+" must be an integer").WithDetails(details)
	}
	if n < lo || n > hi {
		details["min"], details["max"] = lo, hi
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" is out of range").WithDetails(details)
	}
	return n, nil
}
