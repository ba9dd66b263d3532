package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/services"
	"github.com/gfq-app/gfq/internal/store"
)

// writeServiceError maps the core error taxonomy onto HTTP statuses.
// Guard/validation failures mean "nothing happened"; store failures mean a
// write was attempted and aborted.
func writeServiceError(w http.ResponseWriter, err error) {
	var rv *services.ReferentialViolationError
	var is *services.InvalidSnapshotError
	var we *store.WriteError
	switch {
	case errors.As(err, &rv):
		httpx.JSONError(w, http.StatusConflict, "zone_referenced", map[string]any{
			"zone":                  rv.ZoneName,
			"blockingOrganizations": rv.Blocking,
		})
	case errors.As(err, &is):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_snapshot", is.Reason)
	case errors.Is(err, services.ErrZoneNotFound),
		errors.Is(err, services.ErrInvoiceNotFound):
		httpx.JSONError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrZoneExists),
		errors.Is(err, services.ErrAlreadyPaid):
		httpx.JSONError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrZoneNameRequired),
		errors.Is(err, services.ErrOrgNameRequired),
		errors.Is(err, services.ErrUnknownZone),
		errors.Is(err, services.ErrUnknownOrg),
		errors.Is(err, services.ErrInvoiceIncomplete),
		errors.Is(err, services.ErrEmptyLineItems),
		errors.Is(err, services.ErrInvalidLineItem),
		errors.Is(err, services.ErrInvalidStatus):
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, store.ErrStoreUnavailable):
		httpx.JSONError(w, http.StatusServiceUnavailable, "store_unavailable", nil)
	case errors.As(err, &we):
		httpx.JSONError(w, http.StatusInternalServerError, "write_error", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// idParam reads the id query parameter (teacher-style /xxx/delete?id=N routes).
func idParam(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
