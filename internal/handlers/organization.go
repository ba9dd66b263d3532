package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/services"
	"github.com/gfq-app/gfq/internal/validation"
)

type OrganizationHandler struct {
	Sync *services.SyncEngine
}

func NewOrganizationHandler(sync *services.SyncEngine) *OrganizationHandler {
	return &OrganizationHandler{Sync: sync}
}

// List filters the mirror by free-text query (name, address, phone) and by
// zone, both optional.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	zone := r.URL.Query().Get("zone")
	orgs := h.Sync.Mirror().Organizations
	out := make([]models.Organization, 0, len(orgs))
	for _, o := range orgs {
		if zone != "" && o.ZoneName != zone {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.Name), q) &&
			!strings.Contains(strings.ToLower(o.Address), q) &&
			!strings.Contains(o.Phone, q) {
			continue
		}
		out = append(out, o)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *OrganizationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input models.Organization
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("zoneName", input.ZoneName, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	created := input.ID == 0
	org, err := h.Sync.SaveOrganization(input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, org)
}

// Delete proceeds unconditionally; invoices that pointed at the organization
// are left orphaned.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Sync.DeleteOrganization(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
