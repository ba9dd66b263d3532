package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/services"
)

type ZoneHandler struct {
	Sync *services.SyncEngine
}

func NewZoneHandler(sync *services.SyncEngine) *ZoneHandler { return &ZoneHandler{Sync: sync} }

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.Sync.Mirror().Zones)
}

// Save creates a zone (no id) or renames one (id set). A rename fans out to
// every organization referencing the old name.
func (h *ZoneHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input models.Zone
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	created := input.ID == 0
	zone, err := h.Sync.SaveZone(input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, zone)
}

func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Sync.DeleteZone(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Reset wipes the zone list back to the default seed.
func (h *ZoneHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Sync.ResetDefaultZones(); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.Sync.Mirror().Zones)
}
