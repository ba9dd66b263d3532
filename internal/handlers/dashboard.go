package handlers

import (
	"net/http"

	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/services"
)

type DashboardHandler struct {
	Sync *services.SyncEngine
}

func NewDashboardHandler(sync *services.SyncEngine) *DashboardHandler {
	return &DashboardHandler{Sync: sync}
}

// Get derives the per-zone figures from the current mirror. Computed fresh
// on every request.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	m := h.Sync.Mirror()
	httpx.JSON(w, http.StatusOK, services.ComputeZoneStats(m.Zones, m.Organizations, m.Invoices))
}

// ZoneDetail is the drill-down behind a dashboard card: the zone's figures
// plus its invoices, most recent first.
func (h *DashboardHandler) ZoneDetail(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_name", nil)
		return
	}
	m := h.Sync.Mirror()
	stats, ok := services.ComputeZoneStats(m.Zones, m.Organizations, m.Invoices)[name]
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "zone_not_found", nil)
		return
	}
	invoices := services.CollectZoneInvoices(m.Organizations, m.Invoices, name)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"zone":     name,
		"stats":    stats,
		"invoices": invoices,
	})
}
