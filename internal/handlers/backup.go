package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/services"
)

// maxImportSize caps the import payload; a full backup stays far under this.
const maxImportSize = 16 << 20

type BackupHandler struct {
	Sync *services.SyncEngine
}

func NewBackupHandler(sync *services.SyncEngine) *BackupHandler {
	return &BackupHandler{Sync: sync}
}

// Export streams the snapshot as a downloadable JSON file.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Sync.ExportSnapshot()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	filename := fmt.Sprintf("gfq-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	httpx.JSON(w, http.StatusOK, snap)
}

// Import validates the payload shape, then replaces all three collections.
// A rejected payload leaves store and mirror untouched.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "read_error", nil)
		return
	}
	snap, err := services.ParseSnapshot(body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.Sync.ImportSnapshot(snap); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"zones":         len(snap.Zones),
		"organizations": len(snap.Organizations),
		"invoices":      len(snap.Invoices),
	})
}
