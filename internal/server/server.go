package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/gfq-app/gfq/internal/handlers"
	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/services"
)

// New constructs the root http.Handler with all routes applied.
func New(sync *services.SyncEngine, db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	zh := handlers.NewZoneHandler(sync)
	mux.HandleFunc("/zones", listCreate(zh.List, zh.Save))
	mux.HandleFunc("/zones/delete", postOnly(zh.Delete))
	mux.HandleFunc("/zones/reset", postOnly(zh.Reset))

	oh := handlers.NewOrganizationHandler(sync)
	mux.HandleFunc("/organizations", listCreate(oh.List, oh.Save))
	mux.HandleFunc("/organizations/delete", postOnly(oh.Delete))

	ih := handlers.NewInvoiceHandler(sync)
	mux.HandleFunc("/invoices", listCreate(ih.List, ih.Save))
	mux.HandleFunc("/invoices/delete", postOnly(ih.Delete))
	mux.HandleFunc("/invoices/pay", postOnly(ih.Pay))

	dh := handlers.NewDashboardHandler(sync)
	mux.HandleFunc("/dashboard", getOnly(dh.Get))
	mux.HandleFunc("/dashboard/zone", getOnly(dh.ZoneDetail))

	bh := handlers.NewBackupHandler(sync)
	mux.HandleFunc("/export", getOnly(bh.Export))
	mux.HandleFunc("/import", postOnly(bh.Import))

	return mux
}

func listCreate(list, create http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		h(w, r)
	}
}
