package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gfq-app/gfq/internal/httpx"
	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/services"
	"github.com/gfq-app/gfq/internal/validation"
)

type InvoiceHandler struct {
	Sync *services.SyncEngine
}

func NewInvoiceHandler(sync *services.SyncEngine) *InvoiceHandler {
	return &InvoiceHandler{Sync: sync}
}

// invoiceView is an Invoice plus the resolved organization labels. An
// organization that no longer exists shows as "N/A".
type invoiceView struct {
	models.Invoice
	OrganizationName string `json:"organizationName"`
	ZoneName         string `json:"zoneName"`
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	mirror := h.Sync.Mirror()
	orgsByID := make(map[uint]models.Organization, len(mirror.Organizations))
	for _, o := range mirror.Organizations {
		orgsByID[o.ID] = o
	}
	out := make([]invoiceView, 0, len(mirror.Invoices))
	for _, inv := range mirror.Invoices {
		if status != "" && inv.Status != status {
			continue
		}
		view := invoiceView{Invoice: inv, OrganizationName: "N/A", ZoneName: "N/A"}
		if o, ok := orgsByID[inv.OrganizationID]; ok {
			view.OrganizationName = o.Name
			view.ZoneName = o.ZoneName
		}
		out = append(out, view)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InvoiceHandler) Save(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID                  uint              `json:"id"`
		OrganizationID      uint              `json:"organizationId"`
		Number              string            `json:"number"`
		IssueDate           string            `json:"issueDate"`
		DueDate             string            `json:"dueDate"`
		Status              string            `json:"status"`
		Description         string            `json:"description"`
		Notes               string            `json:"notes"`
		TaxRatePercent      *float64          `json:"taxRatePercent"`
		DiscountRatePercent float64           `json:"discountRatePercent"`
		LineItems           []models.LineItem `json:"lineItems"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("number", input.Number, v)
	validation.Required("issueDate", input.IssueDate, v)
	validation.Required("dueDate", input.DueDate, v)
	if input.OrganizationID == 0 {
		v["organizationId"] = "required"
	}
	if input.TaxRatePercent != nil {
		validation.NonNegativeFloat("taxRatePercent", *input.TaxRatePercent, v)
	}
	validation.NonNegativeFloat("discountRatePercent", input.DiscountRatePercent, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	taxRate := models.DefaultTaxRatePercent
	if input.TaxRatePercent != nil {
		taxRate = *input.TaxRatePercent
	}
	inv := models.Invoice{
		ID:                  input.ID,
		OrganizationID:      input.OrganizationID,
		Number:              input.Number,
		IssueDate:           input.IssueDate,
		DueDate:             input.DueDate,
		Status:              input.Status,
		Description:         input.Description,
		Notes:               input.Notes,
		TaxRatePercent:      taxRate,
		DiscountRatePercent: input.DiscountRatePercent,
		LineItems:           input.LineItems,
	}
	created := inv.ID == 0
	saved, err := h.Sync.SaveInvoice(inv)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, saved)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Sync.DeleteInvoice(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Pay marks an invoice as paid. One-way: re-paying is a conflict.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	inv, err := h.Sync.MarkInvoicePaid(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}
