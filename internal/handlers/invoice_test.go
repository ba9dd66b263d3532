package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/services"
	"github.com/gfq-app/gfq/internal/store"
)

func setupTestEngine(t *testing.T) *services.SyncEngine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Zone{}, &models.Organization{}, &models.Invoice{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	engine := services.NewSyncEngine(store.New(conn))
	// First load seeds the default zones.
	if _, err := engine.LoadAll(); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	return engine
}

func seedOrganization(t *testing.T, engine *services.SyncEngine) models.Organization {
	t.Helper()
	org, err := engine.SaveOrganization(models.Organization{Name: "Clinique du Wouri", ZoneName: "AKWA"})
	if err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	return org
}

func TestInvoiceCreateListAndPay(t *testing.T) {
	engine := setupTestEngine(t)
	org := seedOrganization(t, engine)
	h := NewInvoiceHandler(engine)

	body := `{"organizationId":` + strconv.Itoa(int(org.ID)) + `,"number":"F-100","issueDate":"2024-01-15","dueDate":"2024-02-15","taxRatePercent":10,"lineItems":[{"designation":"X","quantity":2,"unitPrice":100}]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Save(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.TotalAmount != 220 {
		t.Fatalf("unexpected invoice: %+v", created)
	}

	// List resolves the organization and zone labels.
	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))
	var listed []struct {
		models.Invoice
		OrganizationName string `json:"organizationName"`
		ZoneName         string `json:"zoneName"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].OrganizationName != "Clinique du Wouri" || listed[0].ZoneName != "AKWA" {
		t.Fatalf("unexpected list: %+v", listed)
	}

	// Pay, then pay again: the transition is one-way.
	payURL := "/invoices/pay?id=" + strconv.Itoa(int(created.ID))
	w = httptest.NewRecorder()
	h.Pay(w, httptest.NewRequest(http.MethodPost, payURL, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("pay: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	h.Pay(w, httptest.NewRequest(http.MethodPost, payURL, nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("second pay: expected 409 got %d", w.Code)
	}
}

func TestInvoiceDefaultTaxRate(t *testing.T) {
	engine := setupTestEngine(t)
	org := seedOrganization(t, engine)
	h := NewInvoiceHandler(engine)

	// No taxRatePercent in the payload: the 3% default applies.
	body := `{"organizationId":` + strconv.Itoa(int(org.ID)) + `,"number":"F-101","issueDate":"2024-01-15","dueDate":"2024-02-15","lineItems":[{"designation":"X","quantity":1,"unitPrice":100}]}`
	w := httptest.NewRecorder()
	h.Save(w, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.TaxRatePercent != models.DefaultTaxRatePercent || created.TotalAmount != 103 {
		t.Fatalf("expected default rate applied, got %+v", created)
	}

	// An explicit zero rate is not the same as a missing rate.
	body = `{"organizationId":` + strconv.Itoa(int(org.ID)) + `,"number":"F-102","issueDate":"2024-01-15","dueDate":"2024-02-15","taxRatePercent":0,"lineItems":[{"designation":"X","quantity":1,"unitPrice":100}]}`
	w = httptest.NewRecorder()
	h.Save(w, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body)))
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.TotalAmount != 100 {
		t.Fatalf("explicit zero rate ignored: %+v", created)
	}
}

func TestInvoiceValidationFailure(t *testing.T) {
	engine := setupTestEngine(t)
	seedOrganization(t, engine)
	h := NewInvoiceHandler(engine)

	w := httptest.NewRecorder()
	h.Save(w, httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{"organizationId":1}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("expected violation details, got %s", w.Body.String())
	}
}
