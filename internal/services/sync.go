package services

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/store"
)

// Mirror is the in-memory copy of the three persisted collections. It is
// exclusively owned and replaced by SyncEngine; everyone else treats it as a
// read-only snapshot for the duration of one operation.
type Mirror struct {
	Zones         []models.Zone
	Organizations []models.Organization
	Invoices      []models.Invoice
}

// SyncEngine keeps the mirror consistent with the durable store. Every
// mutation follows the same pattern: validate, write to the store, then
// reload the whole mirror from the store. Reloading instead of patching
// trades efficiency for a mirror that is never stale after a write.
//
// The mutex serializes all operations: a reload can never observe an
// in-flight write, and the import's clear + re-insert sequence forms a
// single critical section.
type SyncEngine struct {
	mu     sync.Mutex
	store  *store.Store
	guard  *IntegrityGuard
	mirror Mirror
}

func NewSyncEngine(s *store.Store) *SyncEngine {
	return &SyncEngine{store: s, guard: NewIntegrityGuard(s)}
}

// LoadAll reads the three collections from the store into the mirror. When
// the zones collection is empty it is seeded with the default zone list
// first (the seed is persisted, so it happens at most once per empty-store
// lifetime).
func (e *SyncEngine) LoadAll() (Mirror, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reload(); err != nil {
		return Mirror{}, err
	}
	return e.mirror, nil
}

// Mirror returns the last loaded snapshot without touching the store.
func (e *SyncEngine) Mirror() Mirror {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mirror
}

// reload is the write-then-full-reload half of every mutation. Caller holds mu.
func (e *SyncEngine) reload() error {
	zones, err := e.store.Zones.GetAll()
	if err != nil {
		return err
	}
	if len(zones) == 0 {
		if err := e.seedDefaultZones(e.store); err != nil {
			return err
		}
		if zones, err = e.store.Zones.GetAll(); err != nil {
			return err
		}
	}
	orgs, err := e.store.Organizations.GetAll()
	if err != nil {
		return err
	}
	invoices, err := e.store.Invoices.GetAll()
	if err != nil {
		return err
	}
	e.mirror = Mirror{Zones: zones, Organizations: orgs, Invoices: invoices}
	return nil
}

func (e *SyncEngine) seedDefaultZones(s *store.Store) error {
	for _, name := range models.DefaultZoneNames {
		z := models.Zone{Name: name}
		if err := s.Zones.Upsert(&z); err != nil {
			return err
		}
	}
	log.Printf("seeded %d default zones", len(models.DefaultZoneNames))
	return nil
}

// SaveZone creates or renames a zone. A rename rewrites ZoneName on every
// referencing organization atomically with the zone row.
func (e *SyncEngine) SaveZone(z models.Zone) (models.Zone, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	z.Name = strings.TrimSpace(z.Name)
	zones, err := e.store.Zones.GetAll()
	if err != nil {
		return models.Zone{}, err
	}
	if err := e.guard.CheckZoneName(z.Name, z.ID, zones); err != nil {
		return models.Zone{}, err
	}
	if z.ID != 0 {
		old, ok := findZone(zones, z.ID)
		if !ok {
			return models.Zone{}, ErrZoneNotFound
		}
		if old.Name != z.Name {
			if err := e.guard.RenameZone(old.Name, &z); err != nil {
				return models.Zone{}, err
			}
			return z, e.reload()
		}
	}
	if err := e.store.Zones.Upsert(&z); err != nil {
		return models.Zone{}, err
	}
	return z, e.reload()
}

// DeleteZone removes a zone unless an organization still references it, in
// which case a ReferentialViolationError carrying the blocking count is
// returned and nothing is written.
func (e *SyncEngine) DeleteZone(id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	zones, err := e.store.Zones.GetAll()
	if err != nil {
		return err
	}
	zone, ok := findZone(zones, id)
	if !ok {
		return ErrZoneNotFound
	}
	if err := e.guard.CheckDeleteZone(zone); err != nil {
		return err
	}
	if err := e.store.Zones.Remove(id); err != nil {
		return err
	}
	return e.reload()
}

// ResetDefaultZones wipes the zones collection and re-seeds the default
// list, as one transaction.
func (e *SyncEngine) ResetDefaultZones() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.store.Transaction(func(tx *store.Store) error {
		if err := tx.Zones.Clear(); err != nil {
			return err
		}
		return e.seedDefaultZones(tx)
	})
	if err != nil {
		return err
	}
	return e.reload()
}

// SaveOrganization validates that ZoneName matches an existing zone, then
// upserts and reloads.
func (e *SyncEngine) SaveOrganization(o models.Organization) (models.Organization, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o.Name = strings.TrimSpace(o.Name)
	zones, err := e.store.Zones.GetAll()
	if err != nil {
		return models.Organization{}, err
	}
	if err := e.guard.CheckOrganization(o, zones); err != nil {
		return models.Organization{}, err
	}
	if err := e.store.Organizations.Upsert(&o); err != nil {
		return models.Organization{}, err
	}
	return o, e.reload()
}

// DeleteOrganization proceeds unconditionally: invoices that referenced the
// organization are left orphaned and readers substitute a placeholder.
func (e *SyncEngine) DeleteOrganization(id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Organizations.Remove(id); err != nil {
		return err
	}
	return e.reload()
}

// SaveInvoice recomputes TotalAmount from the line items before writing; a
// client-supplied total is never trusted.
func (e *SyncEngine) SaveInvoice(inv models.Invoice) (models.Invoice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if inv.Status == "" {
		inv.Status = models.StatusUnpaid
	}
	if err := e.validateInvoice(inv); err != nil {
		return models.Invoice{}, err
	}
	inv.TotalAmount = ComputeTotals(inv.LineItems, inv.TaxRatePercent, inv.DiscountRatePercent).Total
	if err := e.store.Invoices.Upsert(&inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, e.reload()
}

func (e *SyncEngine) validateInvoice(inv models.Invoice) error {
	if !models.ValidStatus(inv.Status) {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(inv.Number) == "" || inv.IssueDate == "" || inv.DueDate == "" {
		return ErrInvoiceIncomplete
	}
	orgs, err := e.store.Organizations.GetAll()
	if err != nil {
		return err
	}
	if _, ok := findOrganization(orgs, inv.OrganizationID); !ok {
		return ErrUnknownOrg
	}
	if len(inv.LineItems) == 0 {
		return ErrEmptyLineItems
	}
	for _, it := range inv.LineItems {
		if strings.TrimSpace(it.Designation) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return ErrInvalidLineItem
		}
	}
	return nil
}

// DeleteInvoice removes an invoice with no cascading effect.
func (e *SyncEngine) DeleteInvoice(id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Invoices.Remove(id); err != nil {
		return err
	}
	return e.reload()
}

// MarkInvoicePaid advances an invoice to "paid". The transition is one-way:
// a paid invoice stays paid and re-marking it is reported as an error.
func (e *SyncEngine) MarkInvoicePaid(id uint) (models.Invoice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	invoices, err := e.store.Invoices.GetAll()
	if err != nil {
		return models.Invoice{}, err
	}
	inv, ok := findInvoice(invoices, id)
	if !ok {
		return models.Invoice{}, ErrInvoiceNotFound
	}
	if inv.Status == models.StatusPaid {
		return models.Invoice{}, ErrAlreadyPaid
	}
	inv.Status = models.StatusPaid
	if err := e.store.Invoices.Upsert(&inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, e.reload()
}

// ExportSnapshot returns a point-in-time copy of the three collections,
// stamped with the export time and schema version.
func (e *SyncEngine) ExportSnapshot() (models.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	zones, err := e.store.Zones.GetAll()
	if err != nil {
		return models.Snapshot{}, err
	}
	orgs, err := e.store.Organizations.GetAll()
	if err != nil {
		return models.Snapshot{}, err
	}
	invoices, err := e.store.Invoices.GetAll()
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		Zones:         zones,
		Organizations: orgs,
		Invoices:      invoices,
		ExportedAt:    time.Now().UTC(),
		SchemaVersion: models.SchemaVersion,
	}, nil
}

// ParseSnapshot validates the shape of an import payload: zones,
// organizations and invoices must each be present as arrays. A missing
// exportedAt or schemaVersion is accepted (version-less file).
func ParseSnapshot(data []byte) (models.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Snapshot{}, &InvalidSnapshotError{Reason: "not_a_json_object"}
	}
	for _, key := range []string{"zones", "organizations", "invoices"} {
		rm, ok := raw[key]
		if !ok {
			return models.Snapshot{}, &InvalidSnapshotError{Reason: key + "_missing"}
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(rm, &elems); err != nil {
			return models.Snapshot{}, &InvalidSnapshotError{Reason: key + "_not_an_array"}
		}
		for _, el := range elems {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(el, &obj); err != nil {
				return models.Snapshot{}, &InvalidSnapshotError{Reason: key + "_element_not_an_object"}
			}
		}
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, &InvalidSnapshotError{Reason: "malformed_fields"}
	}
	return snap, nil
}

// ImportSnapshot replaces the whole store with the snapshot's content:
// clear the three collections, re-insert every record with its id stripped
// (the store assigns fresh ids), then reload the mirror. Invoice
// organization references are rewritten through an old-id to new-id map
// built while re-inserting organizations, so they survive the reassignment.
// The clear + re-insert sequence runs in one transaction; a failure leaves
// the store untouched.
func (e *SyncEngine) ImportSnapshot(snap models.Snapshot) error {
	if snap.Zones == nil || snap.Organizations == nil || snap.Invoices == nil {
		return &InvalidSnapshotError{Reason: "missing_collection"}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.store.Transaction(func(tx *store.Store) error {
		if err := tx.Zones.Clear(); err != nil {
			return err
		}
		if err := tx.Organizations.Clear(); err != nil {
			return err
		}
		if err := tx.Invoices.Clear(); err != nil {
			return err
		}
		for _, z := range snap.Zones {
			z.ID = 0
			if err := tx.Zones.Upsert(&z); err != nil {
				return err
			}
		}
		orgIDs := make(map[uint]uint, len(snap.Organizations))
		for _, o := range snap.Organizations {
			oldID := o.ID
			o.ID = 0
			if err := tx.Organizations.Upsert(&o); err != nil {
				return err
			}
			if oldID != 0 {
				orgIDs[oldID] = o.ID
			}
		}
		for _, inv := range snap.Invoices {
			inv.ID = 0
			if newID, ok := orgIDs[inv.OrganizationID]; ok {
				inv.OrganizationID = newID
			}
			// A reference to an organization absent from the snapshot was
			// already dangling; it stays as-is.
			if err := tx.Invoices.Upsert(&inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return e.reload()
}

func findZone(zones []models.Zone, id uint) (models.Zone, bool) {
	for _, z := range zones {
		if z.ID == id {
			return z, true
		}
	}
	return models.Zone{}, false
}

func findOrganization(orgs []models.Organization, id uint) (models.Organization, bool) {
	for _, o := range orgs {
		if o.ID == id {
			return o, true
		}
	}
	return models.Organization{}, false
}

func findInvoice(invoices []models.Invoice, id uint) (models.Invoice, bool) {
	for _, inv := range invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Invoice{}, false
}
