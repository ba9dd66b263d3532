package services

import (
	"errors"
	"testing"

	"github.com/gfq-app/gfq/internal/models"
)

func TestCanDeleteZoneCountsBlockers(t *testing.T) {
	g := &IntegrityGuard{}
	orgs := []models.Organization{
		{ID: 1, Name: "o1", ZoneName: "A"},
		{ID: 2, Name: "o2", ZoneName: "A"},
		{ID: 3, Name: "o3", ZoneName: "B"},
	}
	if ok, n := g.CanDeleteZone("A", orgs); ok || n != 2 {
		t.Fatalf("expected blocked with 2 blockers, got ok=%v n=%d", ok, n)
	}
	if ok, n := g.CanDeleteZone("C", orgs); !ok || n != 0 {
		t.Fatalf("expected deletable, got ok=%v n=%d", ok, n)
	}
}

func TestDeleteZoneBlockedByOrganizations(t *testing.T) {
	engine, s := newTestEngine(t)
	zone, _ := seedZoneOrg(t, s)

	err := engine.DeleteZone(zone.ID)
	var rv *ReferentialViolationError
	if !errors.As(err, &rv) {
		t.Fatalf("expected ReferentialViolationError got %v", err)
	}
	if rv.ZoneName != "A" || rv.Blocking != 1 {
		t.Fatalf("unexpected violation: %+v", rv)
	}

	// The rejection performed zero mutation.
	zones, err := s.Zones.GetAll()
	if err != nil {
		t.Fatalf("read zones: %v", err)
	}
	if len(zones) != 1 || zones[0].Name != "A" {
		t.Fatalf("blocked deletion mutated the store: %+v", zones)
	}
}

func TestDeleteZoneUnreferenced(t *testing.T) {
	engine, s := newTestEngine(t)
	zone, org := seedZoneOrg(t, s)
	if err := s.Organizations.Remove(org.ID); err != nil {
		t.Fatalf("remove org: %v", err)
	}

	if err := engine.DeleteZone(zone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err := s.Zones.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("zone still present")
	}
	if err := engine.DeleteZone(zone.ID); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound got %v", err)
	}
}

func TestDeleteOrganizationLeavesInvoicesOrphaned(t *testing.T) {
	engine, s := newTestEngine(t)
	_, org := seedZoneOrg(t, s)
	saved, err := engine.SaveInvoice(testInvoice(org.ID))
	if err != nil {
		t.Fatalf("save invoice: %v", err)
	}

	// No blocking check against invoices: deletion proceeds.
	if err := engine.DeleteOrganization(org.ID); err != nil {
		t.Fatalf("delete org: %v", err)
	}
	invoices, err := s.Invoices.GetAll()
	if err != nil {
		t.Fatalf("read invoices: %v", err)
	}
	if len(invoices) != 1 || invoices[0].ID != saved.ID {
		t.Fatalf("invoice should survive its organization: %+v", invoices)
	}
	if invoices[0].OrganizationID != org.ID {
		t.Fatalf("orphaned reference rewritten unexpectedly")
	}
}
