package services

import (
	"strings"

	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/store"
)

// IntegrityGuard enforces the cross-collection rules between zones,
// organizations and invoices before a mutation reaches the store:
//
//   - a zone cannot be deleted while an organization references it by name;
//   - renaming a zone rewrites ZoneName on every referencing organization
//     in the same transaction as the rename;
//   - deleting an organization is never blocked; its invoices are left
//     orphaned and readers substitute a placeholder label.
type IntegrityGuard struct {
	store *store.Store
}

func NewIntegrityGuard(s *store.Store) *IntegrityGuard { return &IntegrityGuard{store: s} }

// CanDeleteZone reports whether zoneName is unreferenced, along with the
// number of blocking organizations.
func (g *IntegrityGuard) CanDeleteZone(zoneName string, orgs []models.Organization) (bool, int) {
	n := 0
	for _, o := range orgs {
		if o.ZoneName == zoneName {
			n++
		}
	}
	return n == 0, n
}

// CheckDeleteZone reads the current organizations and returns a
// ReferentialViolationError when the zone is still referenced.
func (g *IntegrityGuard) CheckDeleteZone(zone models.Zone) error {
	orgs, err := g.store.Organizations.GetAll()
	if err != nil {
		return err
	}
	if ok, n := g.CanDeleteZone(zone.Name, orgs); !ok {
		return &ReferentialViolationError{ZoneName: zone.Name, Blocking: n}
	}
	return nil
}

// CheckZoneName rejects empty names and case-insensitive duplicates.
// selfID exempts the zone being renamed from its own name.
func (g *IntegrityGuard) CheckZoneName(name string, selfID uint, zones []models.Zone) error {
	if strings.TrimSpace(name) == "" {
		return ErrZoneNameRequired
	}
	for _, z := range zones {
		if z.ID != selfID && strings.EqualFold(z.Name, name) {
			return ErrZoneExists
		}
	}
	return nil
}

// RenameZone persists the rename together with the ZoneName rewrite on every
// referencing organization, as one transaction. No organization is left
// pointing at the old name.
func (g *IntegrityGuard) RenameZone(oldName string, zone *models.Zone) error {
	return g.store.Transaction(func(tx *store.Store) error {
		orgs, err := tx.Organizations.GetAll()
		if err != nil {
			return err
		}
		for _, o := range orgs {
			if o.ZoneName != oldName {
				continue
			}
			o.ZoneName = zone.Name
			if err := tx.Organizations.Upsert(&o); err != nil {
				return err
			}
		}
		return tx.Zones.Upsert(zone)
	})
}

// CheckOrganization validates an organization before save: the name is
// required and ZoneName must match an existing zone at save time.
func (g *IntegrityGuard) CheckOrganization(o models.Organization, zones []models.Zone) error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrOrgNameRequired
	}
	for _, z := range zones {
		if z.Name == o.ZoneName {
			return nil
		}
	}
	return ErrUnknownZone
}
