package services

import (
	"errors"
	"fmt"
)

var (
	ErrZoneNameRequired   = errors.New("zone_name_required")
	ErrZoneExists         = errors.New("zone_already_exists")
	ErrZoneNotFound       = errors.New("zone_not_found")
	ErrUnknownZone        = errors.New("unknown_zone")
	ErrOrgNameRequired    = errors.New("organization_name_required")
	ErrUnknownOrg         = errors.New("unknown_organization")
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrAlreadyPaid        = errors.New("invoice_already_paid")
	ErrInvoiceIncomplete  = errors.New("invoice_incomplete")
	ErrEmptyLineItems     = errors.New("empty_line_items")
	ErrInvalidLineItem    = errors.New("invalid_line_item")
	ErrInvalidStatus      = errors.New("invalid_status")
)

// ReferentialViolationError : suppression de zone bloquée parce que des
// structures la référencent encore. Aucune mutation n'a été tentée.
type ReferentialViolationError struct {
	ZoneName string
	Blocking int
}

func (e *ReferentialViolationError) Error() string {
	return fmt.Sprintf("zone_referenced: %q is used by %d organization(s)", e.ZoneName, e.Blocking)
}

// InvalidSnapshotError : le fichier importé a échoué la validation de forme.
// Ni le store ni le miroir n'ont été touchés.
type InvalidSnapshotError struct {
	Reason string
}

func (e *InvalidSnapshotError) Error() string {
	return "invalid_snapshot: " + e.Reason
}
