package models

import "time"

// SchemaVersion is stamped on every export. Imports accept files without a
// version (treated as version-less); there is no migration between versions.
const SchemaVersion = 1

// Snapshot is the interchange unit for backup/restore: a full copy of the
// three collections at one point in time.
type Snapshot struct {
	Zones         []Zone         `json:"zones"`
	Organizations []Organization `json:"organizations"`
	Invoices      []Invoice      `json:"invoices"`
	ExportedAt    time.Time      `json:"exportedAt"`
	SchemaVersion int            `json:"schemaVersion"`
}
