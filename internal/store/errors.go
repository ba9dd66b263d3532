package store

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable signale que le backend durable n'a pas pu être ouvert
// ou lu. Fatal pour la session : aucune opération ne peut aboutir.
var ErrStoreUnavailable = errors.New("store_unavailable")

// WriteError wraps a failed upsert/remove/clear on a single collection.
// The mirror stays at its last synced state; no partial mutation is assumed
// committed.
type WriteError struct {
	Collection string
	Op         string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write_error: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
