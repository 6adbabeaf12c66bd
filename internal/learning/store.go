// Package learning persists verified mention-to-item resolutions so future
// runs can skip approximate matching. The store is append-only: corrections
// reclassify earlier entries, they never remove them.
package learning

import (
	"context"
	"time"

	"github.com/Antagata/Month-recap-AVU/internal/model"
	"github.com/Antagata/Month-recap-AVU/internal/normalize"
)

// Origin tags how a record entered the store.
type Origin string

const (
	OriginAuto             Origin = "auto"
	OriginManualCorrection Origin = "manual_correction"
)

// Key identifies a learned resolution: a normalized name plus vintage.
type Key struct {
	Name    string
	Vintage model.Vintage
}

// NewKey builds a Key from a raw name fragment.
func NewKey(rawName string, vintage model.Vintage) Key {
	return Key{Name: normalize.Name(rawName), Vintage: vintage}
}

// Record is one persisted resolution.
type Record struct {
	Key       Key
	ItemID    int64
	Timestamp time.Time
	Origin    Origin
}

// PutOutcome describes what a Record call did.
type PutOutcome int

const (
	// Stored means a new record was appended.
	Stored PutOutcome = iota
	// DuplicateSkipped means an identical (key, item_id) already existed.
	DuplicateSkipped
	// Corrected means a manual correction superseded a different item id
	// previously recorded for the key.
	Corrected
)

func (o PutOutcome) String() string {
	switch o {
	case Stored:
		return "stored"
	case DuplicateSkipped:
		return "duplicate_skipped"
	case Corrected:
		return "corrected"
	}
	return "unknown"
}

// Store is the learning store contract. Lookup returns nil when the key is
// unknown. A manual_correction record for a key always wins over an auto
// record, regardless of write order. Implementations must allow concurrent
// readers; writers are serialized by the implementation.
type Store interface {
	Lookup(ctx context.Context, key Key) (*Record, error)
	Record(ctx context.Context, key Key, itemID int64, origin Origin) (PutOutcome, error)
	Flush(ctx context.Context) error
	Close() error
}

// supersedes reports whether a new record with the given origin may replace
// the current one for the same key. Manual corrections beat everything;
// auto entries only refresh other auto entries.
func supersedes(current Origin, next Origin) bool {
	if next == OriginManualCorrection {
		return true
	}
	return current != OriginManualCorrection
}
