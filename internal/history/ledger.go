package history

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/example/partscan/internal/errors"
	"github.com/example/partscan/internal/identifier"
)

// Ledger is the bounded, newest-first scan history. The in-memory
// sequence is authoritative; persistence is best-effort and a failed
// write never rolls back a mutation.
//
// Mutations are serialized: Append and Clear hold the ledger lock
// across both the in-memory change and the store write.
type Ledger struct {
	mu       sync.Mutex
	store    Store
	records  []Record
	cap      int
	rawMax   int
	entropy  io.Reader
	observer func(snapshot []Record)
}

// NewLedger builds a ledger over the given store, loading the persisted
// sequence once. cap bounds the record count; rawMax bounds the stored
// raw payload in runes.
func NewLedger(store Store, cap, rawMax int) (*Ledger, error) {
	records, err := store.Load()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if len(records) > cap {
		records = records[:cap]
	}
	return &Ledger{
		store:   store,
		records: records,
		cap:     cap,
		rawMax:  rawMax,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// SetObserver registers a re-render callback invoked with a fresh
// snapshot after every mutation. Only one observer is supported.
func (l *Ledger) SetObserver(fn func(snapshot []Record)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = fn
}

// Append creates a record for the given candidate, prepends it, evicts
// the oldest record past the cap, and persists the sequence.
//
// On a store write failure the record is still inserted and returned;
// the error is a PERSISTENCE_WRITE_FAILED advisory for the caller.
func (l *Ledger) Append(c identifier.Candidate, rawText string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.newID()
	if err != nil {
		return Record{}, errors.NewInternal(err)
	}

	rec := Record{
		ID:          id,
		Timestamp:   time.Now(),
		PartNumber:  c.PartNumber,
		OrderNumber: c.OrderNumber,
		RawText:     truncateRunes(rawText, l.rawMax),
	}

	l.records = append([]Record{rec}, l.records...)
	if len(l.records) > l.cap {
		l.records = l.records[:l.cap]
	}

	saveErr := l.persistLocked()
	l.notifyLocked()
	return rec, saveErr
}

// Clear empties the ledger and persists the empty state. Clearing an
// already-empty ledger is a no-op for state but still notifies.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = l.records[:0]
	saveErr := l.persistLocked()
	l.notifyLocked()
	return saveErr
}

// Recent returns a copy of the first n records in newest-first order.
// n past the ledger size returns the whole ledger.
func (l *Ledger) Recent(n int) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.records) {
		n = len(l.records)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Record, n)
	copy(out, l.records[:n])
	return out
}

// FindByID looks up a record by id. The second return is false if the
// record is absent (including after Clear).
func (l *Ledger) FindByID(id string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Len returns the current record count.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// persistLocked writes the full sequence through the store. Caller
// holds l.mu.
func (l *Ledger) persistLocked() error {
	snapshot := make([]Record, len(l.records))
	copy(snapshot, l.records)
	if err := l.store.Save(snapshot); err != nil {
		return errors.NewPersistenceWriteFailed(err)
	}
	return nil
}

// notifyLocked pushes a snapshot to the observer. Caller holds l.mu.
func (l *Ledger) notifyLocked() {
	if l.observer == nil {
		return
	}
	snapshot := make([]Record, len(l.records))
	copy(snapshot, l.records)
	l.observer(snapshot)
}

// newID generates a ULID with monotonic entropy so ids produced within
// the same millisecond still sort by insertion.
func (l *Ledger) newID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), l.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// truncateRunes bounds s to max runes without cutting mid-character.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
