// Package history keeps the bounded, persisted ledger of past scans.
package history

import (
	"time"
)

// Record is one immutable ledger entry, snapshotted at capture time.
type Record struct {
	// ID is a ULID: time-ordered and unique. It is the only stable
	// reference for retrieval; ledger ordering is by insertion, not ID.
	ID string `json:"id"`

	// Timestamp is the wall-clock capture time, for display only.
	Timestamp time.Time `json:"timestamp"`

	PartNumber  string `json:"part_number"`
	OrderNumber string `json:"order_number"`

	// RawText is the original scanned payload, truncated at capture.
	RawText string `json:"raw_text"`
}

// ClockTime formats the capture time for display, matching the
// HH:MM:SS style shown next to each history row.
func (r Record) ClockTime() string {
	return r.Timestamp.Local().Format("15:04:05")
}

// Store is the persistence capability the ledger writes through.
// Load is called once when the ledger is built; Save receives the full
// newest-first sequence after every mutation.
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
	Close() error
}
