package web

import (
	"sync"

	"github.com/example/partscan/internal/engine"
	"github.com/example/partscan/internal/history"
	"github.com/example/partscan/internal/identifier"
)

// UIState is the web rendering collaborator: it absorbs the engine's
// three notification kinds (status, ledger snapshot, candidate) and
// hands the latest values to page handlers.
type UIState struct {
	mu        sync.Mutex
	status    string
	severity  engine.Severity
	candidate identifier.Candidate
	records   []history.Record
}

// NewUIState creates an empty state with an idle status.
func NewUIState() *UIState {
	return &UIState{
		status:   "initializing...",
		severity: engine.SeverityIdle,
	}
}

// Status implements engine.Notifier.
func (u *UIState) Status(text string, severity engine.Severity) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = text
	u.severity = severity
}

// History implements engine.Notifier.
func (u *UIState) History(records []history.Record) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.records = records
}

// Candidate implements engine.Notifier.
func (u *UIState) Candidate(c identifier.Candidate) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.candidate = c
}

// Snapshot returns the current rendered state.
func (u *UIState) Snapshot() (status string, severity engine.Severity, candidate identifier.Candidate, records []history.Record) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]history.Record, len(u.records))
	copy(out, u.records)
	return u.status, u.severity, u.candidate, out
}
