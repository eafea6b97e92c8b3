// Package engine glues the capture session, the identifier parser and
// the history ledger together, and holds the current identifier pair
// that query triggers read.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/partscan/internal/config"
	"github.com/example/partscan/internal/errors"
	"github.com/example/partscan/internal/history"
	"github.com/example/partscan/internal/identifier"
	"github.com/example/partscan/internal/lookup"
	"github.com/example/partscan/internal/session"
)

// Severity classifies a status notification for the renderer.
type Severity string

const (
	SeverityIdle     Severity = "idle"
	SeverityScanning Severity = "scanning"
	SeveritySuccess  Severity = "success"
)

// Notifier is the rendering collaborator. It receives status text,
// ledger snapshots (capped for display) and the current candidate
// whenever it changes. Implementations must not call back into the
// engine from within a notification.
type Notifier interface {
	Status(text string, severity Severity)
	History(records []history.Record)
	Candidate(c identifier.Candidate)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Status(string, Severity)        {}
func (NopNotifier) History([]history.Record)       {}
func (NopNotifier) Candidate(identifier.Candidate) {}

// Engine is the session orchestrator. It owns the process-wide ledger
// and capture session instances and is the only writer of the current
// identifier pair.
type Engine struct {
	mu       sync.Mutex
	ledger   *history.Ledger
	session  *session.Session
	notifier Notifier
	lookup   lookup.Func
	display  int
	current  identifier.Candidate
}

// New wires the orchestrator. The ledger observer is registered here so
// every ledger mutation re-renders the display snapshot.
func New(cfg *config.Config, ledger *history.Ledger, sess *session.Session, notifier Notifier, lookupFn lookup.Func) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	e := &Engine{
		ledger:   ledger,
		session:  sess,
		notifier: notifier,
		lookup:   lookupFn,
		display:  cfg.DisplayLimit,
	}
	ledger.SetObserver(func(snapshot []history.Record) {
		if len(snapshot) > e.display {
			snapshot = snapshot[:e.display]
		}
		notifier.History(snapshot)
	})
	return e
}

// Run consumes decode events until ctx is cancelled. Events are handled
// one at a time on this goroutine, so a new decode is never processed
// while the previous one's ledger write is in flight.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.session.Events():
			e.HandleDecode(ev.Text)
		}
	}
}

// HandleDecode resolves one scanned payload: parse, record, publish.
func (e *Engine) HandleDecode(rawText string) history.Record {
	c := identifier.Parse(rawText)

	e.mu.Lock()
	e.current = c
	e.mu.Unlock()

	rec, err := e.ledger.Append(c, rawText)
	e.notifier.Candidate(c)
	if err != nil {
		// Best-effort durability: the record is in memory, the write
		// failed. Surface it and keep scanning.
		e.notifier.Status(err.Error(), SeverityIdle)
		return rec
	}

	if c.PartNumber == "" {
		e.notifier.Status("scan ok, part number: unparsed", SeveritySuccess)
	} else {
		e.notifier.Status(fmt.Sprintf("scan ok, part number: %s", c.PartNumber), SeveritySuccess)
	}
	return rec
}

// Current returns the current identifier pair.
func (e *Engine) Current() identifier.Candidate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// SetManual sets the current pair from manually typed values. Manual
// entry is not logged to the ledger.
func (e *Engine) SetManual(partNumber, orderNumber string) {
	c := identifier.Candidate{PartNumber: partNumber, OrderNumber: orderNumber}

	e.mu.Lock()
	e.current = c
	e.mu.Unlock()

	e.notifier.Candidate(c)
	if !c.IsEmpty() {
		e.notifier.Status("entered manually, ready to query", SeverityIdle)
	}
}

// UseRecord loads a history record back into the current pair without
// creating a new record.
func (e *Engine) UseRecord(id string) error {
	rec, ok := e.ledger.FindByID(id)
	if !ok {
		return errors.NewNotFound(id)
	}

	c := identifier.Candidate{PartNumber: rec.PartNumber, OrderNumber: rec.OrderNumber}
	e.mu.Lock()
	e.current = c
	e.mu.Unlock()

	e.notifier.Candidate(c)
	e.notifier.Status("history record loaded", SeveritySuccess)
	return nil
}

// Query runs the injected lookup with the current pair and returns the
// backend record. An all-empty pair is rejected before the backend is
// contacted.
func (e *Engine) Query(ctx context.Context) (*lookup.Result, error) {
	c := e.Current()
	if c.IsEmpty() {
		err := errors.NewInvalidRequest("enter a part or order number")
		e.notifier.Status(err.Message, SeverityIdle)
		return nil, err
	}

	e.notifier.Status("querying order information...", SeverityScanning)
	res, err := e.lookup(ctx, c.PartNumber, c.OrderNumber)
	if err != nil {
		e.notifier.Status(fmt.Sprintf("query failed: %v", err), SeverityIdle)
		return nil, errors.NewInternal(err)
	}

	e.notifier.Status("query successful", SeveritySuccess)
	return res, nil
}

// Recent returns the n most recent ledger records.
func (e *Engine) Recent(n int) []history.Record {
	return e.ledger.Recent(n)
}

// DisplayRecords returns the display-capped snapshot renderers show.
func (e *Engine) DisplayRecords() []history.Record {
	return e.ledger.Recent(e.display)
}

// FindRecord looks up a ledger record by id.
func (e *Engine) FindRecord(id string) (history.Record, bool) {
	return e.ledger.FindByID(id)
}

// ClearHistory empties the ledger.
func (e *Engine) ClearHistory() error {
	err := e.ledger.Clear()
	if err != nil {
		e.notifier.Status(err.Error(), SeverityIdle)
		return err
	}
	e.notifier.Status("scan history cleared", SeveritySuccess)
	return nil
}

// StartScan starts the capture session, defaulting to the first
// enumerated device when deviceID is empty.
func (e *Engine) StartScan(deviceID string) error {
	e.notifier.Status("camera starting...", SeverityScanning)
	if err := e.session.Start(deviceID); err != nil {
		e.notifier.Status(startFailureText(err), SeverityIdle)
		return err
	}
	e.notifier.Status("scanning, point the camera at a code", SeverityScanning)
	return nil
}

// StopScan stops the capture session.
func (e *Engine) StopScan() error {
	if err := e.session.Stop(); err != nil {
		return err
	}
	e.notifier.Status("scanning stopped", SeverityIdle)
	return nil
}

// SwitchDevice switches the session to the given device.
func (e *Engine) SwitchDevice(deviceID string) error {
	if err := e.session.SwitchDevice(deviceID); err != nil {
		e.notifier.Status(startFailureText(err), SeverityIdle)
		return err
	}
	e.notifier.Status("scanning, point the camera at a code", SeverityScanning)
	return nil
}

// CycleDevice switches the session to the next enumerated device.
func (e *Engine) CycleDevice() error {
	if err := e.session.CycleDevice(); err != nil {
		e.notifier.Status(startFailureText(err), SeverityIdle)
		return err
	}
	e.notifier.Status("scanning, point the camera at a code", SeverityScanning)
	return nil
}

// SessionStatus exposes the capture session state for surfaces.
func (e *Engine) SessionStatus() (session.Status, string) {
	id, _ := e.session.DeviceID()
	return e.session.Status(), id
}

// startFailureText maps a session error to operator-facing status text.
func startFailureText(err error) string {
	switch {
	case errors.Is(err, errors.ErrNoDeviceAvailable):
		return "no camera found, check device permissions"
	case errors.Is(err, errors.ErrNoAlternateDevice):
		return "no other camera found"
	default:
		return fmt.Sprintf("failed to start scanning: %v", err)
	}
}
