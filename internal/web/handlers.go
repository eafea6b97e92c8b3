package web

import (
	"net/http"

	"github.com/example/partscan/internal/errors"
	"github.com/example/partscan/internal/session"
)

// handleScanPage renders the scan dashboard: live status, the current
// identifier pair and the display slice of the ledger.
func (s *Server) handleScanPage(w http.ResponseWriter, r *http.Request) {
	status, severity, candidate, records := s.ui.Snapshot()
	if len(records) == 0 {
		records = s.engine.DisplayRecords()
	}
	sessStatus, deviceID := s.engine.SessionStatus()

	s.renderer.renderPage(w, "scan", ScanPageData{
		PageData:      s.pageData("Scan", "scan"),
		StatusText:    status,
		StatusClass:   severityClass(severity),
		Candidate:     candidate,
		Records:       records,
		SessionStatus: sessStatus,
		Scanning:      scanningNow(sessStatus),
		DeviceID:      deviceID,
	})
}

// handleManual sets the current pair from the form fields.
func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderer.renderError(w, r, errors.NewInvalidRequest("malformed form data"))
		return
	}
	s.engine.SetManual(r.PostFormValue("part_number"), r.PostFormValue("order_number"))
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}

// handleUseRecord loads a ledger record into the current pair.
func (s *Server) handleUseRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.engine.UseRecord(id); err != nil {
		s.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}

// handleQuery runs the lookup with the current pair and renders the
// backend record.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Query(r.Context())
	if err != nil {
		s.renderer.renderError(w, r, err)
		return
	}

	s.renderer.renderPage(w, "result", ResultPageData{
		PageData:      s.pageData("Result", "scan"),
		Result:        res,
		RenderedNotes: renderMarkdown(res.Notes),
	})
}

// handleHistoryPage renders the full ledger, newest first.
func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	records := s.engine.Recent(s.historyCap)
	s.renderer.renderPage(w, "history", HistoryPageData{
		PageData: s.pageData("History", "history"),
		Records:  records,
	})
}

// handleHistoryClear empties the ledger.
func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearHistory(); err != nil {
		s.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

// handleSessionStart starts scanning, with an optional device override.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderer.renderError(w, r, errors.NewInvalidRequest("malformed form data"))
		return
	}
	if err := s.engine.StartScan(r.PostFormValue("device_id")); err != nil {
		s.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}

// handleSessionStop stops scanning.
func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.StopScan(); err != nil {
		s.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}

// handleSessionCycle switches to the next enumerated device.
func (s *Server) handleSessionCycle(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.CycleDevice(); err != nil {
		s.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/scan", http.StatusSeeOther)
}

// scanningNow reports whether the capture session is actively decoding.
func scanningNow(st session.Status) bool {
	return st == session.StatusScanning || st == session.StatusStarting
}
