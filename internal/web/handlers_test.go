package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/example/partscan/internal/camera"
	"github.com/example/partscan/internal/config"
	"github.com/example/partscan/internal/engine"
	"github.com/example/partscan/internal/history"
	"github.com/example/partscan/internal/lookup"
	"github.com/example/partscan/internal/session"
	"github.com/example/partscan/internal/store"
)

func newTestServer(t *testing.T, devices []camera.Device) (*Server, *engine.Engine) {
	t.Helper()

	cfg := config.DefaultConfig()
	st, err := store.NewByEngine(store.EngineJSON, t.TempDir())
	if err != nil {
		t.Fatalf("NewByEngine failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ledger, err := history.NewLedger(st, cfg.HistoryCap, cfg.RawTextMaxRunes)
	if err != nil {
		t.Fatalf("NewLedger failed: %v", err)
	}

	cam := camera.NewSimulator(devices, strings.NewReader(""), time.Millisecond)
	sess := session.New(cam, camera.OpenParams{
		FPS:         cfg.DecodeFPS,
		BoxWidth:    cfg.DetectBoxWidth,
		BoxHeight:   cfg.DetectBoxHeight,
		AspectRatio: cfg.DetectAspectRatio,
	})

	ui := NewUIState()
	eng := engine.New(cfg, ledger, sess, ui, lookup.Mock(0))
	return NewServer(cfg, eng, ui, "test"), eng
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRootRedirectsToScan(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := get(t, srv.Handler(), "/")
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/scan" {
		t.Errorf("Location = %q, want /scan", loc)
	}
}

func TestScanPage(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	eng.HandleDecode("PN-1|ORD-1")

	rr := get(t, srv.Handler(), "/scan")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "PN-1") || !strings.Contains(body, "ORD-1") {
		t.Error("scan page should show the decoded pair")
	}
	if !strings.Contains(body, "scan ok") {
		t.Error("scan page should show the latest status text")
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("missing security header, got %q", got)
	}
}

func TestManualEntry(t *testing.T) {
	srv, eng := newTestServer(t, nil)

	rr := postForm(t, srv.Handler(), "/scan/manual", url.Values{
		"part_number":  {"PN-7"},
		"order_number": {"ORD-7"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := eng.Current(); got.PartNumber != "PN-7" || got.OrderNumber != "ORD-7" {
		t.Errorf("Current = %+v, want the submitted pair", got)
	}
	if len(eng.Recent(50)) != 0 {
		t.Error("manual entry must not create a history record")
	}
}

func TestQuery(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	postForm(t, h, "/scan/manual", url.Values{"part_number": {"PN-9"}})
	rr := postForm(t, h, "/scan/query", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "precision bearing assembly") {
		t.Error("result page should show the backend record")
	}
	if !strings.Contains(body, "<strong>304</strong>") {
		t.Error("notes should be rendered as markdown")
	}
}

func TestQuery_EmptyPair(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := postForm(t, srv.Handler(), "/scan/query", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Error 400") {
		t.Error("error page should name the status code")
	}
}

func TestQuery_EmptyPair_JSON(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/scan/query", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rr.Body.String(), "INVALID_REQUEST") {
		t.Error("JSON error should carry the error code")
	}
}

func TestUseRecord(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	rec := eng.HandleDecode("PN-3|ORD-3")
	eng.SetManual("", "")

	rr := postForm(t, srv.Handler(), "/scan/use/"+rec.ID, nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := eng.Current(); got.PartNumber != "PN-3" {
		t.Errorf("Current = %+v, want the record's pair", got)
	}
}

func TestUseRecord_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := postForm(t, srv.Handler(), "/scan/use/01ZZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHistoryPageAndClear(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	h := srv.Handler()
	eng.HandleDecode("PN-1|ORD-1")
	eng.HandleDecode("PN-2|ORD-2")

	rr := get(t, h, "/history")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "PN-1") || !strings.Contains(body, "PN-2") {
		t.Error("history page should list all records")
	}

	if rr := postForm(t, h, "/history/clear", nil); rr.Code != http.StatusSeeOther {
		t.Fatalf("clear status = %d, want 303", rr.Code)
	}
	if len(eng.Recent(50)) != 0 {
		t.Error("ledger should be empty after clear")
	}
}

func TestSessionStart_NoDevice(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := postForm(t, srv.Handler(), "/session/start", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for empty enumeration", rr.Code)
	}
}

func TestSessionStartStop(t *testing.T) {
	devices := []camera.Device{{ID: "cam-0", Label: "front"}}
	srv, eng := newTestServer(t, devices)
	h := srv.Handler()

	if rr := postForm(t, h, "/session/start", nil); rr.Code != http.StatusSeeOther {
		t.Fatalf("start status = %d, want 303", rr.Code)
	}
	if st, _ := eng.SessionStatus(); st != session.StatusScanning {
		t.Errorf("session status = %s, want scanning", st)
	}

	body := get(t, h, "/scan").Body.String()
	if !strings.Contains(body, "Stop scanning") {
		t.Error("scan page should offer the stop control while scanning")
	}

	if rr := postForm(t, h, "/session/stop", nil); rr.Code != http.StatusSeeOther {
		t.Fatalf("stop status = %d, want 303", rr.Code)
	}
	if st, _ := eng.SessionStatus(); st != session.StatusIdle {
		t.Errorf("session status = %s, want idle", st)
	}
}

func TestSessionCycle_SingleDevice(t *testing.T) {
	devices := []camera.Device{{ID: "cam-0", Label: "front"}}
	srv, _ := newTestServer(t, devices)
	h := srv.Handler()

	postForm(t, h, "/session/start", nil)
	rr := postForm(t, h, "/session/cycle", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 with a single device", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rr := get(t, srv.Handler(), "/static/style.css")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "body") {
		t.Error("stylesheet should be served from the embedded FS")
	}
}
