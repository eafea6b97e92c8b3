package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/partscan/internal/camera"
	"github.com/example/partscan/internal/config"
	"github.com/example/partscan/internal/history"
	"github.com/example/partscan/internal/lookup"
	"github.com/example/partscan/internal/session"
	"github.com/example/partscan/internal/store"
)

// TestFullWorkflow exercises the complete scan lifecycle:
// start → decode → resolve → use record → query → stop → restart from
// the persisted store → clear
func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()

	st, err := store.NewByEngine(store.EngineSQLite, tmpDir)
	require.NoError(t, err)

	ledger, err := history.NewLedger(st, cfg.HistoryCap, cfg.RawTextMaxRunes)
	require.NoError(t, err)

	devices := []camera.Device{{ID: "cam-0", Label: "front"}}
	sim := camera.NewSimulator(devices, strings.NewReader("PN-1|ORD-1\nPN-2|ORD-2\n"), time.Millisecond)
	sess := session.New(sim, camera.OpenParams{
		FPS:       cfg.DecodeFPS,
		BoxWidth:  cfg.DetectBoxWidth,
		BoxHeight: cfg.DetectBoxHeight,
	})

	eng := New(cfg, ledger, sess, nil, lookup.Mock(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	// 1. Start scanning and let the feed drain
	require.NoError(t, eng.StartScan(""))
	st1, deviceID := eng.SessionStatus()
	require.Equal(t, session.StatusScanning, st1)
	require.Equal(t, "cam-0", deviceID)

	require.Eventually(t, func() bool {
		return len(eng.Recent(10)) == 2
	}, 2*time.Second, 5*time.Millisecond, "both decodes should be recorded")

	// 2. Newest first, current pair follows the last decode
	recent := eng.Recent(10)
	require.Equal(t, "PN-2", recent[0].PartNumber)
	require.Equal(t, "PN-1", recent[1].PartNumber)
	require.Equal(t, "PN-2", eng.Current().PartNumber)

	// 3. Load the older record back and query with it
	require.NoError(t, eng.UseRecord(recent[1].ID))
	require.Equal(t, "PN-1", eng.Current().PartNumber)

	res, err := eng.Query(context.Background())
	require.NoError(t, err)
	require.Equal(t, "PN-1", res.PartNumber)
	require.Equal(t, "ORD-1", res.OrderNumber)
	require.NotEmpty(t, res.ProductName)

	// 4. Stop
	require.NoError(t, eng.StopScan())
	st2, _ := eng.SessionStatus()
	require.Equal(t, session.StatusIdle, st2)

	// 5. Restart from the persisted store
	require.NoError(t, st.Close())
	st, err = store.NewByEngine(store.EngineSQLite, tmpDir)
	require.NoError(t, err)
	defer st.Close()

	ledger2, err := history.NewLedger(st, cfg.HistoryCap, cfg.RawTextMaxRunes)
	require.NoError(t, err)
	restored := ledger2.Recent(10)
	require.Len(t, restored, 2)
	require.Equal(t, recent[0].ID, restored[0].ID)

	// 6. Clear survives too
	require.NoError(t, ledger2.Clear())
	require.Empty(t, ledger2.Recent(10))
}
