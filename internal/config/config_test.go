package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HistoryCap != 50 {
		t.Errorf("HistoryCap = %d, want 50", cfg.HistoryCap)
	}
	if cfg.RawTextMaxRunes != 100 {
		t.Errorf("RawTextMaxRunes = %d, want 100", cfg.RawTextMaxRunes)
	}
	if cfg.DisplayLimit != 10 {
		t.Errorf("DisplayLimit = %d, want 10", cfg.DisplayLimit)
	}
	if cfg.DecodeFPS != 10 {
		t.Errorf("DecodeFPS = %d, want 10", cfg.DecodeFPS)
	}
	if cfg.DetectBoxWidth != 250 || cfg.DetectBoxHeight != 250 {
		t.Errorf("DetectBox = %dx%d, want 250x250", cfg.DetectBoxWidth, cfg.DetectBoxHeight)
	}
	if cfg.DetectAspectRatio != 1.0 {
		t.Errorf("DetectAspectRatio = %v, want 1.0", cfg.DetectAspectRatio)
	}
	if cfg.StoreEngine != "sqlite" {
		t.Errorf("StoreEngine = %q, want %q", cfg.StoreEngine, "sqlite")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistoryCap != 50 {
		t.Errorf("HistoryCap = %d, want default 50", cfg.HistoryCap)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"history_cap": 200, "store_engine": "json"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HistoryCap != 200 {
		t.Errorf("HistoryCap = %d, want 200 (overridden)", cfg.HistoryCap)
	}
	if cfg.StoreEngine != "json" {
		t.Errorf("StoreEngine = %q, want %q", cfg.StoreEngine, "json")
	}
	// Unspecified keys keep defaults
	if cfg.RawTextMaxRunes != 100 {
		t.Errorf("RawTextMaxRunes = %d, want default 100", cfg.RawTextMaxRunes)
	}
	if cfg.DecodeFPS != 10 {
		t.Errorf("DecodeFPS = %d, want default 10", cfg.DecodeFPS)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{
		DisplayLimit:  5,
		DisabledTools: []string{"history_clear"},
	}

	merged := Merge(base, overlay)

	if merged.DisplayLimit != 5 {
		t.Errorf("DisplayLimit = %d, want 5", merged.DisplayLimit)
	}
	if merged.HistoryCap != 50 {
		t.Errorf("HistoryCap = %d, want base 50", merged.HistoryCap)
	}
	if len(merged.DisabledTools) != 1 || merged.DisabledTools[0] != "history_clear" {
		t.Errorf("DisabledTools = %v, want [history_clear]", merged.DisabledTools)
	}
}

func TestMergeStringSlice_Dedup(t *testing.T) {
	got := mergeStringSlice([]string{"a", " b "}, []string{"b", "", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
