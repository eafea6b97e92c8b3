package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// HistoryCap is the maximum number of records kept in the scan ledger.
	// Appending past the cap evicts the oldest record.
	HistoryCap int `json:"history_cap"`

	// RawTextMaxRunes bounds the stored copy of a scanned payload.
	// Longer payloads are truncated; the parsed fields are unaffected.
	RawTextMaxRunes int `json:"raw_text_max_runes"`

	// DisplayLimit is the number of recent records pushed to renderers.
	DisplayLimit int `json:"display_limit"`

	// DecodeFPS is the target frame rate requested from the camera.
	DecodeFPS int `json:"decode_fps"`

	// DetectBoxWidth and DetectBoxHeight size the detection region in pixels.
	DetectBoxWidth  int `json:"detect_box_width"`
	DetectBoxHeight int `json:"detect_box_height"`

	// DetectAspectRatio is the requested capture aspect ratio.
	DetectAspectRatio float64 `json:"detect_aspect_ratio"`

	// StoreEngine selects the history persistence backend: "sqlite" or "json".
	StoreEngine string `json:"store_engine,omitempty"`

	// LookupURL is the endpoint for part/order lookups. Empty means the
	// built-in offline mock is used.
	LookupURL string `json:"lookup_url,omitempty"`

	// WebBind and WebPort configure the web UI listener.
	WebBind string `json:"web_bind,omitempty"`
	WebPort int    `json:"web_port,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration. The scan parameters
// mirror the fixed decode settings of the capture session: 10 fps, a
// 250x250 detection box and a square aspect ratio.
func DefaultConfig() *Config {
	return &Config{
		HistoryCap:        50,
		RawTextMaxRunes:   100,
		DisplayLimit:      10,
		DecodeFPS:         10,
		DetectBoxWidth:    250,
		DetectBoxHeight:   250,
		DetectAspectRatio: 1.0,
		StoreEngine:       "sqlite",
		WebBind:           "127.0.0.1",
		WebPort:           8425,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.partscan.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.HistoryCap = overlay.HistoryCap
	if result.HistoryCap == 0 {
		result.HistoryCap = base.HistoryCap
	}

	result.RawTextMaxRunes = overlay.RawTextMaxRunes
	if result.RawTextMaxRunes == 0 {
		result.RawTextMaxRunes = base.RawTextMaxRunes
	}

	result.DisplayLimit = overlay.DisplayLimit
	if result.DisplayLimit == 0 {
		result.DisplayLimit = base.DisplayLimit
	}

	result.DecodeFPS = overlay.DecodeFPS
	if result.DecodeFPS == 0 {
		result.DecodeFPS = base.DecodeFPS
	}

	result.DetectBoxWidth = overlay.DetectBoxWidth
	if result.DetectBoxWidth == 0 {
		result.DetectBoxWidth = base.DetectBoxWidth
	}

	result.DetectBoxHeight = overlay.DetectBoxHeight
	if result.DetectBoxHeight == 0 {
		result.DetectBoxHeight = base.DetectBoxHeight
	}

	result.DetectAspectRatio = overlay.DetectAspectRatio
	if result.DetectAspectRatio == 0 {
		result.DetectAspectRatio = base.DetectAspectRatio
	}

	result.StoreEngine = strings.TrimSpace(overlay.StoreEngine)
	if result.StoreEngine == "" {
		result.StoreEngine = base.StoreEngine
	}

	result.LookupURL = strings.TrimSpace(overlay.LookupURL)
	if result.LookupURL == "" {
		result.LookupURL = base.LookupURL
	}

	result.WebBind = strings.TrimSpace(overlay.WebBind)
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
