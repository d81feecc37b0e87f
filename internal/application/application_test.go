package application

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/pixels-conf/internal/config"
	"github.com/eugenenazirov/pixels-conf/internal/settings"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewInitializesDependencies(t *testing.T) {
	dir := t.TempDir()
	cfg := baseTestConfig(":8085")
	cfg.StoreFiles = []string{writeFile(t, dir, "store.yaml", "pixels.stripe.size: 1048576\n")}
	cfg.PropertiesFile = writeFile(t, dir, "table.properties", "pixels.encoding.level=EL0\n")

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	stripe, err := settings.StripeSize.Long(app.Properties(), app.Store())
	if err != nil || stripe != 1048576 {
		t.Fatalf("expected stripe size from store file, got %d (%v)", stripe, err)
	}
	if app.Properties()["pixels.encoding.level"] != "EL0" {
		t.Fatalf("expected table properties to load, got %v", app.Properties())
	}
	if app.server == nil || app.router == nil {
		t.Fatalf("expected server and router to be initialized")
	}
	if app.Server() != app.server || app.Handler() == nil {
		t.Fatalf("accessors did not return underlying instances")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForMissingStoreFile(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.StoreFiles = []string{filepath.Join(t.TempDir(), "missing.yaml")}

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing store file")
	}
}

func TestNewReturnsErrorForMissingPropertiesFile(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.PropertiesFile = filepath.Join(t.TempDir(), "missing.properties")

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing properties file")
	}
}

func TestLoadSourcesLayersExtraProperties(t *testing.T) {
	dir := t.TempDir()
	cfg := baseTestConfig(":0")
	cfg.PropertiesFile = writeFile(t, dir, "table.properties", "pixels.block.padding=true\npixels.row.index.stride=100\n")

	src, err := LoadSources(cfg, map[string]string{"pixels.block.padding": "false"})
	if err != nil {
		t.Fatalf("LoadSources returned error: %v", err)
	}

	padding, err := settings.BlockPadding.Bool(src.Properties, src.Store)
	if err != nil || padding {
		t.Fatalf("expected extra override false, got %v (%v)", padding, err)
	}
	stride, err := settings.RowIndexStride.Long(src.Properties, src.Store)
	if err != nil || stride != 100 {
		t.Fatalf("expected stride from file, got %d (%v)", stride, err)
	}
}

func TestEndToEndFlow(t *testing.T) {
	dir := t.TempDir()
	cfg := baseTestConfig(":0")
	cfg.StoreFiles = []string{writeFile(t, dir, "store.yaml", `
hive:
  exec:
    pixels:
      default:
        block:
          size: 134217728
`)}

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handler := app.Handler()

	rec := perform(handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	payload, _ := json.Marshal(map[string]string{"value": "33554432"})
	rec = perform(handler, http.MethodPut, "/api/settings/pixels.stripe.size", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from update, got %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]any{"properties": map[string]string{
		"pixels.block.padding":     "FALSE",
		"pixels.block.replication": "2",
	}})
	rec = perform(handler, http.MethodPost, "/api/writer-options", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from writer options, got %d", rec.Code)
	}

	var response struct {
		StripeSize       int64 `json:"stripeSize"`
		BlockSize        int64 `json:"blockSize"`
		BlockReplication int64 `json:"blockReplication"`
		BlockPadding     bool  `json:"blockPadding"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.StripeSize != 33554432 || response.BlockSize != 134217728 {
		t.Fatalf("unexpected sizes %+v", response)
	}
	if response.BlockReplication != 2 {
		t.Fatalf("expected replication 2, got %d", response.BlockReplication)
	}
	if response.BlockPadding {
		t.Fatalf("expected padding disabled by request properties")
	}
}

func perform(handler http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		StoreFiles:           []string{},
		LogLevel:             "info",
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
