package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eugenenazirov/pixels-conf/internal/encoding"
	"github.com/eugenenazirov/pixels-conf/internal/settings"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestKoanfStoreLoadsNestedAndFlatYAML(t *testing.T) {
	nested := writeFile(t, "nested.yaml", `
pixels:
  stripe:
    size: 134217728
  block:
    padding: false
hive:
  exec:
    pixels:
      encoding:
        level: EL1
`)
	flat := writeFile(t, "flat.yaml", `
pixels.row.index.stride: 5000
pixels.stripe.size: 33554432
`)

	store, err := NewKoanfStore(KoanfOptions{Files: []string{nested, flat}})
	if err != nil {
		t.Fatalf("NewKoanfStore: %v", err)
	}

	stripe, err := settings.StripeSize.Long(nil, store)
	if err != nil || stripe != 33554432 {
		t.Fatalf("expected later file to win with 33554432, got %d (%v)", stripe, err)
	}
	stride, err := settings.RowIndexStride.Long(nil, store)
	if err != nil || stride != 5000 {
		t.Fatalf("expected stride 5000, got %d (%v)", stride, err)
	}
	padding, err := settings.BlockPadding.Bool(nil, store)
	if err != nil || padding {
		t.Fatalf("expected padding false, got %v (%v)", padding, err)
	}
	level, err := settings.EncodingLevel.EncodingLevel(nil, store)
	if err != nil || level != encoding.EL1 {
		t.Fatalf("expected legacy EL1, got %v (%v)", level, err)
	}

	if _, ok := store.Get("pixels"); ok {
		t.Fatalf("expected intermediate node to report absent")
	}
}

func TestKoanfStoreEnvironmentOverridesFiles(t *testing.T) {
	path := writeFile(t, "store.yaml", "pixels.block.size: 1024\n")
	t.Setenv("PIXELS_BLOCK_SIZE", "2048")
	t.Setenv("HIVE_EXEC_PIXELS_COMPRESSION_STRATEGY", "3")

	store, err := NewKoanfStore(KoanfOptions{Files: []string{path}, Env: true})
	if err != nil {
		t.Fatalf("NewKoanfStore: %v", err)
	}

	block, err := settings.BlockSize.Long(nil, store)
	if err != nil || block != 2048 {
		t.Fatalf("expected env override 2048, got %d (%v)", block, err)
	}
	strategy, err := settings.CompressionStrategy.Long(nil, store)
	if err != nil || strategy != 3 {
		t.Fatalf("expected legacy env value 3, got %d (%v)", strategy, err)
	}
}

func TestKoanfStoreIgnoresEnvironmentWhenDisabled(t *testing.T) {
	t.Setenv("PIXELS_BLOCK_SIZE", "2048")

	store, err := NewKoanfStore(KoanfOptions{})
	if err != nil {
		t.Fatalf("NewKoanfStore: %v", err)
	}
	if _, ok := store.Get("pixels.block.size"); ok {
		t.Fatalf("expected environment to be ignored")
	}
}

func TestKoanfStoreMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := NewKoanfStore(KoanfOptions{Files: []string{filepath.Join(t.TempDir(), "missing.yaml")}}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestKoanfStoreTypedSetters(t *testing.T) {
	t.Parallel()

	store, err := NewKoanfStore(KoanfOptions{})
	if err != nil {
		t.Fatalf("NewKoanfStore: %v", err)
	}

	if err := settings.StripeSize.SetLong(store, 4096); err != nil {
		t.Fatalf("SetLong: %v", err)
	}
	if err := settings.BlockPadding.SetBool(store, false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if err := settings.CompressionStrategy.SetDouble(store, 1.5); err != nil {
		t.Fatalf("SetDouble: %v", err)
	}
	if err := settings.MapredOutputSchema.SetString(store, "struct<id:bigint>"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	snap := store.Snapshot()
	want := map[string]string{
		"pixels.stripe.size":          "4096",
		"pixels.block.padding":        "false",
		"pixels.compression.strategy": "1.5",
		"pixels.mapred.output.schema": "struct<id:bigint>",
	}
	for k, v := range want {
		if snap[k] != v {
			t.Fatalf("expected %s=%s, got %q", k, v, snap[k])
		}
	}

	if got, err := settings.CompressionStrategy.Double(nil, store); err != nil || got != 1.5 {
		t.Fatalf("expected 1.5, got %v (%v)", got, err)
	}
}

func TestKoanfStoreKeepsScalarText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "store.yaml", `
pixels.stripe.size: 1e3
pixels.row.index.stride: 0x10
pixels.block.size: 1.0
pixels.compression.strategy: "007"
pixels.block.padding: yes
pixels.mapred.output.schema: ~
pixels.mapred.map.output.key.schema: [a, b]
`)

	store, err := NewKoanfStore(KoanfOptions{Files: []string{path}})
	if err != nil {
		t.Fatalf("NewKoanfStore: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{key: "pixels.stripe.size", want: "1e3"},
		{key: "pixels.row.index.stride", want: "0x10"},
		{key: "pixels.block.size", want: "1.0"},
		{key: "pixels.compression.strategy", want: "007"},
		{key: "pixels.block.padding", want: "yes"},
	}
	for _, tt := range tests {
		if got, ok := store.Get(tt.key); !ok || got != tt.want {
			t.Fatalf("%s: expected %q, got %q (present=%v)", tt.key, tt.want, got, ok)
		}
	}

	for _, key := range []string{"pixels.mapred.output.schema", "pixels.mapred.map.output.key.schema"} {
		if v, ok := store.Get(key); ok {
			t.Fatalf("%s: expected absent, got %q", key, v)
		}
	}

	for _, s := range []settings.Setting{settings.StripeSize, settings.RowIndexStride, settings.BlockSize} {
		_, err := s.Long(nil, store)
		var parseErr *settings.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected *settings.ParseError, got %v", s.Key(), err)
		}
	}

	if got, err := settings.CompressionStrategy.Long(nil, store); err != nil || got != 7 {
		t.Fatalf("expected base-10 parse of 007, got %d (%v)", got, err)
	}
	if padding, _ := settings.BlockPadding.Bool(nil, store); padding {
		t.Fatalf("expected yes to read as false")
	}
}

func TestKoanfStoreRejectsTopLevelScalar(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "store.yaml", "just text\n")
	if _, err := NewKoanfStore(KoanfOptions{Files: []string{path}}); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
}

func TestKoanfStoreRejectsConflictingKeys(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "store.yaml", "pixels.block.size: 1024\n")
	store, err := NewKoanfStore(KoanfOptions{Files: []string{path}})
	if err != nil {
		t.Fatalf("NewKoanfStore: %v", err)
	}

	for _, key := range []string{"pixels.block", "pixels", "pixels.block.size.extra"} {
		if err := store.Set(key, "x"); !errors.Is(err, ErrKeyConflict) {
			t.Fatalf("%s: expected ErrKeyConflict, got %v", key, err)
		}
	}
	if got, _ := settings.BlockSize.Long(nil, store); got != 1024 {
		t.Fatalf("expected block size to survive rejected writes, got %d", got)
	}

	if err := store.Set("pixels.block.padding", "false"); err != nil {
		t.Fatalf("expected sibling write to succeed: %v", err)
	}
	if err := store.Set("", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}
