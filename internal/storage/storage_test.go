package storage

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/eugenenazirov/pixels-conf/internal/settings"
)

func TestNewMemoryStoreCopiesInitialValues(t *testing.T) {
	t.Parallel()

	initial := map[string]string{"pixels.stripe.size": "1024"}
	store := NewMemoryStore(initial)

	initial["pixels.stripe.size"] = "999"
	got, ok := store.Get("pixels.stripe.size")
	if !ok || got != "1024" {
		t.Fatalf("expected 1024, got %q (present=%v)", got, ok)
	}

	// ensure mutation safety
	snap := store.Snapshot()
	snap["pixels.stripe.size"] = "0"
	if again, _ := store.Get("pixels.stripe.size"); again != "1024" {
		t.Fatalf("expected snapshot to be a copy, got %q", again)
	}
}

func TestMemoryStoreTypedSetters(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(nil)
	if err := store.SetLong("a", 134217728); err != nil {
		t.Fatalf("SetLong: %v", err)
	}
	if err := store.SetBoolean("b", true); err != nil {
		t.Fatalf("SetBoolean: %v", err)
	}
	if err := store.SetDouble("c", 0.75); err != nil {
		t.Fatalf("SetDouble: %v", err)
	}
	if err := store.SetString("d", "struct<x:int>"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	want := map[string]string{"a": "134217728", "b": "true", "c": "0.75", "d": "struct<x:int>"}
	for k, v := range want {
		if got, _ := store.Get(k); got != v {
			t.Fatalf("expected %s=%s, got %q", k, v, got)
		}
	}
	if keys := store.Keys(); !slices.Equal(keys, []string{"a", "b", "c", "d"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestMemoryStoreRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(nil)
	if err := store.Set("", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if keys := store.Keys(); len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
}

func TestMemoryStoreWithRegistry(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(map[string]string{
		"hive.exec.pixels.default.block.padding": "FALSE",
	})

	padding, err := settings.BlockPadding.Bool(nil, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if padding {
		t.Fatalf("expected legacy FALSE to resolve to false")
	}

	if err := settings.StripeSize.SetLong(store, 8<<20); err != nil {
		t.Fatalf("SetLong: %v", err)
	}
	got, err := settings.StripeSize.Long(nil, store)
	if err != nil || got != 8<<20 {
		t.Fatalf("expected %d, got %d (%v)", 8<<20, got, err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(nil)
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			if err := settings.StripeSize.SetLong(store, int64(1024+offset)); err != nil {
				t.Errorf("SetLong failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := settings.StripeSize.Long(nil, store); err != nil {
				t.Errorf("Long failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// final read should succeed
	if _, err := settings.StripeSize.Long(nil, store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeProperties(t *testing.T) {
	t.Parallel()

	base := settings.Properties{"a": "1", "b": "2"}
	merged := MergeProperties(base, map[string]string{"b": "3"})

	if merged["a"] != "1" || merged["b"] != "3" {
		t.Fatalf("unexpected merge result %v", merged)
	}
	if base["b"] != "2" {
		t.Fatalf("base must not be modified")
	}
	if MergeProperties(nil, nil) != nil {
		t.Fatalf("expected nil for empty inputs")
	}
}

func BenchmarkMemoryStoreResolve(b *testing.B) {
	store := NewMemoryStore(nil)
	for i := 0; i < 64; i++ {
		_ = store.Set(fmt.Sprintf("pixels.extra.%d", i), "x")
	}
	_ = store.Set("hive.exec.pixels.default.stripe.size", "1048576")
	for i := 0; i < b.N; i++ {
		if _, err := settings.StripeSize.Long(nil, store); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
