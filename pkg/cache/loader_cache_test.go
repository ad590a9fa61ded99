package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLoaderCache_Get_miss_then_hit(t *testing.T) {
	loads := atomic.Int32{}

	c, err := New[string](10)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	load := func(_ context.Context, key string) (string, error) {
		loads.Add(1)

		return "v-" + key, nil
	}

	v, hit, err := c.Get(ctx, "a", load)
	if err != nil {
		t.Fatal(err)
	}

	if hit {
		t.Error("expected miss")
	}

	if v != "v-a" {
		t.Errorf("got %q", v)
	}

	if loads.Load() != 1 {
		t.Errorf("loads = %d", loads.Load())
	}

	v, hit, err = c.Get(ctx, "a", load)
	if err != nil {
		t.Fatal(err)
	}

	if !hit {
		t.Error("expected hit")
	}

	if v != "v-a" {
		t.Errorf("got %q", v)
	}

	if loads.Load() != 1 {
		t.Errorf("loads = %d", loads.Load())
	}
}

func TestLoaderCache_Get_singleflight(t *testing.T) {
	loads := atomic.Int32{}

	c, err := New[int](10)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	var gate sync.WaitGroup
	gate.Add(1)

	var arrived atomic.Int32
	//nolint:unparam // load always returns nil error for this test.
	load := func(_ context.Context, _ string) (int, error) {
		loads.Add(1)

		return 42, nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if arrived.Add(1) == 10 {
				gate.Done()
			}

			gate.Wait()

			val, _, err := c.Get(ctx, "x", load)
			if err != nil {
				t.Error(err)

				return
			}

			if val != 42 {
				t.Errorf("got %d", val)
			}
		}()
	}

	wg.Wait()

	// With the gate barrier all 10 goroutines call Get after the same release;
	// singleflight coalesces the in-flight callers so we expect 1 load when they
	// overlap. Scheduling may allow fewer to overlap, so accept 1–10; the test
	// verifies correctness (all get 42), not an exact count.
	if n := loads.Load(); n < 1 || n > 10 {
		t.Errorf("expected 1–10 loads (singleflight coalescing), got %d", n)
	}
}

func TestLoaderCache_Purge(t *testing.T) {
	c, err := New[string](10)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	load := func(_ context.Context, key string) (string, error) { return "v-" + key, nil }

	_, _, _ = c.Get(ctx, "a", load)

	_, _, _ = c.Get(ctx, "b", load)
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len = %d", c.Len())
	}

	_, hit, _ := c.Get(ctx, "a", load)
	if hit {
		t.Error("expected miss after Purge")
	}
}

func TestLoaderCache_Get_load_error(t *testing.T) {
	c, err := New[string](10)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	loadErr := context.DeadlineExceeded
	load := func(_ context.Context, _ string) (string, error) {
		return "", loadErr
	}

	_, _, err = c.Get(ctx, "a", load)
	if !errors.Is(err, loadErr) {
		t.Errorf("got err %v", err)
	}

	if c.Len() != 0 {
		t.Error("failed load should not be cached")
	}
}
