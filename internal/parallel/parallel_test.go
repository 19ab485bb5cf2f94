package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		n := 1000
		var count int64
		seen := make([]int32, n)
		For(n, workers, func(i int) {
			atomic.AddInt64(&count, 1)
			atomic.AddInt32(&seen[i], 1)
		})

		if count != int64(n) {
			t.Errorf("workers=%d: For processed %d items, want %d", workers, count, n)
		}
		for i, s := range seen {
			if s != 1 {
				t.Fatalf("workers=%d: item %d processed %d times", workers, i, s)
			}
		}
	}
}

func TestForSmall(t *testing.T) {
	results := make([]int, 3)
	For(len(results), 8, func(i int) {
		results[i] = i * 2
	})
	for i, r := range results {
		if r != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, r, i*2)
		}
	}

	// n == 0 must not call fn.
	For(0, 8, func(i int) { t.Fatal("fn called for empty range") })
}

func TestForWithErrorLowestIndex(t *testing.T) {
	errAt := func(i int) error { return fmt.Errorf("item %d", i) }

	err := ForWithError(context.Background(), 400, 4, func(i int) error {
		if i == 350 || i == 120 {
			return errAt(i)
		}
		return nil
	})
	if err == nil || err.Error() != "item 120" {
		t.Errorf("ForWithError error = %v, want item 120", err)
	}

	if err := ForWithError(context.Background(), 100, 4, func(int) error { return nil }); err != nil {
		t.Errorf("ForWithError returned error: %v", err)
	}
}

func TestForWithErrorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	err := ForWithError(ctx, 100, 1, func(int) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ForWithError error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("canceled run processed %d items, want 0", calls)
	}
}

func TestChunks(t *testing.T) {
	out, err := Chunks(context.Background(), 50, 0, func(i int) ([]byte, error) {
		return []byte{byte(i)}, nil
	})
	if err != nil {
		t.Fatalf("Chunks error: %v", err)
	}
	for i, b := range out {
		if len(b) != 1 || b[0] != byte(i) {
			t.Errorf("chunk %d = %v, want [%d]", i, b, i)
		}
	}

	boom := errors.New("boom")
	if _, err := Chunks(context.Background(), 10, 2, func(i int) ([]byte, error) {
		if i == 7 {
			return nil, boom
		}
		return nil, nil
	}); !errors.Is(err, boom) {
		t.Errorf("Chunks error = %v, want boom", err)
	}
}

func TestConfig(t *testing.T) {
	orig := GetConfig()
	defer SetConfig(orig)

	SetConfig(Config{NumWorkers: 2, GrainSize: 10})
	if got := GetConfig(); got.NumWorkers != 2 || got.GrainSize != 10 {
		t.Errorf("GetConfig = %+v, want {2 10}", got)
	}
	if w := plan(15, 0); w != 1 {
		t.Errorf("plan(15) with grain 10 = %d workers, want 1", w)
	}
	if w := plan(1000, 0); w != 2 {
		t.Errorf("plan(1000) = %d workers, want 2", w)
	}
	if w := plan(1000, 5); w != 5 {
		t.Errorf("plan(1000, 5) = %d workers, want 5", w)
	}
}
