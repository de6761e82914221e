// internal/platform/limiter/limiter_test.go
package limiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"subhound/internal/testutil"
)

func TestNew_Defaults(t *testing.T) {
	testutil.AssertEqual(t, New(0).Cap(), DefaultLimit, "zero uses default")
	testutil.AssertEqual(t, New(-3).Cap(), DefaultLimit, "negative uses default")
	testutil.AssertEqual(t, New(7).Cap(), 7, "explicit capacity")
}

func TestLimiter_NeverExceedsCapacity(t *testing.T) {
	l := New(5)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(ctx, func() error {
				time.Sleep(2 * time.Millisecond)
				return nil
			})
		}()
	}
	wg.Wait()

	testutil.AssertTrue(t, l.Peak() <= 5, "peak within capacity")
	testutil.AssertTrue(t, l.Peak() >= 1, "work observed")
	testutil.AssertEqual(t, l.InFlight(), 0, "all slots released")
}

func TestLimiter_AcquireHonorsContext(t *testing.T) {
	l := New(1)
	testutil.AssertNoError(t, l.Acquire(context.Background()), "first acquire")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	testutil.AssertError(t, err, "second acquire should block until deadline")

	l.Release()
	testutil.AssertNoError(t, l.Acquire(context.Background()), "slot available after release")
	l.Release()
}

func TestLimiter_DoPropagatesError(t *testing.T) {
	l := New(2)
	want := context.Canceled
	err := l.Do(context.Background(), func() error { return want })
	testutil.AssertEqual(t, err, want, "fn error returned")
	testutil.AssertEqual(t, l.InFlight(), 0, "released on error")
}
