package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check(0)
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() {
		<-done
	}()
	defer close(done)

	checker.Check(1)
}

func TestGoroutineChecker_DetectsLeak(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	rec := &recordingTB{TB: t}
	checker := NewGoroutineChecker(rec)
	go func() {
		<-done
	}()

	checker.Check(0)
	assert.True(t, rec.failed)
}

func TestCheckNoGoroutineLeak_WaitsForExit(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

func TestSettle_ReturnsOnTimeout(t *testing.T) {
	start := time.Now()
	n := settle(-1, 30*time.Millisecond)
	assert.Positive(t, n)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

// recordingTB captures Errorf instead of failing the real test
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) {
	r.failed = true
}
