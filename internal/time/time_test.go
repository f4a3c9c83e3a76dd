package time

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGranularityInterval(t *testing.T) {

	type test struct {
		granularity Granularity
		interval    time.Duration
		valid       bool
	}

	tests := map[string]test{
		"1": {
			granularity: Min1,
			interval:    time.Minute,
			valid:       true,
		},
		"30": {
			granularity: Min30,
			interval:    30 * time.Minute,
			valid:       true,
		},
		"240": {
			granularity: Hour4,
			interval:    4 * time.Hour,
			valid:       true,
		},
		"1D": {
			granularity: Day1,
			interval:    24 * time.Hour,
			valid:       true,
		},
		"unknown": {
			granularity: Granularity("7"),
			interval:    time.Minute,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.interval, tt.granularity.Interval())
			assert.Equal(t, tt.valid, tt.granularity.Valid())
		})
	}
}

func TestAlignedDelay(t *testing.T) {
	now := time.Unix(1000000030, 0)
	delay := AlignedDelay(now, time.Minute)
	// next boundary is at 1000000080 , plus the one second padding
	assert.Equal(t, 51*time.Second, delay)

	// always strictly positive , even on the boundary itself
	assert.Equal(t, 61*time.Second, AlignedDelay(time.Unix(1000000080, 0), time.Minute))
}

func TestMilli(t *testing.T) {
	now := time.Unix(1600000000, 500*int64(time.Millisecond))
	assert.Equal(t, int64(1600000000500), ToMilli(now))
	assert.Equal(t, now, FromMilli(1600000000500))
}

func TestExecuteShutdownHookTracksTheLoop(t *testing.T) {
	stop := make(chan struct{})
	var wg sync.WaitGroup

	// Execute returns immediately and runs the loop on its own goroutine,
	// so completion must be tracked through the shutdown hook.
	wg.Add(1)
	Execute(stop, time.Hour, func() error { return nil }, wg.Done)

	close(stop)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook did not release the group")
	}
}

func TestInstantWindow(t *testing.T) {
	before := ToMilli(time.Now())
	instant := ThisInstant()
	tenAgo := LastXMinutes(10)
	after := ToMilli(time.Now())

	assert.True(t, before <= instant && instant <= after)
	assert.True(t, tenAgo < instant)
	assert.True(t, after-tenAgo >= 10*time.Minute.Milliseconds())
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	assert.NoError(t, json.Unmarshal([]byte(`"5m"`), &d))
	assert.Equal(t, 5*time.Minute, d.Duration)

	b, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, `"5m0s"`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}
