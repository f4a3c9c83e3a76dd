package time

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Granularity selects the bar aggregation range of the history endpoint.
// The values are the literal range selectors the exchange api expects.
type Granularity string

const (
	Min1  Granularity = "1"
	Min3  Granularity = "3"
	Min5  Granularity = "5"
	Min10 Granularity = "10"
	Min15 Granularity = "15"
	Min30 Granularity = "30"
	Min45 Granularity = "45"
	Hour1 Granularity = "60"
	Hour2 Granularity = "120"
	Hour3 Granularity = "180"
	Hour4 Granularity = "240"
	Day1  Granularity = "1D"
	Week1 Granularity = "1W"
	Mon1  Granularity = "1M"
	Mon3  Granularity = "3M"
)

var intervals = map[Granularity]time.Duration{
	Min1:  time.Minute,
	Min3:  3 * time.Minute,
	Min5:  5 * time.Minute,
	Min10: 10 * time.Minute,
	Min15: 15 * time.Minute,
	Min30: 30 * time.Minute,
	Min45: 45 * time.Minute,
	Hour1: time.Hour,
	Hour2: 2 * time.Hour,
	Hour3: 3 * time.Hour,
	Hour4: 4 * time.Hour,
	Day1:  24 * time.Hour,
	Week1: 7 * 24 * time.Hour,
	Mon1:  30 * 24 * time.Hour,
	Mon3:  90 * 24 * time.Hour,
}

// Interval returns the refresh interval matching the granularity.
// Unknown selectors fall back to one minute.
func (g Granularity) Interval() time.Duration {
	if d, ok := intervals[g]; ok {
		return d
	}
	log.Warn().Str("granularity", string(g)).Msg("unknown granularity")
	return time.Minute
}

// Valid returns true if the granularity is a known range selector.
func (g Granularity) Valid() bool {
	_, ok := intervals[g]
	return ok
}

// AlignedDelay returns the duration until the next interval boundary,
// padded by a second to let the exchange close the bar first.
func AlignedDelay(now time.Time, interval time.Duration) time.Duration {
	secs := int64(interval.Seconds())
	if secs <= 0 {
		return time.Second
	}
	nowSecs := now.Unix()
	next := (nowSecs/secs + 1) * secs
	return time.Duration(next-nowSecs)*time.Second + time.Second
}

// FromMilli converts a unix millisecond timestamp to time.
func FromMilli(milli int64) time.Time {
	return time.Unix(milli/1000, milli%1000*int64(time.Millisecond))
}

// ToMilli converts the time to a unix millisecond timestamp.
func ToMilli(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

// LastXMinutes returns the unix millisecond timestamp x minutes before now.
func LastXMinutes(m int) int64 {
	return ToMilli(time.Now().Add(-1 * time.Duration(m) * time.Minute))
}

// ThisInstant returns the current unix millisecond timestamp.
func ThisInstant() int64 {
	return ToMilli(time.Now())
}

// Duration is a time.Duration wrapper that unmarshals from config strings.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// Execute executes the given function at the specified interval providing also a shutdown hook.
// The first execution waits for the next interval boundary.
func Execute(stop <-chan struct{}, interval time.Duration, exec func() error, shutdown func()) {
	go func() {
		defer shutdown()
		select {
		case <-time.After(AlignedDelay(time.Now(), interval)):
		case <-stop:
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := exec(); err != nil {
				log.Warn().Err(err).Msg("scheduled execution failed")
			}
			select {
			case <-ticker.C:
			case <-stop:
				log.Info().Float64("interval", interval.Seconds()).Msg("execution stopped")
				return
			}
		}
	}()
}
