package port

import (
	"sync"
	"time"
)

// genericPeriodicSource is the portable fallback tick driver, used
// directly on non-Linux targets and as the Linux timerfd's error
// fallback.
func genericPeriodicSource(freqHz int) (<-chan struct{}, func()) {
	period := time.Second / time.Duration(freqHz)
	ticker := time.NewTicker(period)
	ticks := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(ticks)
		for {
			select {
			case <-ticker.C:
				select {
				case ticks <- struct{}{}:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
	return ticks, stop
}
