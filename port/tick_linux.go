//go:build linux

package port

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// newPeriodicSource drives the tick at freqHz using a Linux timerfd,
// matching the teacher's preference for golang.org/x/sys/unix primitives
// over the generic time.Ticker wherever a real timer device is available.
func newPeriodicSource(freqHz int) (<-chan struct{}, func()) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return genericPeriodicSource(freqHz)
	}

	period := time.Second / time.Duration(freqHz)
	spec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(period.Nanoseconds()),
		Value:    unix.NsecToTimespec(period.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return genericPeriodicSource(freqHz)
	}

	ticks := make(chan struct{})
	stopCh := make(chan struct{})
	go func() {
		defer unix.Close(fd)
		buf := make([]byte, 8)
		for {
			select {
			case <-stopCh:
				close(ticks)
				return
			default:
			}
			if _, err := unix.Read(fd, buf); err != nil {
				close(ticks)
				return
			}
			select {
			case ticks <- struct{}{}:
			case <-stopCh:
				close(ticks)
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() { close(stopCh) })
	}
	return ticks, stop
}
