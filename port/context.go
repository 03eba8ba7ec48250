package port

import "time"

// cpuAccount is the bookkeeping a Context carries for CPUUsage*, kept next
// to the parking channel since both are "port state" from the kernel's
// point of view.
type cpuAccount struct {
	running  bool
	start    time.Time
	busy     time.Duration
	resetAt  time.Time
}

func newCPUAccount() cpuAccount {
	return cpuAccount{resetAt: time.Now()}
}

func (c *cpuAccount) start_() {
	c.running = true
	c.start = time.Now()
}

func (c *cpuAccount) stop() {
	if !c.running {
		return
	}
	c.busy += time.Since(c.start)
	c.running = false
}

func (c *cpuAccount) usage() float64 {
	elapsed := time.Since(c.resetAt)
	if elapsed <= 0 {
		return 0
	}
	busy := c.busy
	if c.running {
		busy += time.Since(c.start)
	}
	return float64(busy) / float64(elapsed)
}

func (c *cpuAccount) reset() {
	c.busy = 0
	c.resetAt = time.Now()
	if c.running {
		c.start = c.resetAt
	}
}
