package port

import "sync"

// Simulator is the default, hosted Port implementation: it runs each
// kernel thread as a goroutine parked on its Context's resume channel, and
// uses a single mutex as the critical section, the same way the real
// target masks interrupts around scheduler state. On bare metal, lock()
// held at the moment of a context switch is still held from the newly
// running thread's point of view, because that thread resumes inside its
// own earlier call to swap() — on the same logical call stack that
// acquired the lock. A goroutine-per-thread model has no such shared call
// stack, so Swap releases the mutex immediately after handing control to
// "in" and re-acquires it immediately after being handed control back;
// every Swap still observes the documented pre/post-condition (critical
// section held on entry and on return) without ever leaving it held across
// a goroutine that isn't the one that took it. Call sites in package
// kernel never nest Lock calls, so a plain (non-recursive) mutex is
// sufficient here.
type Simulator struct {
	mu sync.Mutex

	idleCond *sync.Cond

	irq cpuAccount
}

// NewSimulator constructs a ready-to-use hosted Port.
func NewSimulator() *Simulator {
	return &Simulator{
		idleCond: sync.NewCond(&sync.Mutex{}),
		irq:      newCPUAccount(),
	}
}

func (s *Simulator) Lock()     { s.mu.Lock() }
func (s *Simulator) Unlock()   { s.mu.Unlock() }
func (s *Simulator) LockISR()  { s.mu.Lock() }
func (s *Simulator) UnlockISR() {
	s.mu.Unlock()
	// Wake any idling thread: a tick just completed, which is the closest
	// hosted analogue of the interrupt that a WFI instruction wakes on.
	s.idleCond.Broadcast()
}

// Swap wakes in's goroutine and parks the caller (out) until some future
// Swap names it as "in" again. The critical section is released for the
// duration out is parked, and re-acquired just before Swap returns, so
// that "in" (and anyone else: the tick source, another thread) can take
// the lock while out is off the CPU.
func (s *Simulator) Swap(in, out *Context) {
	in.resume <- struct{}{}
	s.mu.Unlock()
	<-out.resume
	s.mu.Lock()
}

// SpawnInit launches the goroutine that will run entry once first resumed.
func (s *Simulator) SpawnInit(ctx *Context, entry func()) error {
	go func() {
		<-ctx.resume
		entry()
	}()
	return nil
}

// IdleWait parks the caller until the next tick's UnlockISR wakes it.
func (s *Simulator) IdleWait() {
	s.idleCond.L.Lock()
	s.idleCond.Wait()
	s.idleCond.L.Unlock()
}

func (s *Simulator) CPUUsageStart(ctx *Context) { ctx.cpu.start_() }
func (s *Simulator) CPUUsageStop(ctx *Context)  { ctx.cpu.stop() }
func (s *Simulator) CPUUsageGet(ctx *Context) float64 {
	return ctx.cpu.usage()
}
func (s *Simulator) CPUUsageReset(ctx *Context) { ctx.cpu.reset() }

func (s *Simulator) InterruptCPUUsageGet() float64 {
	return s.irq.usage()
}

func (s *Simulator) InterruptCPUUsageReset() {
	s.irq.reset()
}

// StartTickSource launches the periodic driver and returns its stop func.
// The actual timer primitive is platform-selected, see tick_linux.go /
// tick_generic.go.
func (s *Simulator) StartTickSource(freqHz int, onTick func()) func() {
	ticks, stop := newPeriodicSource(freqHz)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ticks {
			s.irq.start_()
			s.LockISR()
			onTick()
			s.UnlockISR()
			s.irq.stop()
		}
	}()
	return func() {
		stop()
		<-done
	}
}
