package main

import "time"

const (
	TickRate      = 45 // physics ticks per second
	BroadcastRate = 10 // state broadcasts per second
	TickDuration  = time.Second / TickRate
	MaxTickDelta  = 0.1 // seconds; cap dt after a scheduler stall
)

// Scheduler drives every live room from a single goroutine. Room faults
// are contained by Step, so one broken room cannot stall the rest.
type Scheduler struct {
	reg  *Registry
	stop chan struct{}
	done chan struct{}
}

// NewScheduler creates a stopped scheduler over the registry
func NewScheduler(reg *Registry) *Scheduler {
	return &Scheduler{
		reg:  reg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Run ticks all rooms until Stop is called
func (s *Scheduler) Run() {
	defer close(s.done)

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	last := time.Now()
	broadcastIn := 0.0
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > MaxTickDelta {
				dt = MaxTickDelta
			}

			broadcastIn -= dt
			broadcast := broadcastIn <= 0
			if broadcast {
				broadcastIn += 1.0 / BroadcastRate
				if broadcastIn < 0 {
					broadcastIn = 1.0 / BroadcastRate
				}
			}

			for _, r := range s.reg.Rooms() {
				r.Step(dt, broadcast)
			}

		case <-s.stop:
			return
		}
	}
}

// Stop halts the loop and waits for the current pass to finish
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
