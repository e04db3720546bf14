package domain

import (
	"sync"
	"time"
)

const DefaultEmergencyCooldown = 3600 * time.Second

// EmergencyGovernor limits how often emergency proposals may skip the time-lock.
// A zero lastExecution means no emergency proposal has run in this process.
type EmergencyGovernor struct {
	mu            sync.Mutex
	cooldown      time.Duration
	lastExecution time.Time
}

func NewEmergencyGovernor(cooldown time.Duration) *EmergencyGovernor {
	if cooldown < 0 {
		cooldown = 0
	}
	return &EmergencyGovernor{cooldown: cooldown}
}

func (g *EmergencyGovernor) Cooldown() time.Duration {
	return g.cooldown
}

func (g *EmergencyGovernor) LastExecution() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastExecution
}

// Restore seeds the governor with a previously recorded execution time.
func (g *EmergencyGovernor) Restore(last time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastExecution = last
}

func (g *EmergencyGovernor) CanExecute(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canExecute(now)
}

func (g *EmergencyGovernor) Record(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastExecution = now
}

// Guard runs fn only when the cooldown has elapsed and records now if fn succeeds.
// The governor stays locked for the whole call.
func (g *EmergencyGovernor) Guard(now time.Time, fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.canExecute(now) {
		return NewError(KindEmergencyCooldownActive, "emergency cooldown active until %v",
			g.lastExecution.Add(g.cooldown).UTC().Format(time.RFC3339))
	}
	if err := fn(); err != nil {
		return err
	}
	g.lastExecution = now
	return nil
}

func (g *EmergencyGovernor) canExecute(now time.Time) bool {
	if g.lastExecution.IsZero() {
		return true
	}
	return now.Sub(g.lastExecution) >= g.cooldown
}
