package core

// ServiceTimerStatus is the time-since-service counter published for the
// numeric display and persisted across restarts.
type ServiceTimerStatus struct {
	Seconds int
	Minutes int
	Hours   int
	Days    int
}

// ServiceTimer accumulates ticks into a monotonic since-service counter.
// Only an explicit maintenance action resets it.
type ServiceTimer struct {
	subTicks     int
	totalSeconds int
}

func NewServiceTimer() *ServiceTimer {
	return &ServiceTimer{}
}

// Seed restores the persisted total.
func (t *ServiceTimer) Seed(seconds int) {
	if seconds > 0 {
		t.totalSeconds = seconds
	}
}

// TotalSeconds returns the raw counter for persistence.
func (t *ServiceTimer) TotalSeconds() int { return t.totalSeconds }

// Reset zeroes the counter (maintenance action).
func (t *ServiceTimer) Reset() {
	t.subTicks = 0
	t.totalSeconds = 0
}

// Update advances the counter one tick.
func (t *ServiceTimer) Update(cfg *Config) ServiceTimerStatus {
	t.subTicks++
	if t.subTicks >= cfg.TicksPerSecond {
		t.subTicks = 0
		t.totalSeconds++
	}
	return t.Status()
}

// Status breaks the counter into display units.
func (t *ServiceTimer) Status() ServiceTimerStatus {
	s := t.totalSeconds
	return ServiceTimerStatus{
		Seconds: s % 60,
		Minutes: (s / 60) % 60,
		Hours:   (s / 3600) % 24,
		Days:    s / 86400,
	}
}
