package core

// FaultCode enumerates the six debounced error conditions. The order fixes
// the numbered user-visible message for each.
type FaultCode int

const (
	FaultNoWater FaultCode = iota
	FaultNoPaper
	FaultNoCoffee
	FaultTemp
	FaultPressure
	FaultSystem

	FaultCount
)

// String returns the numbered panel message for the fault.
func (f FaultCode) String() string {
	switch f {
	case FaultNoWater:
		return "E1 NO WATER"
	case FaultNoPaper:
		return "E2 NO PAPER"
	case FaultNoCoffee:
		return "E3 NO COFFEE"
	case FaultTemp:
		return "E4 TEMP FAULT"
	case FaultPressure:
		return "E5 PRESSURE"
	case FaultSystem:
		return "E6 SYSTEM FAULT"
	}
	return "E? UNKNOWN"
}

// WarningCode enumerates the six undebounced warning conditions.
type WarningCode int

const (
	WarnBin0Low WarningCode = iota
	WarnBin1Low
	WarnCreamerLow
	WarnChocolateLow
	WarnPaperLow
	WarnHeating

	WarningCount
)

// FaultStatus is the fault monitor's published output. It is the sole
// authority for criticalError and errorPresent.
type FaultStatus struct {
	Errors   [FaultCount]bool
	Warnings [WarningCount]bool

	CriticalError bool
	ErrorPresent  bool
	ErrorCount    int
	WarningCount  int
	Streak        int
}

// FaultMonitor debounces raw fault conditions into latched flags: a raw
// value must hold steady for the settle window before the latched flag
// follows it, so a one-tick glitch never latches.
type FaultMonitor struct {
	latched [FaultCount]bool
	stable  [FaultCount]int
	streak  int
}

func NewFaultMonitor() *FaultMonitor {
	return &FaultMonitor{}
}

func rawFaults(s Snapshot) [FaultCount]bool {
	var raw [FaultCount]bool
	raw[FaultNoWater] = !s.In.WaterPresent
	raw[FaultNoPaper] = !s.Consumables.PaperPresent
	raw[FaultNoCoffee] = !s.Consumables.CanMakeCoffee
	raw[FaultTemp] = s.Water.Overheat
	raw[FaultPressure] = !s.Water.PressureReady
	raw[FaultSystem] = s.In.SystemFault
	return raw
}

// Update advances the monitor one tick.
func (m *FaultMonitor) Update(cfg *Config, s Snapshot) FaultStatus {
	raw := rawFaults(s)

	for f := FaultCode(0); f < FaultCount; f++ {
		if raw[f] == m.latched[f] {
			m.stable[f] = 0
			continue
		}
		m.stable[f]++
		if m.stable[f] >= cfg.DebounceTicks {
			m.latched[f] = raw[f]
			m.stable[f] = 0
		}
	}

	var st FaultStatus
	st.Errors = m.latched

	st.Warnings[WarnBin0Low] = s.Consumables.Resources[ResBin0].Low
	st.Warnings[WarnBin1Low] = s.Consumables.Resources[ResBin1].Low
	st.Warnings[WarnCreamerLow] = s.Consumables.Resources[ResCreamer].Low
	st.Warnings[WarnChocolateLow] = s.Consumables.Resources[ResChocolate].Low
	st.Warnings[WarnPaperLow] = s.Consumables.PaperCount > 0 &&
		s.Consumables.PaperCount <= cfg.PaperLowCount
	st.Warnings[WarnHeating] = s.Water.State == WaterHeating

	st.CriticalError = m.latched[FaultNoWater] || m.latched[FaultNoPaper] ||
		m.latched[FaultNoCoffee] || m.latched[FaultSystem]
	for f := FaultCode(0); f < FaultCount; f++ {
		if m.latched[f] {
			st.ErrorPresent = true
			st.ErrorCount++
		}
	}
	for w := WarningCode(0); w < WarningCount; w++ {
		if st.Warnings[w] {
			st.WarningCount++
		}
	}

	if st.ErrorPresent {
		if m.streak < cfg.StreakCap {
			m.streak++
		}
	} else {
		m.streak = 0
	}
	st.Streak = m.streak
	return st
}
