package core

// Water loop states.
const (
	WaterCold    = "COLD"
	WaterHeating = "HEATING"
	WaterAtTemp  = "AT_TEMP"
	WaterCooling = "COOLING"
)

// TargetMode selects the boiler setpoint.
type TargetMode int

const (
	TargetStandby TargetMode = iota
	TargetBrewing
	TargetExtraHot
)

// WaterStatus is the water temperature controller's published output.
type WaterStatus struct {
	State         string
	CurrentTemp   float64
	TargetTemp    float64
	HeaterOn      bool
	TempReady     bool
	Overheat      bool
	PressureReady bool
	SystemOK      bool
}

// WaterTempController runs the boiler loop: a four-state machine around a
// proportional heat/decay simulation with a hysteresis band and an overheat
// latch.
type WaterTempController struct {
	state         string
	current       float64
	overheat      bool
	pressureReady bool
	pressureAge   int
}

func NewWaterTempController(cfg *Config) *WaterTempController {
	return &WaterTempController{
		state:   WaterCold,
		current: cfg.AmbientTemp,
	}
}

func (w *WaterTempController) target(cfg *Config, mode TargetMode) float64 {
	switch mode {
	case TargetBrewing:
		return cfg.TargetBrewing
	case TargetExtraHot:
		return cfg.TargetExtraHot
	}
	return cfg.TargetStandby
}

// Update advances the loop one tick.
func (w *WaterTempController) Update(cfg *Config, s Snapshot) WaterStatus {
	enable := s.Main.HeatingEnable
	target := w.target(cfg, s.Main.TargetMode)

	// Latch overheat before anything acts on this tick's reading.
	if w.current >= cfg.MaxSafeTemp {
		w.current = cfg.MaxSafeTemp
		w.overheat = true
	}
	violation := w.overheat || s.In.SystemFault || s.In.EmergencyStop

	diff := target - w.current
	if diff < 0 {
		diff = -diff
	}

	switch w.state {
	case WaterCold:
		if enable && !violation {
			w.state = WaterHeating
		}
	case WaterHeating:
		switch {
		case !enable || violation:
			w.state = WaterCooling
		case diff <= cfg.Hysteresis:
			w.state = WaterAtTemp
		}
	case WaterAtTemp:
		switch {
		case !enable || violation:
			w.state = WaterCooling
		case w.current < target-cfg.Hysteresis:
			w.state = WaterHeating
		}
	case WaterCooling:
		switch {
		case enable && !violation:
			w.state = WaterHeating
		case w.current <= cfg.AmbientTemp+cfg.CoolMargin:
			w.state = WaterCold
		}
	}

	heaterOn := !violation &&
		(w.state == WaterHeating || (w.state == WaterAtTemp && w.current <= target))

	// Thermal simulation: move toward the target by a fraction of the
	// remaining delta (with a floor) when heating, hold when the heater is
	// on at the target, decay toward ambient at a slower proportional rate
	// when the heater is off.
	if heaterOn && w.current < target {
		step := (target - w.current) * cfg.HeatGain
		if step < cfg.HeatMinStep {
			step = cfg.HeatMinStep
		}
		w.current += step
		if w.current > target {
			w.current = target
		}
	} else if !heaterOn && w.current > cfg.AmbientTemp {
		w.current -= (w.current - cfg.AmbientTemp) * cfg.CoolGain
		if w.current < cfg.AmbientTemp {
			w.current = cfg.AmbientTemp
		}
	}

	// Overheat latches at MAX_SAFE and clears only once the boiler has
	// decayed back to near ambient.
	if w.current >= cfg.MaxSafeTemp {
		w.current = cfg.MaxSafeTemp
		w.overheat = true
	}
	if w.overheat && w.current <= cfg.AmbientTemp+cfg.CoolMargin {
		w.overheat = false
	}

	// Pressure is sampled on a slower cadence; the override bypasses it.
	w.pressureAge++
	if w.pressureAge >= cfg.PressurePeriod {
		w.pressureAge = 0
		w.pressureReady = s.In.PressureOK
	}
	pressureReady := w.pressureReady || s.In.PressureOverride

	tempReady := w.state == WaterAtTemp
	return WaterStatus{
		State:         w.state,
		CurrentTemp:   w.current,
		TargetTemp:    target,
		HeaterOn:      heaterOn,
		TempReady:     tempReady,
		Overheat:      w.overheat,
		PressureReady: pressureReady,
		SystemOK:      tempReady && pressureReady && !w.overheat,
	}
}
