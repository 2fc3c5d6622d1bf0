package core

// InterlockStatus is the actuator safety interlock's published output. Safe
// is registered: it reflects the combinational evaluation of the previous
// tick.
type InterlockStatus struct {
	Safe    ActuatorRequest
	Timeout [ActuatorCount]bool
}

// ActuatorInterlock is the final gate between commanded actuator state and
// the physical outputs. A safe command is false whenever system-fault,
// emergency-stop or the actuator's own timeout is asserted, regardless of
// the request.
type ActuatorInterlock struct {
	run      [ActuatorCount]int
	timeout  [ActuatorCount]bool
	pending  ActuatorRequest // evaluated this tick, published next
	lastSafe ActuatorRequest
	gap      int
	dropped  [ActuatorCount]bool // dropped during the current gap window
}

func NewActuatorInterlock() *ActuatorInterlock {
	return &ActuatorInterlock{}
}

// requested merges the actuator requests of the recipe engine with the
// heater demand of the water loop.
func requested(s Snapshot) ActuatorRequest {
	req := s.Recipe.Actuators
	req[ActHeater] = s.Water.HeaterOn
	return req
}

// precondition checks the per-actuator gate beyond the common ones.
func precondition(a Actuator, s Snapshot) bool {
	switch a {
	case ActPourValve:
		return s.Water.TempReady && s.Water.PressureReady && s.Consumables.PaperPresent
	case ActDirectValve:
		return s.Water.PressureReady
	case ActPaperMotor:
		return s.Consumables.PaperPresent
	}
	return true
}

// Update advances the interlock one tick.
func (il *ActuatorInterlock) Update(cfg *Config, s Snapshot) InterlockStatus {
	req := requested(s)

	// Independent run timers: a timeout latches while the raw command is
	// held past its maximum and resets when the command drops.
	for a := Actuator(0); a < ActuatorCount; a++ {
		if !req[a] {
			il.run[a] = 0
			il.timeout[a] = false
			continue
		}
		il.run[a]++
		if cfg.ActuatorMaxRun[a] > 0 && il.run[a] > cfg.ActuatorMaxRun[a] {
			il.timeout[a] = true
		}
	}

	var safe ActuatorRequest
	for a := Actuator(0); a < ActuatorCount; a++ {
		safe[a] = req[a] &&
			!s.In.SystemFault &&
			!s.In.EmergencyStop &&
			!il.timeout[a] &&
			precondition(a, s)
	}

	// Optional switching interlock: after any safe state changes, a
	// different actuator may not newly activate until the settle delay has
	// elapsed. The delay binds different actuators only, so one whose own
	// safe state dropped during the window may re-activate immediately.
	if cfg.SwitchGapTicks > 0 {
		if il.gap > 0 {
			for a := Actuator(0); a < ActuatorCount; a++ {
				if safe[a] && !il.lastSafe[a] && !il.dropped[a] {
					safe[a] = false
				}
			}
			il.gap--
		}
		if safe != il.lastSafe {
			if il.gap == 0 {
				il.dropped = [ActuatorCount]bool{}
			}
			for a := Actuator(0); a < ActuatorCount; a++ {
				if il.lastSafe[a] && !safe[a] {
					il.dropped[a] = true
				}
			}
			il.gap = cfg.SwitchGapTicks
		}
	}
	il.lastSafe = safe

	// Registered output: one tick of latency relative to the evaluation.
	out := InterlockStatus{Safe: il.pending, Timeout: il.timeout}
	il.pending = safe
	return out
}
