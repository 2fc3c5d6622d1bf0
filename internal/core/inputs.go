package core

// Inputs is the normalized external view of the machine for one tick.
// The sensor/input normalizer is expected to have debounced everything
// already; the core treats these values as clean levels.
type Inputs struct {
	// Panel button levels (held = true). Edge detection happens inside the
	// menu so that hold-to-enter combos can be timed.
	Left   bool
	Right  bool
	Select bool
	Cancel bool

	// Hopper/tank sensors, 0..255. 255 is the infinite-supply sentinel.
	Bin0Level      uint8
	Bin1Level      uint8
	CreamerLevel   uint8
	ChocolateLevel uint8

	PaperPresent bool
	WaterPresent bool
	PressureOK   bool
	// PressureOverride forces the pressure gate ready regardless of the
	// sampled sensor (maintenance/bench use).
	PressureOverride bool

	SystemFault   bool
	EmergencyStop bool
}

// Actuator identifies one of the six physical output lines.
type Actuator int

const (
	ActHeater Actuator = iota
	ActPourValve
	ActDirectValve
	ActGrinder0
	ActGrinder1
	ActPaperMotor

	ActuatorCount
)

// String returns the wiring-diagram name of the actuator.
func (a Actuator) String() string {
	switch a {
	case ActHeater:
		return "heater"
	case ActPourValve:
		return "pour_valve"
	case ActDirectValve:
		return "direct_valve"
	case ActGrinder0:
		return "grinder0"
	case ActGrinder1:
		return "grinder1"
	case ActPaperMotor:
		return "paper_motor"
	}
	return "unknown"
}

// ActuatorRequest is one commanded state per actuator line.
type ActuatorRequest [ActuatorCount]bool

// Snapshot is the immutable previous-tick view handed to every component.
// Only In carries current-tick data; everything else is what the owning
// component published on the previous tick, so a signal produced in tick N
// is visible to its consumers no earlier than tick N+1.
type Snapshot struct {
	Tick uint64
	In   Inputs

	Consumables ConsumableStatus
	Water       WaterStatus
	Faults      FaultStatus
	Recipe      RecipeStatus
	Menu        MenuStatus
	Interlock   InterlockStatus
	Main        MainStatus
}
