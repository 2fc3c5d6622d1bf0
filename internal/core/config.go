package core

// Config gathers every tick-counted window and threshold the control core
// uses. All timing is expressed in control-loop ticks; the service layer
// decides how long a tick lasts in wall-clock time.
type Config struct {
	TicksPerSecond int

	// Consumables
	InfiniteLevel    uint8 // sensor sentinel: never-depleting supply
	EmptyThreshold   uint8
	LowThreshold     uint8
	MaxPaper         uint8
	PaperLowCount    uint8
	SensorSettleTicks int // ignore hopper sensors until this many ticks after boot

	// Water temperature loop
	AmbientTemp     float64
	MaxSafeTemp     float64
	Hysteresis      float64
	CoolMargin      float64 // band above ambient that counts as "cold again"
	TargetStandby   float64
	TargetBrewing   float64
	TargetExtraHot  float64
	HeatGain        float64 // fraction of remaining delta gained per tick
	HeatMinStep     float64
	CoolGain        float64
	PressurePeriod  int // ticks between pressure samples

	// Fault debouncing
	DebounceTicks  int
	StreakCap      int

	// Brew stage durations
	ValidateTicks  int
	FeedPaperTicks int
	GrindTicks     int
	PourTicks      int
	DispenseTicks  int
	SettleTicks    int

	// Menu
	SplashTicks          int
	CompleteDwellTicks   int
	MaintenanceHoldTicks int

	// Actuator interlock
	ActuatorMaxRun [ActuatorCount]int
	SwitchGapTicks int // 0 disables the switching interlock

	// Main FSM
	ErrorCycleTicks int // dwell per rotated fault message
	CooldownTicks   int
	RetryTicks      int // quarantine after emergency before re-evaluating
}

// DefaultConfig returns the canonical tuning used on the reference machine.
func DefaultConfig() Config {
	return Config{
		TicksPerSecond: 10,

		InfiniteLevel:     255,
		EmptyThreshold:    10,
		LowThreshold:      50,
		MaxPaper:          50,
		PaperLowCount:     5,
		SensorSettleTicks: 10,

		AmbientTemp:    25,
		MaxSafeTemp:    240,
		Hysteresis:     5,
		CoolMargin:     3,
		TargetStandby:  60,
		TargetBrewing:  200,
		TargetExtraHot: 220,
		HeatGain:       0.25,
		HeatMinStep:    1,
		CoolGain:       0.1,
		PressurePeriod: 20,

		DebounceTicks: 5,
		StreakCap:     100,

		ValidateTicks:  2,
		FeedPaperTicks: 8,
		GrindTicks:     30,
		PourTicks:      40,
		DispenseTicks:  25,
		SettleTicks:    15,

		SplashTicks:          20,
		CompleteDwellTicks:   20,
		MaintenanceHoldTicks: 30,

		ActuatorMaxRun: [ActuatorCount]int{
			ActHeater:     600,
			ActPourValve:  120,
			ActDirectValve: 120,
			ActGrinder0:   90,
			ActGrinder1:   90,
			ActPaperMotor: 40,
		},
		SwitchGapTicks: 3,

		ErrorCycleTicks: 15,
		CooldownTicks:   25,
		RetryTicks:      50,
	}
}
