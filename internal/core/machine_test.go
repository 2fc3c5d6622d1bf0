package core

import "testing"

// machineHarness drives a full machine with simulated panel and sensors.
type machineHarness struct {
	t   *testing.T
	cfg Config
	m   *Machine
	in  Inputs
	st  Status
}

func newMachineHarness(t *testing.T) *machineHarness {
	cfg := DefaultConfig()
	h := &machineHarness{t: t, cfg: cfg, m: NewMachine(cfg)}
	h.in = Inputs{
		Bin0Level:      200,
		Bin1Level:      200,
		CreamerLevel:   200,
		ChocolateLevel: 200,
		PaperPresent:   true,
		WaterPresent:   true,
		PressureOK:     true,
	}
	return h
}

func (h *machineHarness) tick(n int) Status {
	for i := 0; i < n; i++ {
		h.st = h.m.Tick(h.in)
	}
	return h.st
}

// press issues one press-and-release of a panel button.
func (h *machineHarness) press(btn string) Status {
	in := h.in
	switch btn {
	case "left":
		in.Left = true
	case "right":
		in.Right = true
	case "select":
		in.Select = true
	case "cancel":
		in.Cancel = true
	}
	h.st = h.m.Tick(in)
	h.st = h.m.Tick(h.in)
	return h.st
}

// boot runs through splash and the power-on error cycle until the machine
// idles with a clean fault set.
func (h *machineHarness) boot() {
	h.t.Helper()
	for i := 0; i < 200; i++ {
		h.tick(1)
		if h.st.Main.State == MainIdle && !h.st.Faults.ErrorPresent {
			break
		}
	}
	if h.st.Main.State != MainIdle {
		h.t.Fatalf("machine never reached IDLE: main=%s faults=%+v", h.st.Main.State, h.st.Faults)
	}
	// dismiss the error-review screen left over from power-on sensing
	for i := 0; i < 5 && h.st.Menu.State != MenuBinSelect; i++ {
		h.press("select")
	}
	if h.st.Menu.State != MenuBinSelect {
		h.t.Fatalf("menu never reached BIN_SELECT: %s", h.st.Menu.State)
	}
}

// selectDrink navigates bin/drink/size and stops on the confirm screen.
func (h *machineHarness) selectDrink(bin Resource, drink DrinkType, size Size) {
	h.t.Helper()
	for h.st.Menu.Selection.Bin != bin {
		h.press("right")
	}
	h.press("select")
	for h.st.Menu.Selection.Drink != drink {
		h.press("right")
	}
	h.press("select")
	for h.st.Menu.Selection.Size != size {
		h.press("right")
	}
	h.press("select")
	if h.st.Menu.State != MenuConfirm {
		h.t.Fatalf("expected CONFIRM, got %s", h.st.Menu.State)
	}
}

// Nominal end-to-end brew: bin0 latte 12oz, all stages in order, single
// consumption per stage, final stock arithmetic, progress to 100.
func TestMachine_FullLatteBrewConsumesAndCompletes(t *testing.T) {
	h := newMachineHarness(t)
	h.boot()
	h.selectDrink(ResBin0, DrinkLatte, Size12oz)

	h.press("select") // confirm: start request

	seen := map[string]bool{}
	paperPulses := 0
	completed := false
	for i := 0; i < 2000; i++ {
		st := h.tick(1)
		seen[st.Recipe.Stage] = true
		if st.Recipe.Consume.Paper {
			paperPulses++
		}
		if st.Recipe.CompletePulse {
			completed = true
			if st.Recipe.Progress != 100 {
				t.Fatalf("completion progress = %d", st.Recipe.Progress)
			}
			break
		}
	}
	if !completed {
		t.Fatalf("brew never completed; main=%s recipe=%s", h.st.Main.State, h.st.Recipe.Stage)
	}
	for _, stage := range []string{StageFeedPaper, StageGrinding, StagePouring, StageDispense, StageSettling} {
		if !seen[stage] {
			t.Fatalf("stage %s never entered", stage)
		}
	}
	if paperPulses != 1 {
		t.Fatalf("paper consumed %d times", paperPulses)
	}

	st := h.tick(2)
	if got := st.Consumables.Resources[ResBin0].Level; got != 185 {
		t.Fatalf("bin0 after brew = %d, want 185", got)
	}
	if got := st.Consumables.Resources[ResCreamer].Level; got != 170 {
		t.Fatalf("creamer after brew = %d, want 170", got)
	}
	if st.Menu.State != MenuComplete && st.Menu.State != MenuBinSelect {
		t.Fatalf("menu after brew = %s", st.Menu.State)
	}
}

// Bin0 below the empty threshold while black coffee needs 24: confirm must
// be refused with no stage progression and no actuator activity.
func TestMachine_InsufficientStockRejectsConfirm(t *testing.T) {
	h := newMachineHarness(t)
	h.in.Bin0Level = 5
	h.boot()
	h.selectDrink(ResBin0, DrinkBlackCoffee, Size8oz)

	st := h.press("select") // confirm attempt
	if st.Menu.State != MenuConfirm {
		t.Fatalf("confirm must be rejected, menu went to %s", st.Menu.State)
	}
	if st.Recipe.Valid {
		t.Fatalf("recipeValid must be false with bin0=5")
	}

	var none ActuatorRequest
	for i := 0; i < 50; i++ {
		st = h.tick(1)
		if st.Recipe.Stage != StageIdle || st.Recipe.Active {
			t.Fatalf("stage progressed despite invalid recipe: %s", st.Recipe.Stage)
		}
		if st.Recipe.Actuators != none {
			t.Fatalf("actuators requested despite invalid recipe")
		}
	}
	if st.Display.Line1 != "CANNOT BREW     " {
		t.Fatalf("expected insufficient-stock message, got %q", st.Display.Line1)
	}
}

// The start press lands while the boiler sits at standby warmth; BREWING
// must not begin until tempReady holds inside the brew band.
func TestMachine_BrewWaitsForBrewTemperature(t *testing.T) {
	h := newMachineHarness(t)
	h.boot()
	h.selectDrink(ResBin0, DrinkLatte, Size12oz)
	h.press("select") // start while water is at standby temperature

	for i := 0; i < 500; i++ {
		st := h.tick(1)
		if st.Main.State == MainBrewing {
			if !st.Water.TempReady {
				t.Fatalf("BREWING entered without tempReady")
			}
			lo, hi := h.cfg.TargetBrewing-h.cfg.Hysteresis, h.cfg.TargetBrewing+h.cfg.Hysteresis
			if st.Water.CurrentTemp < lo || st.Water.CurrentTemp > hi {
				t.Fatalf("BREWING at %.1fC, outside [%.1f, %.1f]", st.Water.CurrentTemp, lo, hi)
			}
			return
		}
		if st.Recipe.Active {
			t.Fatalf("recipe started before the main FSM permitted it")
		}
	}
	t.Fatalf("never reached BREWING; main=%s water=%s", h.st.Main.State, h.st.Water.State)
}

// Injecting a system fault during BREWING must abort the recipe, force
// EMERGENCY, drop every safe command within one tick, and freeze consumable
// levels.
func TestMachine_SystemFaultMidBrewAbortsAndFreezes(t *testing.T) {
	h := newMachineHarness(t)
	h.boot()
	h.selectDrink(ResBin0, DrinkLatte, Size12oz)
	h.press("select")

	// run until the grinder is actually turning
	grinding := false
	for i := 0; i < 500; i++ {
		if h.tick(1).Recipe.Stage == StageGrinding {
			grinding = true
			break
		}
	}
	if !grinding {
		t.Fatalf("never reached GRINDING")
	}

	// let the grind-entry consumption land before injecting the fault
	h.tick(2)
	levelsBefore := h.st.Consumables.Resources
	h.in.SystemFault = true

	st := h.tick(1)
	if !st.Recipe.AbortPulse && st.Recipe.Active {
		t.Fatalf("recipe did not abort on system fault: %+v", st.Recipe)
	}
	if st.Main.State != MainEmergency {
		t.Fatalf("main FSM = %s, want EMERGENCY", st.Main.State)
	}

	var none ActuatorRequest
	st = h.tick(1) // registered outputs lag one tick
	if st.Interlock.Safe != none {
		t.Fatalf("safe commands still asserted: %v", st.Interlock.Safe)
	}

	for i := 0; i < 20; i++ {
		st = h.tick(1)
		if st.Interlock.Safe != none {
			t.Fatalf("safe command re-asserted under fault")
		}
	}
	for r := Resource(0); r < ResourceCount; r++ {
		if st.Consumables.Resources[r].Level != levelsBefore[r].Level {
			t.Fatalf("%s level changed after fault: %d -> %d",
				r, levelsBefore[r].Level, st.Consumables.Resources[r].Level)
		}
	}
}

// TestMachine_EmergencyStopGatesActuatorsUntilCleared exercises the
// level-sensitive override end to end.
func TestMachine_EmergencyStopGatesActuatorsUntilCleared(t *testing.T) {
	h := newMachineHarness(t)
	h.boot()

	h.in.EmergencyStop = true
	var none ActuatorRequest
	var st Status
	for i := 0; i < 30; i++ {
		st = h.tick(1)
		if i > 1 && st.Interlock.Safe != none {
			t.Fatalf("safe command asserted under emergency stop")
		}
	}
	if st.Main.State != MainEmergency {
		t.Fatalf("main FSM = %s, want EMERGENCY", st.Main.State)
	}
}

func TestMachine_ServiceTimerAccumulatesAndResets(t *testing.T) {
	h := newMachineHarness(t)
	h.m.SeedServiceSeconds(3600 * 5)
	st := h.tick(1)
	if st.Service.Hours != 5 {
		t.Fatalf("seeded service timer hours = %d, want 5", st.Service.Hours)
	}
	h.tick(h.cfg.TicksPerSecond * 61)
	if got := h.m.service.TotalSeconds(); got < 3600*5+60 {
		t.Fatalf("service timer did not accumulate: %d", got)
	}
	h.m.ResetServiceTimer()
	st = h.tick(1)
	if st.Service.Hours != 0 || st.Service.Minutes != 0 {
		t.Fatalf("service timer not reset: %+v", st.Service)
	}
}

func TestMachine_DisplayPulsesOnChange(t *testing.T) {
	h := newMachineHarness(t)
	h.boot()
	st := h.tick(1)
	st = h.tick(1)
	if st.Display.Updated {
		t.Fatalf("display pulsed without content change")
	}
	st = h.press("select") // navigate: content changes
	if len(st.Display.Line1) != DisplayWidth || len(st.Display.Line2) != DisplayWidth {
		t.Fatalf("display lines must be fixed width: %q %q", st.Display.Line1, st.Display.Line2)
	}
}
