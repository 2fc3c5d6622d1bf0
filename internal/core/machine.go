// Package core implements the brewer's control logic as a network of
// coupled state machines advanced in fixed discrete time steps. Every
// component updates once per tick from the same previous-tick snapshot
// (two-phase update), so no component ever observes another's same-tick
// output and every signal propagates with exactly one tick of delay. The
// package is pure: no wall clock, no I/O, no goroutines — the service layer
// decides how fast ticks run and what to do with the published status.
package core

// Status is the full published view of the machine after a tick.
type Status struct {
	Tick uint64

	Consumables ConsumableStatus
	Water       WaterStatus
	Faults      FaultStatus
	Recipe      RecipeStatus
	Menu        MenuStatus
	Interlock   InterlockStatus
	Main        MainStatus
	Display     DisplayStatus
	Service     ServiceTimerStatus
}

// Machine composes all control components behind a single Tick entry point.
type Machine struct {
	cfg Config

	consumables *ConsumableManager
	water       *WaterTempController
	faults      *FaultMonitor
	recipe      *RecipeEngine
	menu        *MenuNavigator
	interlock   *ActuatorInterlock
	main        *MainController
	service     *ServiceTimer

	snap     Snapshot
	tick     uint64
	prevLine1 string
	prevLine2 string
}

// NewMachine builds a machine with the given tuning.
func NewMachine(cfg Config) *Machine {
	return &Machine{
		cfg:         cfg,
		consumables: NewConsumableManager(),
		water:       NewWaterTempController(&cfg),
		faults:      NewFaultMonitor(),
		recipe:      NewRecipeEngine(),
		menu:        NewMenuNavigator(&cfg),
		interlock:   NewActuatorInterlock(),
		main:        NewMainController(),
		service:     NewServiceTimer(),
	}
}

// Config returns the machine's tuning.
func (m *Machine) Config() Config { return m.cfg }

// SeedStock restores persisted hopper levels and paper count.
func (m *Machine) SeedStock(levels [ResourceCount]uint8, paper uint8) {
	m.consumables.Seed(levels, paper)
}

// SeedServiceSeconds restores the persisted service counter.
func (m *Machine) SeedServiceSeconds(seconds int) {
	m.service.Seed(seconds)
}

// ResetServiceTimer is the explicit maintenance reset.
func (m *Machine) ResetServiceTimer() {
	m.service.Reset()
}

// ServiceSeconds reports the raw since-service counter for persistence.
func (m *Machine) ServiceSeconds() int {
	return m.service.TotalSeconds()
}

// Tick advances the whole machine by one control cycle. Components are
// updated in a fixed order — consumables, water, faults, menu, main,
// recipe, interlock — but each reads only the previous-tick snapshot, so
// the order does not change semantics.
func (m *Machine) Tick(in Inputs) Status {
	s := m.snap
	s.Tick = m.tick
	s.In = in

	cons := m.consumables.Update(&m.cfg, s)
	water := m.water.Update(&m.cfg, s)
	faults := m.faults.Update(&m.cfg, s)
	menu := m.menu.Update(&m.cfg, s)
	main := m.main.Update(&m.cfg, s)
	recipe := m.recipe.Update(&m.cfg, s)
	il := m.interlock.Update(&m.cfg, s)

	if menu.ServiceResetPulse {
		m.service.Reset()
	}
	svc := m.service.Update(&m.cfg)

	// Commit phase: everything computed this tick becomes next tick's
	// snapshot.
	m.snap = Snapshot{
		In:          in,
		Consumables: cons,
		Water:       water,
		Faults:      faults,
		Menu:        menu,
		Main:        main,
		Recipe:      recipe,
		Interlock:   il,
	}

	dispSnap := m.snap
	dispSnap.Tick = m.tick
	line1, line2 := composeDisplay(&m.cfg, dispSnap)
	disp := DisplayStatus{
		Line1:   line1,
		Line2:   line2,
		Updated: line1 != m.prevLine1 || line2 != m.prevLine2,
	}
	m.prevLine1, m.prevLine2 = line1, line2

	m.tick++
	return Status{
		Tick:        m.tick,
		Consumables: cons,
		Water:       water,
		Faults:      faults,
		Recipe:      recipe,
		Menu:        menu,
		Interlock:   il,
		Main:        main,
		Display:     disp,
		Service:     svc,
	}
}
