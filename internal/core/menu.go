package core

// Menu states.
const (
	MenuSplash       = "SPLASH"
	MenuErrorReview  = "ERROR_REVIEW"
	MenuBinSelect    = "BIN_SELECT"
	MenuDrinkSelect  = "DRINK_SELECT"
	MenuSizeSelect   = "SIZE_SELECT"
	MenuConfirm      = "CONFIRM"
	MenuBrewing      = "BREWING"
	MenuAbortConfirm = "ABORT_CONFIRM"
	MenuComplete     = "COMPLETE"
	MenuError        = "ERROR"
	MenuMaintenance  = "MAINTENANCE"
)

// Maintenance sub-menu options.
const (
	MaintServiceReset = iota
	MaintManualCheck
	MaintExit

	maintOptionCount
)

// Selection is the user-adjustable choice; left/right wrap at the bounds.
type Selection struct {
	Bin               Resource
	Drink             DrinkType
	Size              Size
	MaintenanceOption int
}

// MenuStatus is the menu navigator's published output.
type MenuStatus struct {
	State     string
	Selection Selection

	StartPulse        bool // exactly on the confirm->brewing edge
	AbortPulse        bool // user confirmed abort
	Maintenance       bool // level: maintenance sub-menu active
	ManualCheckPulse  bool
	ServiceResetPulse bool
	Refresh           bool // display refresh on any state change
}

// MenuNavigator turns debounced button levels into selections and commands.
type MenuNavigator struct {
	state string
	sel   Selection

	prevLeft, prevRight, prevSelect, prevCancel bool

	splashTimer   int
	completeTimer int
	comboHold     int
	sawBrewActive bool
}

func NewMenuNavigator(cfg *Config) *MenuNavigator {
	return &MenuNavigator{
		state:       MenuSplash,
		splashTimer: cfg.SplashTicks,
	}
}

func wrap(v, delta, n int) int {
	v += delta
	if v < 0 {
		return n - 1
	}
	if v >= n {
		return 0
	}
	return v
}

// step applies left/right wrap-around to the selection field active in the
// current state.
func (m *MenuNavigator) step(delta int) {
	switch m.state {
	case MenuBinSelect:
		m.sel.Bin = Resource(wrap(int(m.sel.Bin), delta, 2))
	case MenuDrinkSelect:
		m.sel.Drink = DrinkType(wrap(int(m.sel.Drink), delta, int(DrinkCount)))
	case MenuSizeSelect:
		m.sel.Size = Size(wrap(int(m.sel.Size), delta, int(SizeCount)))
	case MenuMaintenance:
		m.sel.MaintenanceOption = wrap(m.sel.MaintenanceOption, delta, maintOptionCount)
	}
}

// Update advances the navigator one tick.
func (m *MenuNavigator) Update(cfg *Config, s Snapshot) MenuStatus {
	left := s.In.Left && !m.prevLeft
	right := s.In.Right && !m.prevRight
	sel := s.In.Select && !m.prevSelect
	cancel := s.In.Cancel && !m.prevCancel
	m.prevLeft, m.prevRight = s.In.Left, s.In.Right
	m.prevSelect, m.prevCancel = s.In.Select, s.In.Cancel

	prev := m.state
	out := MenuStatus{}

	// Hidden maintenance entry: both arrows held for the full window, only
	// from the selection states.
	if s.In.Left && s.In.Right && m.navigable() {
		m.comboHold++
		if m.comboHold >= cfg.MaintenanceHoldTicks {
			m.comboHold = 0
			m.sel.MaintenanceOption = 0
			m.state = MenuMaintenance
		}
	} else {
		m.comboHold = 0
	}

	// A latched critical error interrupts navigation (never an active brew;
	// the brewing states keep control so the user sees the abort flow).
	if s.Faults.CriticalError && m.navigable() {
		m.state = MenuError
	}

	switch m.state {
	case MenuSplash:
		if m.splashTimer > 0 {
			m.splashTimer--
		} else if s.Faults.ErrorPresent {
			m.state = MenuErrorReview
		} else {
			m.state = MenuBinSelect
		}

	case MenuErrorReview:
		if sel || cancel {
			m.state = MenuBinSelect
		}

	case MenuBinSelect:
		switch {
		case left:
			m.step(-1)
		case right:
			m.step(+1)
		case sel:
			m.state = MenuDrinkSelect
		case cancel && s.Faults.ErrorPresent:
			m.state = MenuErrorReview
		}

	case MenuDrinkSelect:
		switch {
		case left:
			m.step(-1)
		case right:
			m.step(+1)
		case sel:
			m.state = MenuSizeSelect
		case cancel:
			m.state = MenuBinSelect
		}

	case MenuSizeSelect:
		switch {
		case left:
			m.step(-1)
		case right:
			m.step(+1)
		case sel:
			m.state = MenuConfirm
		case cancel:
			m.state = MenuDrinkSelect
		}

	case MenuConfirm:
		switch {
		case sel && s.Recipe.Valid:
			m.state = MenuBrewing
			m.sawBrewActive = false
			out.StartPulse = true
		case sel:
			// insufficient stock: stay, display shows the reason
		case cancel:
			m.state = MenuSizeSelect
		}

	case MenuBrewing:
		if s.Recipe.Active {
			m.sawBrewActive = true
		}
		switch {
		case cancel:
			m.state = MenuAbortConfirm
		case m.sawBrewActive && s.Recipe.CompletePulse:
			m.state = MenuComplete
			m.completeTimer = cfg.CompleteDwellTicks
		case m.sawBrewActive && s.Recipe.AbortPulse:
			m.state = MenuError
		}

	case MenuAbortConfirm:
		switch {
		case sel:
			out.AbortPulse = true
			m.state = MenuBinSelect
		case cancel:
			m.state = MenuBrewing
		case s.Recipe.CompletePulse:
			// brew finished while the user hesitated
			m.state = MenuComplete
			m.completeTimer = cfg.CompleteDwellTicks
		}

	case MenuComplete:
		if m.completeTimer > 0 {
			m.completeTimer--
		}
		if sel || cancel || m.completeTimer == 0 {
			m.state = MenuBinSelect
		}

	case MenuError:
		if !s.Faults.CriticalError && (sel || cancel) {
			m.state = MenuBinSelect
		}

	case MenuMaintenance:
		out.Maintenance = true
		switch {
		case left:
			m.step(-1)
		case right:
			m.step(+1)
		case sel:
			switch m.sel.MaintenanceOption {
			case MaintServiceReset:
				out.ServiceResetPulse = true
			case MaintManualCheck:
				out.ManualCheckPulse = true
			case MaintExit:
				m.state = MenuBinSelect
			}
		case cancel:
			m.state = MenuBinSelect
		}
	}

	if m.state != MenuMaintenance {
		out.Maintenance = false
	}
	out.State = m.state
	out.Selection = m.sel
	out.Refresh = m.state != prev
	return out
}

// navigable reports whether the menu is in a selection state where global
// interrupts (errors, maintenance combo) may take over.
func (m *MenuNavigator) navigable() bool {
	switch m.state {
	case MenuBinSelect, MenuDrinkSelect, MenuSizeSelect, MenuConfirm:
		return true
	}
	return false
}
