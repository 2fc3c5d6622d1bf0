package core

// Main FSM states.
const (
	MainInit       = "INIT"
	MainSplash     = "SPLASH"
	MainErrorCycle = "ERROR_CYCLE"
	MainIdle       = "IDLE"
	MainHeating    = "HEATING"
	MainReady      = "READY"
	MainBrewing    = "BREWING"
	MainComplete   = "COMPLETE"
	MainCooldown   = "COOLDOWN"
	MainEmergency  = "EMERGENCY"
	MainMaint      = "MAINTENANCE"
)

// MainStatus is the top-level orchestrator's published output.
type MainStatus struct {
	State string

	HeatingEnable bool
	TargetMode    TargetMode
	// StartBrew is held, not pulsed: it stays asserted from entering
	// BREWING until the recipe engine acknowledges by reporting an active
	// brew, so a missed one-tick pulse cannot strand the machine.
	StartBrew        bool
	AbortPulse       bool
	ErrorCycleEnable bool
}

// MainController composes the machine lifecycle across all components.
type MainController struct {
	state        string
	timer        int
	pendingStart bool
	startHeld    bool
}

func NewMainController() *MainController {
	return &MainController{state: MainInit}
}

// Update advances the orchestrator one tick.
func (c *MainController) Update(cfg *Config, s Snapshot) MainStatus {
	var out MainStatus

	// Menu start requests latch until the machine is actually ready, so a
	// press during heat-up is not lost.
	if s.Menu.StartPulse {
		c.pendingStart = true
	}

	// Level-sensitive overrides, honored within one tick. A raw system
	// fault escalates straight to EMERGENCY without waiting for the
	// debounced latch.
	emergency := s.In.EmergencyStop || s.In.SystemFault || s.Faults.Errors[FaultSystem]
	if emergency && c.state != MainInit && c.state != MainEmergency {
		if c.state == MainBrewing {
			out.AbortPulse = true
		}
		c.state = MainEmergency
		c.timer = cfg.RetryTicks
		c.pendingStart = false
		c.startHeld = false
	} else if s.Faults.CriticalError &&
		c.state != MainInit && c.state != MainEmergency && c.state != MainErrorCycle {
		if c.state == MainBrewing {
			out.AbortPulse = true
		}
		c.state = MainErrorCycle
		c.pendingStart = false
		c.startHeld = false
	}

	switch c.state {
	case MainInit:
		c.state = MainSplash
		c.timer = cfg.SplashTicks

	case MainSplash:
		if c.timer > 0 {
			c.timer--
		} else {
			c.state = MainErrorCycle
		}

	case MainErrorCycle:
		out.ErrorCycleEnable = true
		if !s.Faults.ErrorPresent {
			c.state = MainIdle
		}

	case MainIdle:
		if s.Menu.Maintenance {
			c.state = MainMaint
		} else if c.pendingStart {
			c.state = MainHeating
		}

	case MainHeating:
		// The water loop publishes readiness computed against its previous
		// setpoint; while idling it sits at-temp on standby warmth. Accept
		// readiness only once the boiler is chasing the brew setpoint.
		if s.Water.SystemOK && s.Water.TargetTemp >= cfg.TargetBrewing {
			c.state = MainReady
		}

	case MainReady:
		if s.Recipe.Valid {
			c.state = MainBrewing
			c.startHeld = true
		} else {
			// stock changed between confirm and readiness
			c.pendingStart = false
			c.state = MainIdle
		}

	case MainBrewing:
		if s.Recipe.Active {
			c.startHeld = false
			c.pendingStart = false
		}
		switch {
		case s.Recipe.CompletePulse:
			c.state = MainComplete
			c.timer = cfg.CompleteDwellTicks
		case c.startHeld && !s.Recipe.Active && !s.Recipe.Valid:
			// stock vanished before the engine picked the start up
			out.AbortPulse = true
			c.state = MainCooldown
			c.timer = cfg.CooldownTicks
			c.startHeld = false
			c.pendingStart = false
		case s.Menu.AbortPulse:
			out.AbortPulse = true
			c.state = MainCooldown
			c.timer = cfg.CooldownTicks
			c.startHeld = false
			c.pendingStart = false
		case s.Recipe.AbortPulse:
			c.state = MainCooldown
			c.timer = cfg.CooldownTicks
			c.startHeld = false
			c.pendingStart = false
		}

	case MainComplete:
		if c.timer > 0 {
			c.timer--
		} else {
			c.state = MainCooldown
			c.timer = cfg.CooldownTicks
		}

	case MainCooldown:
		if c.timer > 0 {
			c.timer--
		} else {
			c.state = MainIdle
		}

	case MainEmergency:
		if !s.In.EmergencyStop && !s.In.SystemFault && !s.Faults.Errors[FaultSystem] {
			if c.timer > 0 {
				c.timer--
			} else {
				c.state = MainErrorCycle
			}
		} else {
			c.timer = cfg.RetryTicks
		}

	case MainMaint:
		if !s.Menu.Maintenance {
			c.state = MainIdle
		}
	}

	out.State = c.state
	out.StartBrew = c.startHeld
	out.ErrorCycleEnable = out.ErrorCycleEnable || c.state == MainErrorCycle

	// Heater policy: standby warmth while idling, brew setpoint from the
	// moment a start is pending until cooldown ends, nothing at all under
	// emergency or maintenance.
	switch c.state {
	case MainHeating, MainReady, MainBrewing, MainComplete:
		out.HeatingEnable = true
		if s.Menu.Selection.Drink == DrinkEspresso {
			out.TargetMode = TargetExtraHot
		} else {
			out.TargetMode = TargetBrewing
		}
	case MainIdle, MainCooldown:
		out.HeatingEnable = true
		out.TargetMode = TargetStandby
	}

	return out
}
