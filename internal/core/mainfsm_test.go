package core

import "testing"

func runMain(c *MainController, cfg *Config, s Snapshot, ticks int) MainStatus {
	var st MainStatus
	for i := 0; i < ticks; i++ {
		st = c.Update(cfg, s)
	}
	return st
}

func TestMainController_BootReachesIdleWhenClean(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	st := runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5)
	if st.State != MainIdle {
		t.Fatalf("expected IDLE after clean boot, got %s", st.State)
	}
	if !st.HeatingEnable || st.TargetMode != TargetStandby {
		t.Fatalf("idle must keep standby warmth: %+v", st)
	}
}

func TestMainController_BootHoldsInErrorCycleWhileFaulted(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	var s Snapshot
	s.Faults.ErrorPresent = true
	st := runMain(c, &cfg, s, cfg.SplashTicks+10)
	if st.State != MainErrorCycle || !st.ErrorCycleEnable {
		t.Fatalf("boot with errors must hold ERROR_CYCLE: %+v", st)
	}
	s.Faults.ErrorPresent = false
	st = runMain(c, &cfg, s, 2)
	if st.State != MainIdle {
		t.Fatalf("cleared errors must release to IDLE, got %s", st.State)
	}
}

func TestMainController_StartLatchedThroughHeating(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5) // IDLE

	// Start pressed while the water is still cold.
	var s Snapshot
	s.Menu.StartPulse = true
	st := c.Update(&cfg, s)
	if st.State != MainHeating {
		t.Fatalf("start must move IDLE->HEATING, got %s", st.State)
	}

	// Not ready yet: must wait, not brew.
	s = Snapshot{}
	s.Menu.Selection.Drink = DrinkLatte
	s.Recipe.Valid = true
	st = runMain(c, &cfg, s, 10)
	if st.State != MainHeating {
		t.Fatalf("must hold HEATING until waterSystemOk, got %s", st.State)
	}
	if st.TargetMode != TargetBrewing {
		t.Fatalf("heating target must be the brew setpoint")
	}

	// Water ready at the brew setpoint: READY then BREWING with the start
	// held.
	s.Water.SystemOK = true
	s.Water.TargetTemp = cfg.TargetBrewing
	st = runMain(c, &cfg, s, 2)
	if st.State != MainBrewing || !st.StartBrew {
		t.Fatalf("expected BREWING with held start, got %+v", st)
	}

	// Recipe acknowledges: held start clears.
	s.Recipe.Active = true
	st = c.Update(&cfg, s)
	if st.StartBrew {
		t.Fatalf("start must clear once the engine acknowledges")
	}
}

func TestMainController_StaleStandbyReadinessDoesNotStartBrew(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5) // IDLE

	// While idling the boiler sits at-temp on standby warmth, so the first
	// heating ticks see readiness computed against the standby setpoint.
	var s Snapshot
	s.Menu.StartPulse = true
	s.Recipe.Valid = true
	s.Water.SystemOK = true
	s.Water.TargetTemp = cfg.TargetStandby
	st := runMain(c, &cfg, s, 5)
	if st.State != MainHeating {
		t.Fatalf("standby readiness must not open the brew gate, got %s", st.State)
	}

	s.Water.TargetTemp = cfg.TargetBrewing
	st = runMain(c, &cfg, s, 2)
	if st.State != MainBrewing || !st.StartBrew {
		t.Fatalf("expected BREWING once ready at the brew setpoint, got %+v", st)
	}
}

func TestMainController_AbnormalBrewExitIssuesAbort(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5)

	var s Snapshot
	s.Menu.StartPulse = true
	s.Recipe.Valid = true
	s.Water.SystemOK = true
	s.Water.TargetTemp = cfg.TargetBrewing
	runMain(c, &cfg, s, 4) // into BREWING

	s = Snapshot{}
	s.Recipe.Valid = true
	s.Recipe.Active = true
	c.Update(&cfg, s)

	s.Menu.AbortPulse = true
	st := c.Update(&cfg, s)
	if !st.AbortPulse || st.State != MainCooldown {
		t.Fatalf("user abort must pulse abort and quarantine: %+v", st)
	}

	st = runMain(c, &cfg, Snapshot{}, cfg.CooldownTicks+2)
	if st.State != MainIdle {
		t.Fatalf("cooldown must drain back to IDLE, got %s", st.State)
	}
}

func TestMainController_CompletionPathNoAbort(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5)

	var s Snapshot
	s.Menu.StartPulse = true
	s.Recipe.Valid = true
	s.Water.SystemOK = true
	s.Water.TargetTemp = cfg.TargetBrewing
	runMain(c, &cfg, s, 4) // BREWING

	s = Snapshot{}
	s.Recipe.Active = true
	s.Recipe.Valid = true
	c.Update(&cfg, s)

	s.Recipe.Active = false
	s.Recipe.CompletePulse = true
	st := c.Update(&cfg, s)
	if st.AbortPulse {
		t.Fatalf("normal completion must not abort")
	}
	if st.State != MainComplete {
		t.Fatalf("expected COMPLETE, got %s", st.State)
	}
}

func TestMainController_SystemFaultForcesEmergency(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5)

	var s Snapshot
	s.In.SystemFault = true
	st := c.Update(&cfg, s)
	if st.State != MainEmergency {
		t.Fatalf("raw system fault must force EMERGENCY, got %s", st.State)
	}
	if st.HeatingEnable {
		t.Fatalf("emergency must drop heating enable")
	}

	// Recovery waits out the retry window after the fault clears.
	st = runMain(c, &cfg, Snapshot{}, cfg.RetryTicks/2)
	if st.State != MainEmergency {
		t.Fatalf("retry window not honored, got %s", st.State)
	}
	st = runMain(c, &cfg, Snapshot{}, cfg.RetryTicks)
	if st.State != MainErrorCycle && st.State != MainIdle {
		t.Fatalf("expected release after retry window, got %s", st.State)
	}
}

func TestMainController_MaintenanceFollowsMenuLevel(t *testing.T) {
	cfg := DefaultConfig()
	c := NewMainController()
	runMain(c, &cfg, Snapshot{}, cfg.SplashTicks+5)

	var s Snapshot
	s.Menu.Maintenance = true
	st := c.Update(&cfg, s)
	if st.State != MainMaint {
		t.Fatalf("expected MAINTENANCE, got %s", st.State)
	}
	st = c.Update(&cfg, Snapshot{})
	if st.State != MainIdle {
		t.Fatalf("maintenance exit must return to IDLE, got %s", st.State)
	}
}
