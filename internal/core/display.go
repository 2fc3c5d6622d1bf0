package core

import "fmt"

// DisplayWidth is the fixed character width of both panel lines.
const DisplayWidth = 16

// DisplayStatus is the composed panel content. Updated pulses for one tick
// whenever either line changed.
type DisplayStatus struct {
	Line1   string
	Line2   string
	Updated bool
}

// pad clips or right-pads a line to the fixed panel width.
func pad(s string) string {
	if len(s) > DisplayWidth {
		return s[:DisplayWidth]
	}
	for len(s) < DisplayWidth {
		s += " "
	}
	return s
}

// activeFaults lists the latched faults in message order.
func activeFaults(f FaultStatus) []FaultCode {
	var out []FaultCode
	for c := FaultCode(0); c < FaultCount; c++ {
		if f.Errors[c] {
			out = append(out, c)
		}
	}
	return out
}

// composeDisplay renders the two panel lines from the published snapshot.
// The fault rotator cycles one numbered message per dwell window while the
// main FSM asserts error-cycle-enable.
func composeDisplay(cfg *Config, s Snapshot) (string, string) {
	if s.Main.ErrorCycleEnable {
		faults := activeFaults(s.Faults)
		if len(faults) > 0 {
			idx := int(s.Tick/uint64(cfg.ErrorCycleTicks)) % len(faults)
			return pad("CHECK MACHINE"), pad(faults[idx].String())
		}
	}

	switch s.Main.State {
	case MainInit, MainSplash:
		return pad("COFFEE TIME"), pad("PLEASE WAIT")
	case MainEmergency:
		return pad("EMERGENCY STOP"), pad("CLEAR TO RESUME")
	case MainMaint:
		return pad("MAINTENANCE"), pad(maintOptionLabel(s.Menu.Selection.MaintenanceOption))
	}

	switch s.Menu.State {
	case MenuErrorReview, MenuError:
		faults := activeFaults(s.Faults)
		if len(faults) > 0 {
			return pad(fmt.Sprintf("ERRORS: %d", len(faults))), pad(faults[0].String())
		}
		return pad("ERRORS CLEARED"), pad("PRESS SELECT")
	case MenuBinSelect:
		return pad("SELECT BIN"), pad(fmt.Sprintf("< BIN %d >", int(s.Menu.Selection.Bin)))
	case MenuDrinkSelect:
		return pad("SELECT DRINK"), pad("< " + s.Menu.Selection.Drink.String() + " >")
	case MenuSizeSelect:
		return pad("SELECT SIZE"), pad("< " + s.Menu.Selection.Size.String() + " >")
	case MenuConfirm:
		if !s.Recipe.Valid {
			return pad("CANNOT BREW"), pad("REFILL SUPPLIES")
		}
		return pad(s.Menu.Selection.Drink.String()), pad("OK TO START?")
	case MenuBrewing:
		return pad(s.Recipe.Stage), pad(fmt.Sprintf("%3d%% %5.1fC", s.Recipe.Progress, s.Water.CurrentTemp))
	case MenuAbortConfirm:
		return pad("ABORT BREW?"), pad("SEL=YES CAN=NO")
	case MenuComplete:
		return pad("ENJOY!"), pad("DRINK READY")
	}
	return pad("COFFEE TIME"), pad(fmt.Sprintf("%5.1fC", s.Water.CurrentTemp))
}

func maintOptionLabel(opt int) string {
	switch opt {
	case MaintServiceReset:
		return "< SVC RESET >"
	case MaintManualCheck:
		return "< SELF CHECK >"
	case MaintExit:
		return "< EXIT >"
	}
	return ""
}
