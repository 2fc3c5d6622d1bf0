package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coffee_machine/internal/core"
	"coffee_machine/internal/models"
	"coffee_machine/internal/repository"
)

// Panel button names accepted over the API. "both" holds the two arrow
// buttons together long enough to cross the hidden maintenance window.
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonSelect = "select"
	ButtonCancel = "cancel"
	ButtonBoth   = "both"
)

// Default simulated sensor image for a machine with no persisted status.
const (
	defaultHopperLevel = 200
)

var (
	errPoweredOff    = errors.New("machine is powered off")
	errUnknownButton = errors.New("unknown button: must be left, right, select, cancel, or both")
)

// ControllerService owns the control core and the simulated sensor image.
// Operator commands mutate the image under the lock; the Run loop feeds it
// to the core one tick at a time and journals the resulting edges.
type ControllerService struct {
	statusRepo repository.StatusRepo
	eventRepo  repository.EventRepo

	mu      sync.Mutex
	powered bool
	machine *core.Machine
	in      core.Inputs
	queue   []heldPress
	gap     bool // one released tick between queued presses

	prev core.Status
	last models.MachineStatus // last persisted image, UpdatedAt excluded
}

func NewControllerService(statusRepo repository.StatusRepo, eventRepo repository.EventRepo) *ControllerService {
	return &ControllerService{
		statusRepo: statusRepo,
		eventRepo:  eventRepo,
	}
}

// PowerOn boots the control core, seeding stock and the service counter from
// the persisted status so the machine resumes where it left off. A second
// power-on while running is a no-op.
func (c *ControllerService) PowerOn(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.powered {
		return nil
	}

	persisted, err := c.statusRepo.Load(ctx)
	if err != nil {
		return err
	}

	c.machine = core.NewMachine(core.DefaultConfig())
	c.in = core.Inputs{
		Bin0Level:      defaultHopperLevel,
		Bin1Level:      defaultHopperLevel,
		CreamerLevel:   defaultHopperLevel,
		ChocolateLevel: defaultHopperLevel,
		PaperPresent:   true,
		WaterPresent:   true,
		PressureOK:     true,
	}
	if persisted.ID != 0 {
		levels := [core.ResourceCount]uint8{
			core.ResBin0:      persisted.Bin0Level,
			core.ResBin1:      persisted.Bin1Level,
			core.ResCreamer:   persisted.CreamerLevel,
			core.ResChocolate: persisted.ChocolateLevel,
		}
		c.machine.SeedStock(levels, persisted.PaperCount)
		c.machine.SeedServiceSeconds(int(persisted.ServiceSeconds))
		// keep the simulated sensors in step with the seeded stock so the
		// post-boot sensor adoption does not overwrite it
		c.in.Bin0Level = persisted.Bin0Level
		c.in.Bin1Level = persisted.Bin1Level
		c.in.CreamerLevel = persisted.CreamerLevel
		c.in.ChocolateLevel = persisted.ChocolateLevel
		c.in.PaperPresent = persisted.PaperCount > 0
	}

	c.queue = nil
	c.gap = false
	c.prev = core.Status{}
	c.powered = true
	c.last = models.MachineStatus{}

	if err := c.eventRepo.Append(ctx, models.BrewEvent{
		Type:        models.EventPowerOn,
		Description: "Machine powered on",
	}); err != nil {
		return err
	}
	return nil
}

// PowerOff halts the tick loop's work and persists the final status so stock
// and service counters survive the restart.
func (c *ControllerService) PowerOff(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.powered {
		return nil
	}
	c.powered = false

	final := c.statusFromCore(c.prev)
	final.PowerOn = false
	final.UpdatedAt = time.Now().UTC()
	if err := c.statusRepo.Save(ctx, final); err != nil {
		return err
	}
	c.last = final

	return c.eventRepo.Append(ctx, models.BrewEvent{
		Type:        models.EventPowerOff,
		Description: "Machine powered off",
	})
}

// heldPress is a queued panel press with the number of ticks it stays down.
type heldPress struct {
	button string
	ticks  int
}

// PressButton queues one press-and-release of a panel button. Presses are
// applied one at a time with a released tick in between so every press lands
// as a clean edge; "both" stays down for the full maintenance hold window.
func (c *ControllerService) PressButton(ctx context.Context, button string) error {
	switch button {
	case ButtonLeft, ButtonRight, ButtonSelect, ButtonCancel, ButtonBoth:
	default:
		return fmt.Errorf("%w (got %q)", errUnknownButton, button)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.powered {
		return errPoweredOff
	}
	ticks := 1
	if button == ButtonBoth {
		ticks = c.machine.Config().MaintenanceHoldTicks + 1
	}
	c.queue = append(c.queue, heldPress{button: button, ticks: ticks})
	return nil
}

// Refill overrides the simulated supply sensors; the stock manager adopts
// the changed readings once its stabilization window allows.
func (c *ControllerService) Refill(ctx context.Context, p RefillParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Bin0 != nil {
		c.in.Bin0Level = *p.Bin0
	}
	if p.Bin1 != nil {
		c.in.Bin1Level = *p.Bin1
	}
	if p.Creamer != nil {
		c.in.CreamerLevel = *p.Creamer
	}
	if p.Chocolate != nil {
		c.in.ChocolateLevel = *p.Chocolate
	}
	if p.Paper != nil {
		c.in.PaperPresent = *p.Paper
	}
	return nil
}

// SetPressure drives the simulated pressure sensor.
func (c *ControllerService) SetPressure(ctx context.Context, ok bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.PressureOK = ok
	return nil
}

// SetEmergency drives the level-sensitive emergency stop input.
func (c *ControllerService) SetEmergency(ctx context.Context, engaged bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in.EmergencyStop = engaged
	return nil
}

// ServiceReset zeroes the since-service counter and journals the action.
func (c *ControllerService) ServiceReset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.powered {
		return errPoweredOff
	}
	c.machine.ResetServiceTimer()
	return c.eventRepo.Append(ctx, models.BrewEvent{
		Type:        models.EventServiceReset,
		Description: "Service timer reset",
	})
}

// Run ticks the control core at the given interval until ctx is canceled.
// While powered off the loop idles; state survives in the repository.
func (c *ControllerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			c.step(ctx, now)
		}
	}
}

// step advances the core one tick and persists/journals the outcome.
func (c *ControllerService) step(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.powered {
		return
	}

	in := c.in
	if c.gap {
		c.gap = false
	} else if len(c.queue) > 0 {
		p := &c.queue[0]
		switch p.button {
		case ButtonLeft:
			in.Left = true
		case ButtonRight:
			in.Right = true
		case ButtonSelect:
			in.Select = true
		case ButtonCancel:
			in.Cancel = true
		case ButtonBoth:
			in.Left = true
			in.Right = true
		}
		p.ticks--
		if p.ticks <= 0 {
			c.queue = c.queue[1:]
			c.gap = true
		}
	}

	st := c.machine.Tick(in)
	c.journalEdges(ctx, st, now)
	c.prev = st

	ms := c.statusFromCore(st)
	if !sameStatus(ms, c.last) {
		ms.UpdatedAt = now.UTC()
		if err := c.statusRepo.Save(ctx, ms); err == nil {
			ms.UpdatedAt = time.Time{}
			c.last = ms
		}
	}
}

// journalEdges appends events for the state edges between the previous and
// the current tick.
func (c *ControllerService) journalEdges(ctx context.Context, st core.Status, now time.Time) {
	prev := c.prev

	if st.Recipe.Active && !prev.Recipe.Active {
		_ = c.eventRepo.Append(ctx, models.BrewEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventBrewStarted,
			Description: "Brew started",
			Metadata: map[string]any{
				"drink": st.Menu.Selection.Drink.String(),
				"size":  st.Menu.Selection.Size.String(),
				"bin":   st.Menu.Selection.Bin.String(),
			},
		})
	}
	if st.Recipe.CompletePulse {
		_ = c.eventRepo.Append(ctx, models.BrewEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventBrewComplete,
			Description: "Brew completed",
		})
	}
	if st.Recipe.AbortPulse {
		_ = c.eventRepo.Append(ctx, models.BrewEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventBrewAborted,
			Description: "Brew aborted",
			Metadata:    map[string]any{"stage": prev.Recipe.Stage},
		})
	}
	if st.Faults.ErrorPresent && !prev.Faults.ErrorPresent {
		_ = c.eventRepo.Append(ctx, models.BrewEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventErrorLatched,
			Description: "Error latched",
			Metadata:    map[string]any{"codes": faultCodes(st)},
		})
	}
	if !st.Faults.ErrorPresent && prev.Faults.ErrorPresent {
		_ = c.eventRepo.Append(ctx, models.BrewEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventErrorCleared,
			Description: "All errors cleared",
		})
	}
	if st.Main.State == core.MainEmergency && prev.Main.State != core.MainEmergency {
		_ = c.eventRepo.Append(ctx, models.BrewEvent{
			OccurredAt:  now.UTC(),
			Type:        models.EventEmergency,
			Description: "Emergency state entered",
		})
	}
}

// faultCodes lists the latched fault messages in code order.
func faultCodes(st core.Status) []string {
	var out []string
	for f := core.FaultCode(0); f < core.FaultCount; f++ {
		if st.Faults.Errors[f] {
			out = append(out, f.String())
		}
	}
	return out
}

// statusFromCore maps the core's published status into the persisted model.
func (c *ControllerService) statusFromCore(st core.Status) models.MachineStatus {
	return models.MachineStatus{
		ID:             1,
		PowerOn:        c.powered,
		MainState:      st.Main.State,
		MenuState:      st.Menu.State,
		BrewStage:      st.Recipe.Stage,
		WaterState:     st.Water.State,
		CurrentTempC:   st.Water.CurrentTemp,
		Bin0Level:      st.Consumables.Resources[core.ResBin0].Level,
		Bin1Level:      st.Consumables.Resources[core.ResBin1].Level,
		CreamerLevel:   st.Consumables.Resources[core.ResCreamer].Level,
		ChocolateLevel: st.Consumables.Resources[core.ResChocolate].Level,
		PaperCount:     st.Consumables.PaperCount,
		BrewProgress:   st.Recipe.Progress,
		ServiceSeconds: uint64(c.machine.ServiceSeconds()),
		ErrorCodes:     faultCodes(st),
		DisplayLine1:   st.Display.Line1,
		DisplayLine2:   st.Display.Line2,
	}
}

// sameStatus compares two status images, ignoring the timestamp.
func sameStatus(a, b models.MachineStatus) bool {
	if a.ID != b.ID || a.PowerOn != b.PowerOn ||
		a.MainState != b.MainState || a.MenuState != b.MenuState ||
		a.BrewStage != b.BrewStage || a.WaterState != b.WaterState ||
		a.CurrentTempC != b.CurrentTempC ||
		a.Bin0Level != b.Bin0Level || a.Bin1Level != b.Bin1Level ||
		a.CreamerLevel != b.CreamerLevel || a.ChocolateLevel != b.ChocolateLevel ||
		a.PaperCount != b.PaperCount || a.BrewProgress != b.BrewProgress ||
		a.ServiceSeconds != b.ServiceSeconds ||
		a.DisplayLine1 != b.DisplayLine1 || a.DisplayLine2 != b.DisplayLine2 {
		return false
	}
	if len(a.ErrorCodes) != len(b.ErrorCodes) {
		return false
	}
	for i := range a.ErrorCodes {
		if a.ErrorCodes[i] != b.ErrorCodes[i] {
			return false
		}
	}
	return true
}
