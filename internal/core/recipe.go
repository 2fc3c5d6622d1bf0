package core

// DrinkType enumerates the drink catalog.
type DrinkType int

const (
	DrinkEspresso DrinkType = iota
	DrinkBlackCoffee
	DrinkLatte
	DrinkCappuccino
	DrinkHotChocolate

	DrinkCount
)

// String returns the menu name of the drink.
func (d DrinkType) String() string {
	switch d {
	case DrinkEspresso:
		return "ESPRESSO"
	case DrinkBlackCoffee:
		return "BLACK COFFEE"
	case DrinkLatte:
		return "LATTE"
	case DrinkCappuccino:
		return "CAPPUCCINO"
	case DrinkHotChocolate:
		return "HOT CHOC"
	}
	return "UNKNOWN"
}

// Size enumerates the cup sizes.
type Size int

const (
	Size8oz Size = iota
	Size12oz
	Size16oz

	SizeCount
)

func (s Size) String() string {
	switch s {
	case Size8oz:
		return "8OZ"
	case Size12oz:
		return "12OZ"
	case Size16oz:
		return "16OZ"
	}
	return "?"
}

// Recipe holds ingredient amounts for one drink at 8oz.
type Recipe struct {
	Coffee    uint8
	Creamer   uint8
	Chocolate uint8
	Water     uint8
}

// catalog is the static drink table; scaled by size, never mutated.
var catalog = [DrinkCount]Recipe{
	DrinkEspresso:     {Coffee: 18, Creamer: 0, Chocolate: 0, Water: 30},
	DrinkBlackCoffee:  {Coffee: 24, Creamer: 0, Chocolate: 0, Water: 120},
	DrinkLatte:        {Coffee: 10, Creamer: 20, Chocolate: 0, Water: 60},
	DrinkCappuccino:   {Coffee: 12, Creamer: 15, Chocolate: 5, Water: 50},
	DrinkHotChocolate: {Coffee: 0, Creamer: 10, Chocolate: 30, Water: 80},
}

// size multipliers as halves: 8oz = 2/2, 12oz = 3/2, 16oz = 4/2.
var sizeNumerator = [SizeCount]int{2, 3, 4}

func scaleAmount(base uint8, sz Size) uint8 {
	v := int(base) * sizeNumerator[sz] / 2
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// ScaledRecipe returns the ingredient amounts for a drink at a size.
func ScaledRecipe(d DrinkType, sz Size) Recipe {
	base := catalog[d]
	return Recipe{
		Coffee:    scaleAmount(base.Coffee, sz),
		Creamer:   scaleAmount(base.Creamer, sz),
		Chocolate: scaleAmount(base.Chocolate, sz),
		Water:     scaleAmount(base.Water, sz),
	}
}

// Brew stages.
const (
	StageIdle      = "IDLE"
	StageValidate  = "VALIDATE"
	StageFeedPaper = "FEED_PAPER"
	StageGrinding  = "GRINDING"
	StagePouring   = "POURING"
	StageDispense  = "DISPENSING"
	StageSettling  = "SETTLING"
	StageComplete  = "COMPLETE"
	StageAbort     = "ABORT"
)

// RecipeStatus is the recipe engine's published output. Consume and the
// pulses are valid for exactly one tick.
type RecipeStatus struct {
	Stage         string
	Active        bool
	CompletePulse bool
	AbortPulse    bool
	Progress      int
	Valid         bool
	Consume       ConsumeRequest
	Actuators     ActuatorRequest
}

// brewJob is the transient state of one validated brew attempt. At most one
// exists at a time.
type brewJob struct {
	bin    Resource
	drink  DrinkType
	size   Size
	rec    Recipe
	stage  string
	timer  int
	elapsed int
	total  int

	// one-shot consumption guards, per owning stage
	paperDone    bool
	coffeeDone   bool
	dispenseDone bool
}

// RecipeEngine sequences brew stages and triggers ingredient consumption
// exactly once per owning stage.
type RecipeEngine struct {
	job *brewJob
}

func NewRecipeEngine() *RecipeEngine {
	return &RecipeEngine{}
}

// recipeValid checks the selection against current stock: enough coffee in
// the selected bin, enough creamer and chocolate, and paper present. The
// infinite sentinel level satisfies any amount.
func recipeValid(sel Selection, c ConsumableStatus) bool {
	rec := ScaledRecipe(sel.Drink, sel.Size)
	if rec.Coffee > 0 && c.Resources[sel.Bin].Level < rec.Coffee {
		return false
	}
	if rec.Creamer > 0 && c.Resources[ResCreamer].Level < rec.Creamer {
		return false
	}
	if rec.Chocolate > 0 && c.Resources[ResChocolate].Level < rec.Chocolate {
		return false
	}
	return c.PaperPresent
}

// stagePlan returns the ordered stages the job actually requires, skipping
// stages whose required amount is zero, with their durations.
func (j *brewJob) stagePlan(cfg *Config) ([]string, []int) {
	stages := []string{StageValidate, StageFeedPaper}
	ticks := []int{cfg.ValidateTicks, cfg.FeedPaperTicks}
	if j.rec.Coffee > 0 {
		stages = append(stages, StageGrinding)
		ticks = append(ticks, cfg.GrindTicks)
	}
	stages = append(stages, StagePouring)
	ticks = append(ticks, cfg.PourTicks)
	if j.rec.Creamer > 0 || j.rec.Chocolate > 0 {
		stages = append(stages, StageDispense)
		ticks = append(ticks, cfg.DispenseTicks)
	}
	stages = append(stages, StageSettling)
	ticks = append(ticks, cfg.SettleTicks)
	return stages, ticks
}

func (j *brewJob) nextStage(cfg *Config) (string, int) {
	stages, ticks := j.stagePlan(cfg)
	for i, st := range stages {
		if st == j.stage {
			if i+1 < len(stages) {
				return stages[i+1], ticks[i+1]
			}
			return StageComplete, 0
		}
	}
	return stages[0], ticks[0]
}

// enterStage switches the job to a stage and fires that stage's one-shot
// consumption if it has not fired for this job yet. Re-entering a stage on a
// spurious re-trigger cannot double-consume.
func (j *brewJob) enterStage(stage string, timer int, out *RecipeStatus) {
	j.stage = stage
	j.timer = timer
	switch stage {
	case StageFeedPaper:
		if !j.paperDone {
			j.paperDone = true
			out.Consume.Paper = true
		}
	case StageGrinding:
		if !j.coffeeDone {
			j.coffeeDone = true
			out.Consume.Amounts[j.bin] = j.rec.Coffee
		}
	case StageDispense:
		if !j.dispenseDone {
			j.dispenseDone = true
			out.Consume.Amounts[ResCreamer] = j.rec.Creamer
			out.Consume.Amounts[ResChocolate] = j.rec.Chocolate
		}
	}
}

func (j *brewJob) actuators(out *RecipeStatus) {
	switch j.stage {
	case StageFeedPaper:
		out.Actuators[ActPaperMotor] = true
	case StageGrinding:
		if j.bin == ResBin1 {
			out.Actuators[ActGrinder1] = true
		} else {
			out.Actuators[ActGrinder0] = true
		}
	case StagePouring:
		out.Actuators[ActPourValve] = true
	case StageDispense:
		out.Actuators[ActDirectValve] = true
	}
}

// Update advances the sequencer one tick.
func (e *RecipeEngine) Update(cfg *Config, s Snapshot) RecipeStatus {
	out := RecipeStatus{Stage: StageIdle}
	out.Valid = recipeValid(s.Menu.Selection, s.Consumables)

	// Abort overrides everything: critical error, emergency, or a main FSM
	// abort pulse tears the job down within one tick, clearing all
	// actuator requests.
	if e.job != nil &&
		(s.Faults.CriticalError || s.In.EmergencyStop || s.In.SystemFault || s.Main.AbortPulse) {
		e.job = nil
		out.Stage = StageAbort
		out.AbortPulse = true
		return out
	}

	if e.job == nil {
		if s.Main.StartBrew && out.Valid {
			j := &brewJob{
				bin:   s.Menu.Selection.Bin,
				drink: s.Menu.Selection.Drink,
				size:  s.Menu.Selection.Size,
				rec:   ScaledRecipe(s.Menu.Selection.Drink, s.Menu.Selection.Size),
			}
			_, ticks := j.stagePlan(cfg)
			for _, t := range ticks {
				j.total += t
			}
			j.enterStage(StageValidate, cfg.ValidateTicks, &out)
			e.job = j
			out.Stage = j.stage
			out.Active = true
			j.actuators(&out)
		}
		return out
	}

	j := e.job
	j.elapsed++
	j.timer--
	if j.timer <= 0 {
		next, ticks := j.nextStage(cfg)
		if next == StageComplete {
			e.job = nil
			out.Stage = StageComplete
			out.CompletePulse = true
			out.Progress = 100
			return out
		}
		j.enterStage(next, ticks, &out)
	}

	out.Stage = j.stage
	out.Active = true
	if j.total > 0 {
		out.Progress = j.elapsed * 100 / j.total
		if out.Progress > 100 {
			out.Progress = 100
		}
	}
	j.actuators(&out)
	return out
}
