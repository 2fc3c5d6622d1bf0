package core

// Resource identifies one depletable supply tracked by the consumable
// manager. Paper is tracked separately as a sheet count.
type Resource int

const (
	ResBin0 Resource = iota
	ResBin1
	ResCreamer
	ResChocolate

	ResourceCount
)

// String returns the hopper name of the resource.
func (r Resource) String() string {
	switch r {
	case ResBin0:
		return "bin0"
	case ResBin1:
		return "bin1"
	case ResCreamer:
		return "creamer"
	case ResChocolate:
		return "chocolate"
	}
	return "unknown"
}

// ConsumeRequest asks the consumable manager to deduct supplies this tick.
// At most one request is honored per tick and it always wins over a
// same-tick sensor refill.
type ConsumeRequest struct {
	Amounts [ResourceCount]uint8
	Paper   bool // one filter sheet
}

// ResourceStatus is the published per-hopper view.
type ResourceStatus struct {
	Level uint8
	Empty bool
	Low   bool
}

// ConsumableStatus is the consumable manager's published output.
type ConsumableStatus struct {
	Resources     [ResourceCount]ResourceStatus
	PaperCount    uint8
	PaperPresent  bool
	CanMakeCoffee bool
}

// ConsumableManager owns the ingredient stock. Nothing else mutates the
// levels; other components only read the published status.
type ConsumableManager struct {
	levels     [ResourceCount]uint8
	lastSensor [ResourceCount]uint8
	adopted    bool
	paper      uint8
	prevPaper  bool
	age        int // ticks since boot, for the sensor stabilization window
}

// NewConsumableManager starts with empty hoppers; sensors (or a persisted
// seed) fill them in.
func NewConsumableManager() *ConsumableManager {
	return &ConsumableManager{}
}

// Seed restores persisted stock, bypassing the stabilization window for the
// seeded values.
func (m *ConsumableManager) Seed(levels [ResourceCount]uint8, paper uint8) {
	m.levels = levels
	m.paper = paper
	// a seeded cassette was already detected before the restart; without
	// this the present-edge at boot would refill it to max
	m.prevPaper = paper > 0
}

func sensorLevel(in Inputs, r Resource) uint8 {
	switch r {
	case ResBin0:
		return in.Bin0Level
	case ResBin1:
		return in.Bin1Level
	case ResCreamer:
		return in.CreamerLevel
	case ResChocolate:
		return in.ChocolateLevel
	}
	return 0
}

// Update advances the stock one tick. Priority per resource: infinite
// sentinel holds at max and ignores everything, then consumption, then
// sensor adoption. Sensors are adopted once when the stabilization window
// elapses and afterwards only when the reading changes (a manual refill);
// consumption always wins over a same-tick refill.
func (m *ConsumableManager) Update(cfg *Config, s Snapshot) ConsumableStatus {
	req := s.Recipe.Consume
	settled := m.age >= cfg.SensorSettleTicks

	for r := Resource(0); r < ResourceCount; r++ {
		sensor := sensorLevel(s.In, r)
		consumed := false
		switch {
		case sensor == cfg.InfiniteLevel:
			m.levels[r] = cfg.InfiniteLevel
		case req.Amounts[r] > 0:
			consumed = true
			if m.levels[r] > req.Amounts[r] {
				m.levels[r] -= req.Amounts[r]
			} else {
				m.levels[r] = 0
			}
		case settled && (!m.adopted || sensor != m.lastSensor[r]):
			m.levels[r] = sensor
		}
		// On a consumption tick the reading is not recorded, so a refill
		// that lands on the same tick still registers as a change and is
		// adopted next tick.
		if settled && !consumed {
			m.lastSensor[r] = sensor
		}
	}
	if settled {
		m.adopted = true
	}

	// Paper: consumption wins over the absent->present refill edge.
	if req.Paper {
		if m.paper > 0 {
			m.paper--
		}
	} else if s.In.PaperPresent && !m.prevPaper {
		m.paper = cfg.MaxPaper
	}
	m.prevPaper = s.In.PaperPresent

	if m.age < cfg.SensorSettleTicks {
		m.age++
	}

	var st ConsumableStatus
	for r := Resource(0); r < ResourceCount; r++ {
		lvl := m.levels[r]
		empty := lvl <= cfg.EmptyThreshold
		st.Resources[r] = ResourceStatus{
			Level: lvl,
			Empty: empty,
			Low:   !empty && lvl <= cfg.LowThreshold,
		}
	}
	st.PaperCount = m.paper
	st.PaperPresent = s.In.PaperPresent && m.paper > 0
	st.CanMakeCoffee = !st.Resources[ResBin0].Empty || !st.Resources[ResBin1].Empty
	return st
}
