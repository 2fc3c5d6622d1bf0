package models

import "time"

// MachineStatus is the persisted operator-facing snapshot of the brewer.
// A single row (id=1) is kept up to date by the controller loop so the
// machine resumes with its stock and service counters after a restart.
type MachineStatus struct {
	ID             int       `json:"id" db:"id"`
	PowerOn        bool      `json:"power_on" db:"power_on"`
	MainState      string    `json:"main_state" db:"main_state"`
	MenuState      string    `json:"menu_state" db:"menu_state"`
	BrewStage      string    `json:"brew_stage" db:"brew_stage"`
	WaterState     string    `json:"water_state" db:"water_state"`
	CurrentTempC   float64   `json:"current_temp_c" db:"temp_c"`
	Bin0Level      uint8     `json:"bin0_level" db:"bin0"`
	Bin1Level      uint8     `json:"bin1_level" db:"bin1"`
	CreamerLevel   uint8     `json:"creamer_level" db:"creamer"`
	ChocolateLevel uint8     `json:"chocolate_level" db:"chocolate"`
	PaperCount     uint8     `json:"paper_count" db:"paper_count"`
	BrewProgress   int       `json:"brew_progress" db:"progress"`
	ServiceSeconds uint64    `json:"service_seconds" db:"service_s"`
	ErrorCodes     []string  `json:"error_codes" db:"errors"`
	DisplayLine1   string    `json:"display_line1" db:"line1"`
	DisplayLine2   string    `json:"display_line2" db:"line2"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
