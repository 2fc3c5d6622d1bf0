package models

import "time"

// Event types appended by the controller and the command services.
const (
	EventPowerOn      = "POWER_ON"
	EventPowerOff     = "POWER_OFF"
	EventBrewStarted  = "BREW_STARTED"
	EventBrewComplete = "BREW_COMPLETED"
	EventBrewAborted  = "BREW_ABORTED"
	EventErrorLatched = "ERROR_LATCHED"
	EventErrorCleared = "ERROR_CLEARED"
	EventEmergency    = "EMERGENCY"
	EventServiceReset = "SERVICE_RESET"
)

// BrewEvent is one append-only journal entry.
type BrewEvent struct {
	EventID     string      `json:"event_id" db:"id"`
	OccurredAt  time.Time   `json:"occurred_at" db:"occurred_at"`
	Type        string      `json:"type" db:"type"`
	Description string      `json:"description" db:"message"`
	Metadata    interface{} `json:"metadata,omitempty" db:"meta"`
}
