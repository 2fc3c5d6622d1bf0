package service

import "time"

// RefillParams overrides the simulated supply sensors. Nil fields leave the
// corresponding sensor untouched.
type RefillParams struct {
	Bin0      *uint8
	Bin1      *uint8
	Creamer   *uint8
	Chocolate *uint8
	Paper     *bool
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "POWER_ON", "BREW_STARTED", "ERROR_LATCHED", ...
}
