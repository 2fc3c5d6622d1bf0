package service

import (
	"context"
	"time"

	"coffee_machine/internal/models"
	"coffee_machine/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Machine exposes operator commands: power, panel buttons, sensor overrides.
type Machine interface {
	PowerOn(ctx context.Context) error
	PowerOff(ctx context.Context) error
	PressButton(ctx context.Context, button string) error
	Refill(ctx context.Context, p RefillParams) error
	SetPressure(ctx context.Context, ok bool) error
	SetEmergency(ctx context.Context, engaged bool) error
	ServiceReset(ctx context.Context) error
}

// Monitoring exposes the read-only machine status.
type Monitoring interface {
	GetState(ctx context.Context) (models.MachineStatus, error)
}

// EventLog exposes the append-only journal with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.BrewEvent, error)
}

// Controller runs the background tick loop that drives the control core.
// Stop via context cancellation in main() for graceful shutdown.
type Controller interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services behind embedded interfaces.
type Service struct {
	Machine
	Monitoring
	EventLog
	Controller
	Authorization
}

// NewService wires the repository layer into concrete services. The machine
// command surface and the tick loop share one controller instance so panel
// presses land in the same input image the loop feeds to the core.
func NewService(repos *repository.Repository) *Service {
	ctrl := NewControllerService(repos.StatusRepo, repos.EventRepo)
	return &Service{
		Machine:       ctrl,
		Monitoring:    NewMonitoringService(repos.StatusRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Controller:    ctrl,
		Authorization: NewAuthService(repos.Auth),
	}
}
