package service

import (
	"context"
	"time"

	"coffee_machine/internal/core"
	"coffee_machine/internal/models"
	"coffee_machine/internal/repository"
)

type MonitoringService struct {
	statusRepo repository.StatusRepo
}

func NewMonitoringService(statusRepo repository.StatusRepo) *MonitoringService {
	return &MonitoringService{statusRepo: statusRepo}
}

// GetState returns the latest persisted machine status.
// If no status is persisted yet, returns a baseline powered-off snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (models.MachineStatus, error) {
	st, err := s.statusRepo.Load(ctx)
	if err != nil {
		return models.MachineStatus{}, err
	}
	if st.ID == 0 {
		return s.baselineStatus(), nil
	}
	st.UpdatedAt = toUTC(st.UpdatedAt)
	return st, nil
}

// baselineStatus returns a sensible default snapshot for an uninitialized DB.
func (s *MonitoringService) baselineStatus() models.MachineStatus {
	cfg := core.DefaultConfig()
	return models.MachineStatus{
		ID:           1, // DB schema enforces single-row status with id=1
		PowerOn:      false,
		MainState:    core.MainInit,
		MenuState:    core.MenuSplash,
		BrewStage:    core.StageIdle,
		WaterState:   core.WaterCold,
		CurrentTempC: cfg.AmbientTemp,
		UpdatedAt:    time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
