package handlers

import (
	"context"
	"net/http"
	"time"

	"coffee_machine/internal/models"
	"coffee_machine/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMachine struct {
	powerOnErr      error
	powerOffErr     error
	buttonErr       error
	refillErr       error
	pressureErr     error
	emergencyErr    error
	serviceResetErr error

	powerOnCalls      int
	powerOffCalls     int
	serviceResetCalls int
	lastButton        string
	lastRefill        service.RefillParams
	lastPressureOK    bool
	lastEmergency     bool
}

func (m *mockMachine) PowerOn(ctx context.Context) error {
	m.powerOnCalls++
	return m.powerOnErr
}
func (m *mockMachine) PowerOff(ctx context.Context) error {
	m.powerOffCalls++
	return m.powerOffErr
}
func (m *mockMachine) PressButton(ctx context.Context, button string) error {
	m.lastButton = button
	return m.buttonErr
}
func (m *mockMachine) Refill(ctx context.Context, p service.RefillParams) error {
	m.lastRefill = p
	return m.refillErr
}
func (m *mockMachine) SetPressure(ctx context.Context, ok bool) error {
	m.lastPressureOK = ok
	return m.pressureErr
}
func (m *mockMachine) SetEmergency(ctx context.Context, engaged bool) error {
	m.lastEmergency = engaged
	return m.emergencyErr
}
func (m *mockMachine) ServiceReset(ctx context.Context) error {
	m.serviceResetCalls++
	return m.serviceResetErr
}

type mockMonitoring struct {
	state models.MachineStatus
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.MachineStatus, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.BrewEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.BrewEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
