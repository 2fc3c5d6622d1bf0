package handlers

import (
	"net/http"

	"coffee_machine/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusStarted = "started"
	statusStopped = "stopped"
	statusQueued  = "queued"
	statusApplied = "applied"
	statusReset   = "reset"

	errStartMachine = "failed to power on"
	errStopMachine  = "failed to power off"
	errGetState     = "failed to load state"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// Request DTO for a panel button press.
type buttonRequest struct {
	Button string `json:"button" binding:"required"` // left | right | select | cancel | both
}

// Request DTO for supply refills; omitted fields leave the sensor untouched.
type refillRequest struct {
	Bin0      *uint8 `json:"bin0,omitempty"`
	Bin1      *uint8 `json:"bin1,omitempty"`
	Creamer   *uint8 `json:"creamer,omitempty"`
	Chocolate *uint8 `json:"chocolate,omitempty"`
	Paper     *bool  `json:"paper,omitempty"`
}

type pressureRequest struct {
	OK *bool `json:"ok" binding:"required"`
}

type emergencyRequest struct {
	Engaged *bool `json:"engaged" binding:"required"`
}

// PressButtonRequest is an exported model for Swagger docs of the button payload.
type PressButtonRequest struct {
	// Button to press. Allowed: left, right, select, cancel, both
	Button string `json:"button" example:"select"`
}

// RefillRequest is an exported model for Swagger docs of the refill payload.
type RefillRequest struct {
	// New hopper sensor reading, 0..255 (255 = infinite supply)
	Bin0      *uint8 `json:"bin0,omitempty" example:"200"`
	Bin1      *uint8 `json:"bin1,omitempty" example:"200"`
	Creamer   *uint8 `json:"creamer,omitempty" example:"150"`
	Chocolate *uint8 `json:"chocolate,omitempty" example:"150"`
	// Paper cassette present
	Paper *bool `json:"paper,omitempty" example:"true"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Power on
// @Description  Boots the control core, restoring stock and the service counter from the persisted status.
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/start [post]
// @Security     BearerAuth
func (h *Handler) startMachine(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Machine.PowerOn(ctx); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errStartMachine, "machine_start_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStarted, gin.H{})
}

// @Summary      Power off
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/stop [post]
// @Security     BearerAuth
func (h *Handler) stopMachine(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Machine.PowerOff(ctx); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errStopMachine, "machine_stop_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped, gin.H{})
}

// @Summary      Press a panel button
// @Description  Queues one press-and-release; presses are applied one control tick at a time.
// @Tags         machine
// @Accept       json
// @Produce      json
// @Param        body  body   PressButtonRequest  true  "Button payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/machine/button [post]
// @Security     BearerAuth
func (h *Handler) pressButton(c *gin.Context) {
	var req buttonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	if err := h.services.Machine.PressButton(c.Request.Context(), req.Button); err != nil {
		if h.log != nil {
			h.log.Errorw("machine_button_failed", "err", err, "button", req.Button)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusQueued, gin.H{"button": req.Button})
}

// @Summary      Refill supplies
// @Description  Overrides the simulated hopper/paper sensors. Omitted fields are left untouched.
// @Tags         machine
// @Accept       json
// @Produce      json
// @Param        body  body   RefillRequest  true  "Refill payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/machine/refill [post]
// @Security     BearerAuth
func (h *Handler) refill(c *gin.Context) {
	var req refillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	params := service.RefillParams{
		Bin0:      req.Bin0,
		Bin1:      req.Bin1,
		Creamer:   req.Creamer,
		Chocolate: req.Chocolate,
		Paper:     req.Paper,
	}
	if err := h.services.Machine.Refill(c.Request.Context(), params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusApplied, gin.H{})
}

// @Summary      Set water pressure sensor
// @Tags         machine
// @Accept       json
// @Produce      json
// @Param        body  body   map[string]bool  true  "{\"ok\": true}"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/machine/pressure [post]
// @Security     BearerAuth
func (h *Handler) setPressure(c *gin.Context) {
	var req pressureRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OK == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: 'ok' boolean required"})
		return
	}
	if err := h.services.Machine.SetPressure(c.Request.Context(), *req.OK); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusApplied, gin.H{"pressure_ok": *req.OK})
}

// @Summary      Engage or release the emergency stop
// @Tags         machine
// @Accept       json
// @Produce      json
// @Param        body  body   map[string]bool  true  "{\"engaged\": true}"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/machine/emergency [post]
// @Security     BearerAuth
func (h *Handler) setEmergency(c *gin.Context) {
	var req emergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Engaged == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: 'engaged' boolean required"})
		return
	}
	if err := h.services.Machine.SetEmergency(c.Request.Context(), *req.Engaged); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusApplied, gin.H{"engaged": *req.Engaged})
}

// @Summary      Reset the service timer
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/machine/service-reset [post]
// @Security     BearerAuth
func (h *Handler) serviceReset(c *gin.Context) {
	if err := h.services.Machine.ServiceReset(c.Request.Context()); err != nil {
		if h.log != nil {
			h.log.Errorw("machine_service_reset_failed", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusReset, gin.H{})
}

// @Summary      Get machine state
// @Tags         machine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machine/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "machine_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
