package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmt/db/db"
	"vmt/ledger"
)

type scheduleRequest struct {
	CategoryID       uuid.UUID `json:"category_id" binding:"required"`
	Name             string    `json:"name" binding:"required"`
	Description      string    `json:"description"`
	IntervalDays     *int      `json:"interval_days"`
	IntervalDistance *int      `json:"interval_distance"`
	IntervalHours    *int      `json:"interval_hours"`
	Active           *bool     `json:"active"`
}

type scheduleResponse struct {
	ID               uuid.UUID  `json:"id"`
	VehicleID        uuid.UUID  `json:"vehicle_id"`
	CategoryID       uuid.UUID  `json:"category_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	IntervalDays     *int       `json:"interval_days"`
	IntervalDistance *int       `json:"interval_distance"`
	IntervalHours    *int       `json:"interval_hours"`
	LastPerformed    *time.Time `json:"last_performed"`
	LastDistance     *float64   `json:"last_distance"`
	LastHours        *float64   `json:"last_hours"`
	Active           bool       `json:"active"`
}

func toScheduleResponse(s *db.MaintenanceSchedule) scheduleResponse {
	return scheduleResponse{
		ID:               s.ID,
		VehicleID:        s.VehicleID,
		CategoryID:       s.CategoryID,
		Name:             s.Name,
		Description:      s.Description,
		IntervalDays:     s.IntervalDays,
		IntervalDistance: s.IntervalDistance,
		IntervalHours:    s.IntervalHours,
		LastPerformed:    s.LastPerformed,
		LastDistance:     s.LastDistance,
		LastHours:        s.LastHours,
		Active:           s.Active,
	}
}

type intervalStatusResponse struct {
	Kind      string  `json:"kind"`
	Remaining float64 `json:"remaining"`
	Overdue   bool    `json:"overdue"`
}

type scheduleStatusResponse struct {
	Schedule  scheduleResponse         `json:"schedule"`
	Due       bool                     `json:"due"`
	Intervals []intervalStatusResponse `json:"intervals"`
}

func toScheduleStatusResponse(status *ledger.ScheduleStatus) scheduleStatusResponse {
	intervals := make([]intervalStatusResponse, 0, len(status.Intervals))
	for _, iv := range status.Intervals {
		intervals = append(intervals, intervalStatusResponse{
			Kind:      iv.Kind.String(),
			Remaining: iv.Remaining,
			Overdue:   iv.Overdue,
		})
	}
	return scheduleStatusResponse{
		Schedule:  toScheduleResponse(&status.Schedule),
		Due:       status.Due,
		Intervals: intervals,
	}
}

func (h *FleetHandler) CreateSchedule(c *gin.Context) {
	vehicleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.db.GetVehicle(vehicleID); err != nil {
		h.handleError(c, err)
		return
	}
	if _, err := h.db.GetCategory(req.CategoryID); err != nil {
		h.handleError(c, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	schedule := &db.MaintenanceSchedule{
		ID:               uuid.New(),
		VehicleID:        vehicleID,
		CategoryID:       req.CategoryID,
		Name:             req.Name,
		Description:      req.Description,
		IntervalDays:     req.IntervalDays,
		IntervalDistance: req.IntervalDistance,
		IntervalHours:    req.IntervalHours,
		Active:           active,
	}
	if err := ledger.ValidateSchedule(schedule); err != nil {
		h.handleError(c, err)
		return
	}
	if err := h.db.CreateSchedule(schedule); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toScheduleResponse(schedule))
}

func (h *FleetHandler) GetSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.db.GetSchedule(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

func (h *FleetHandler) ListVehicleSchedules(c *gin.Context) {
	vehicleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.db.GetVehicle(vehicleID); err != nil {
		h.handleError(c, err)
		return
	}
	schedules, err := h.db.ListVehicleSchedules(vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]scheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, toScheduleResponse(&schedules[i]))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateSchedule edits the policy fields. Checkpoints only move through the
// maintenance cascade, never through this endpoint.
func (h *FleetHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.db.GetSchedule(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule.Name = req.Name
	schedule.Description = req.Description
	schedule.IntervalDays = req.IntervalDays
	schedule.IntervalDistance = req.IntervalDistance
	schedule.IntervalHours = req.IntervalHours
	if req.Active != nil {
		schedule.Active = *req.Active
	}
	if err := ledger.ValidateSchedule(schedule); err != nil {
		h.handleError(c, err)
		return
	}
	if err := h.db.UpdateSchedule(schedule); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

func (h *FleetHandler) DeleteSchedule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteSchedule(id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) GetScheduleDue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	status, err := h.due.StatusOf(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleStatusResponse(status))
}

func (h *FleetHandler) GetVehicleDue(c *gin.Context) {
	vehicleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	statuses, err := h.due.VehicleStatus(vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]scheduleStatusResponse, 0, len(statuses))
	for i := range statuses {
		out = append(out, toScheduleStatusResponse(&statuses[i]))
	}
	c.JSON(http.StatusOK, out)
}
