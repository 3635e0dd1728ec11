package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vmt/db/db"
	"vmt/ledger"
)

type dashboardVehicle struct {
	Vehicle       vehicleResponse          `json:"vehicle"`
	LatestEvent   *eventResponse           `json:"latest_event"`
	LatestReading float64                  `json:"latest_reading"`
	DueCount      int                      `json:"due_count"`
	Schedules     []scheduleStatusResponse `json:"schedules"`
}

// fleetLoader pulls the per-request batch loader out of the gin context.
func fleetLoader(c *gin.Context) *db.FleetDataLoader {
	if v, ok := c.Get(string(db.DataLoaderKeyFleet)); ok {
		if loader, ok := v.(*db.FleetDataLoader); ok {
			return loader
		}
	}
	return nil
}

// GetFamilyDashboard returns every vehicle of a family with its latest event
// and evaluated schedules in one response. The per-vehicle reads go through
// the request's batch loader so the fan-out stays at a constant number of
// queries.
func (h *FleetHandler) GetFamilyDashboard(c *gin.Context) {
	familyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.db.GetFamily(familyID); err != nil {
		h.handleError(c, err)
		return
	}
	vehicles, err := h.db.ListFamilyVehicles(familyID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	loader := fleetLoader(c)
	if loader == nil {
		loader = db.NewFleetDataLoader(h.db)
	}

	ctx := c.Request.Context()
	out := make([]dashboardVehicle, 0, len(vehicles))
	for i := range vehicles {
		vehicle := &vehicles[i]

		latest, err := loader.GetLatestEvent.Load(ctx, vehicle.ID)
		if err != nil {
			h.handleError(c, err)
			return
		}
		schedules, err := loader.GetVehicleSchedules.Load(ctx, vehicle.ID)
		if err != nil {
			h.handleError(c, err)
			return
		}

		reading := ledger.LatestReadingOf(vehicle, latest)
		statuses := make([]scheduleStatusResponse, 0, len(schedules))
		dueCount := 0
		for _, schedule := range schedules {
			status := h.due.EvaluateSchedule(vehicle, schedule, reading)
			if status.Due {
				dueCount++
			}
			statuses = append(statuses, toScheduleStatusResponse(&status))
		}

		entry := dashboardVehicle{
			Vehicle:       toVehicleResponse(vehicle),
			LatestReading: reading,
			DueCount:      dueCount,
			Schedules:     statuses,
		}
		if latest != nil {
			resp := toEventResponse(latest)
			entry.LatestEvent = &resp
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}
