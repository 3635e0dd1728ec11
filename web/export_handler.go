package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmt/export"
)

// ExportVehicleEvents streams the vehicle's ledger as a CSV download.
func (h *FleetHandler) ExportVehicleEvents(c *gin.Context) {
	vehicleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.db.GetVehicle(vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	events, err := h.db.ListVehicleEvents(vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	loader := fleetLoader(c)
	categoryName := func(id uuid.UUID) string {
		if loader != nil {
			if category, err := loader.GetCategory.Load(c.Request.Context(), id); err == nil && category != nil {
				return category.Name
			}
			return ""
		}
		if category, err := h.db.GetCategory(id); err == nil {
			return category.Name
		}
		return ""
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", vehicle.Name+"-events.csv"))
	c.Status(http.StatusOK)

	if err := export.WriteVehicleEvents(c.Writer, vehicle, events, categoryName); err != nil {
		h.log.WithError(err).Error("failed to stream CSV export")
	}
}
