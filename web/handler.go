package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vmt/db/db"
	"vmt/engine"
	"vmt/ledger"
	"vmt/mq/mq"
)

// FleetHandler serves the REST API. All write-path business rules live in the
// ledger package; handlers only translate HTTP to and from it.
type FleetHandler struct {
	db       db.FleetDBWrapper
	recorder *ledger.Recorder
	due      *ledger.DueEngine
	mq       mq.FleetMessageQueueWrapper
	log      logrus.FieldLogger
}

func NewFleetHandler(dbWrapper db.FleetDBWrapper, recorder *ledger.Recorder, due *ledger.DueEngine, mqWrapper mq.FleetMessageQueueWrapper, log logrus.FieldLogger) *FleetHandler {
	return &FleetHandler{
		db:       dbWrapper,
		recorder: recorder,
		due:      due,
		mq:       mqWrapper,
		log:      log,
	}
}

// handleError maps service errors onto HTTP statuses.
func (h *FleetHandler) handleError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// --- families ---

type createFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *FleetHandler) CreateFamily(c *gin.Context) {
	var req createFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	family := &db.Family{ID: uuid.New(), Name: req.Name}
	if err := h.db.CreateFamily(family); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, family)
}

func (h *FleetHandler) GetFamily(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	family, err := h.db.GetFamily(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, family)
}

// --- vehicles ---

type vehicleRequest struct {
	FamilyID        uuid.UUID `json:"family_id"`
	Name            string    `json:"name" binding:"required"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	VIN             string    `json:"vin"`
	LicensePlate    string    `json:"license_plate"`
	TrackingUnit    string    `json:"tracking_unit"`
	StartingReading *float64  `json:"starting_reading"`
}

type vehicleResponse struct {
	ID              uuid.UUID `json:"id"`
	FamilyID        uuid.UUID `json:"family_id"`
	Name            string    `json:"name"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	VIN             string    `json:"vin"`
	LicensePlate    string    `json:"license_plate"`
	TrackingUnit    string    `json:"tracking_unit"`
	EfficiencyLabel string    `json:"efficiency_label"`
	StartingReading *float64  `json:"starting_reading"`
}

func toVehicleResponse(v *db.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:              v.ID,
		FamilyID:        v.FamilyID,
		Name:            v.Name,
		Make:            v.Make,
		Model:           v.Model,
		Year:            v.Year,
		VIN:             v.VIN,
		LicensePlate:    v.LicensePlate,
		TrackingUnit:    v.Unit.String(),
		EfficiencyLabel: v.Unit.EfficiencyLabel(),
		StartingReading: v.StartingReading,
	}
}

func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit := engine.UnitDistance
	if req.TrackingUnit != "" {
		parsed, err := engine.ParseTrackingUnit(req.TrackingUnit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		unit = parsed
	}
	if _, err := h.db.GetFamily(req.FamilyID); err != nil {
		h.handleError(c, err)
		return
	}

	vehicle := &db.Vehicle{
		ID:              uuid.New(),
		FamilyID:        req.FamilyID,
		Name:            req.Name,
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		VIN:             req.VIN,
		LicensePlate:    req.LicensePlate,
		Unit:            unit,
		StartingReading: req.StartingReading,
	}
	if err := h.db.CreateVehicle(vehicle); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVehicleResponse(vehicle))
}

func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.db.GetVehicle(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

func (h *FleetHandler) ListFamilyVehicles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicles, err := h.db.ListFamilyVehicles(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]vehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, toVehicleResponse(&vehicles[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	vehicle, err := h.db.GetVehicle(id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Tracking unit and family are fixed at creation.
	vehicle.Name = req.Name
	vehicle.Make = req.Make
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.VIN = req.VIN
	vehicle.LicensePlate = req.LicensePlate
	vehicle.StartingReading = req.StartingReading

	if err := h.db.UpdateVehicle(vehicle); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

func (h *FleetHandler) DeleteVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteVehicle(id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) GetVehicleStats(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.db.GetVehicle(id); err != nil {
		h.handleError(c, err)
		return
	}
	stats, err := h.db.VehicleStats(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event_count":       stats.EventCount,
		"maintenance_count": stats.MaintenanceCount,
		"fuel_count":        stats.FuelCount,
		"maintenance_cost":  stats.MaintenanceCost,
		"fuel_cost":         stats.FuelCost,
	})
}

// --- usage events ---

type eventRequest struct {
	Kind         string     `json:"kind" binding:"required"`
	Date         time.Time  `json:"date" binding:"required"`
	Notes        string     `json:"notes"`
	Distance     *float64   `json:"distance"`
	Hours        *float64   `json:"hours"`
	FuelQuantity *float64   `json:"fuel_quantity"`
	UnitPrice    *float64   `json:"unit_price"`
	TotalCost    *float64   `json:"total_cost"`
	CategoryID   *uuid.UUID `json:"category_id"`
	LocationID   *uuid.UUID `json:"location_id"`
}

type eventResponse struct {
	ID                 uuid.UUID  `json:"id"`
	VehicleID          uuid.UUID  `json:"vehicle_id"`
	Kind               string     `json:"kind"`
	Date               time.Time  `json:"date"`
	Notes              string     `json:"notes"`
	Distance           *float64   `json:"distance"`
	Hours              *float64   `json:"hours"`
	FuelQuantity       *float64   `json:"fuel_quantity"`
	UnitPrice          *float64   `json:"unit_price"`
	TotalCost          *float64   `json:"total_cost"`
	DistanceEfficiency *float64   `json:"distance_efficiency"`
	TimeEfficiency     *float64   `json:"time_efficiency"`
	CategoryID         *uuid.UUID `json:"category_id"`
	LocationID         *uuid.UUID `json:"location_id"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toEventResponse(e *db.UsageEvent) eventResponse {
	return eventResponse{
		ID:                 e.ID,
		VehicleID:          e.VehicleID,
		Kind:               string(e.Kind),
		Date:               e.Date,
		Notes:              e.Notes,
		Distance:           e.Distance,
		Hours:              e.Hours,
		FuelQuantity:       e.FuelQuantity,
		UnitPrice:          e.UnitPrice,
		TotalCost:          e.TotalCost,
		DistanceEfficiency: e.DistanceEfficiency,
		TimeEfficiency:     e.TimeEfficiency,
		CategoryID:         e.CategoryID,
		LocationID:         e.LocationID,
		CreatedAt:          e.CreatedAt,
	}
}

func (h *FleetHandler) RecordEvent(c *gin.Context) {
	vehicleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := &db.UsageEvent{
		VehicleID:    vehicleID,
		Kind:         db.EventKind(req.Kind),
		Date:         req.Date,
		Notes:        req.Notes,
		Distance:     req.Distance,
		Hours:        req.Hours,
		FuelQuantity: req.FuelQuantity,
		UnitPrice:    req.UnitPrice,
		TotalCost:    req.TotalCost,
		CategoryID:   req.CategoryID,
		LocationID:   req.LocationID,
	}
	if err := h.recorder.RecordUsageEvent(event); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(event))
}

func (h *FleetHandler) ListVehicleEvents(c *gin.Context) {
	vehicleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.db.GetVehicle(vehicleID); err != nil {
		h.handleError(c, err)
		return
	}
	events, err := h.db.ListVehicleEvents(vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FleetHandler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.db.GetUsageEvent(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}

// DeleteEvent removes a ledger entry. Schedule checkpoints advanced by the
// event are deliberately left alone.
func (h *FleetHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteUsageEvent(id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) GetEventEfficiency(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	value, label, available, err := h.due.EfficiencyOf(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp := gin.H{"label": label, "available": available}
	if available {
		resp["value"] = value
	}
	c.JSON(http.StatusOK, resp)
}
