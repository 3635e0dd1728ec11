package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmt/db/db"
)

// --- maintenance categories ---

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *FleetHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := &db.MaintenanceCategory{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.db.CreateCategory(category); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *FleetHandler) ListCategories(c *gin.Context) {
	categories, err := h.db.ListCategories()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// --- locations ---

type locationRequest struct {
	FamilyID  uuid.UUID `json:"family_id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

func (h *FleetHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.db.GetFamily(req.FamilyID); err != nil {
		h.handleError(c, err)
		return
	}
	location := &db.Location{
		ID:        uuid.New(),
		FamilyID:  req.FamilyID,
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.db.CreateLocation(location); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *FleetHandler) GetLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	location, err := h.db.GetLocation(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *FleetHandler) ListFamilyLocations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	locations, err := h.db.ListFamilyLocations(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// --- todo items ---

type todoRequest struct {
	FamilyID    uuid.UUID  `json:"family_id" binding:"required"`
	VehicleID   *uuid.UUID `json:"vehicle_id"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *FleetHandler) CreateTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.db.GetFamily(req.FamilyID); err != nil {
		h.handleError(c, err)
		return
	}
	if req.VehicleID != nil {
		if _, err := h.db.GetVehicle(*req.VehicleID); err != nil {
			h.handleError(c, err)
			return
		}
	}
	todo := &db.TodoItem{
		ID:          uuid.New(),
		FamilyID:    req.FamilyID,
		VehicleID:   req.VehicleID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   time.Now(),
	}
	if err := h.db.CreateTodo(todo); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (h *FleetHandler) ListFamilyTodos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	todos, err := h.db.ListFamilyTodos(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// ToggleTodo flips the completed flag.
func (h *FleetHandler) ToggleTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	todo, err := h.db.GetTodo(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	todo.Completed = !todo.Completed
	if err := h.db.UpdateTodo(todo); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *FleetHandler) DeleteTodo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteTodo(id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
