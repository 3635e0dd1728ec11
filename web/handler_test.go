package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vmt/db/mem"
	"vmt/ledger"
	"vmt/mq/goch"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbWrapper := mem.NewInMemoryFleetDBWrapper()
	mqWrapper := goch.NewGoChanFleetMessageQueueWrapper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	recorder := ledger.NewRecorder(dbWrapper, mqWrapper, log, clock)
	due := ledger.NewDueEngine(dbWrapper, clock)
	handler := NewFleetHandler(dbWrapper, recorder, due, mqWrapper, log)

	updater := ledger.NewCheckpointUpdater(dbWrapper, log)
	require.NoError(t, updater.Start(t.Context(), mqWrapper.GetMaintenancePerformedMessageQueue()))

	r := gin.New()
	r.Use(FleetDataLoaderInjectionMiddleware(dbWrapper))
	setupRoutes(r, handler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createFamily(t *testing.T, r *gin.Engine) uuid.UUID {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/families", gin.H{"name": "Smiths"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uuid.UUID `json:"ID"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func createVehicle(t *testing.T, r *gin.Engine, familyID uuid.UUID, body gin.H) uuid.UUID {
	t.Helper()
	body["family_id"] = familyID
	w := doJSON(t, r, http.MethodPost, "/api/vehicles", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordFuelEventEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	familyID := createFamily(t, r)
	vehicleID := createVehicle(t, r, familyID, gin.H{
		"name": "truck", "tracking_unit": "miles", "starting_reading": 10000,
	})

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/vehicles/%s/events", vehicleID), gin.H{
		"kind":          "fuel",
		"date":          "2025-05-01T00:00:00Z",
		"distance":      10300,
		"fuel_quantity": 15,
		"unit_price":    3.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var event struct {
		ID                 uuid.UUID `json:"id"`
		TotalCost          *float64  `json:"total_cost"`
		DistanceEfficiency *float64  `json:"distance_efficiency"`
	}
	decode(t, w, &event)
	require.NotNil(t, event.TotalCost)
	assert.InDelta(t, 52.5, *event.TotalCost, 1e-9)
	require.NotNil(t, event.DistanceEfficiency)
	assert.InDelta(t, 20.00, *event.DistanceEfficiency, 1e-9)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/events/%s/efficiency", event.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var eff struct {
		Label     string  `json:"label"`
		Available bool    `json:"available"`
		Value     float64 `json:"value"`
	}
	decode(t, w, &eff)
	assert.Equal(t, "MPG", eff.Label)
	assert.True(t, eff.Available)
	assert.InDelta(t, 20.00, eff.Value, 1e-9)
}

func TestRecordEventValidationFailure(t *testing.T) {
	r := newTestRouter(t)
	familyID := createFamily(t, r)
	vehicleID := createVehicle(t, r, familyID, gin.H{"name": "truck"})

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/vehicles/%s/events", vehicleID), gin.H{
		"kind": "fuel",
		"date": "2025-05-01T00:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Field string `json:"field"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "fuel_quantity", resp.Field)
}

func TestUnknownVehicleIs404(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/vehicles/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleDueFlow(t *testing.T) {
	r := newTestRouter(t)
	familyID := createFamily(t, r)
	vehicleID := createVehicle(t, r, familyID, gin.H{"name": "truck"})

	w := doJSON(t, r, http.MethodPost, "/api/categories", gin.H{"name": "Oil Change"})
	require.Equal(t, http.StatusCreated, w.Code)
	var category struct {
		ID uuid.UUID `json:"ID"`
	}
	decode(t, w, &category)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/vehicles/%s/schedules", vehicleID), gin.H{
		"category_id":   category.ID,
		"name":          "oil every 90 days",
		"interval_days": 90,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var schedule struct {
		ID uuid.UUID `json:"id"`
	}
	decode(t, w, &schedule)

	// Never serviced: due immediately.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/schedules/%s/due", schedule.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Due bool `json:"due"`
	}
	decode(t, w, &status)
	assert.True(t, status.Due)

	// Record the maintenance; the cascade clears the due flag.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/vehicles/%s/events", vehicleID), gin.H{
		"kind":        "maintenance",
		"date":        "2025-05-20T00:00:00Z",
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Eventually(t, func() bool {
		w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/schedules/%s/due", schedule.ID), nil)
		if w.Code != http.StatusOK {
			return false
		}
		var status struct {
			Due bool `json:"due"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
			return false
		}
		return !status.Due
	}, time.Second, 10*time.Millisecond)

	// A schedule without any interval is rejected.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/vehicles/%s/schedules", vehicleID), gin.H{
		"category_id": category.ID,
		"name":        "no interval",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardAndExport(t *testing.T) {
	r := newTestRouter(t)
	familyID := createFamily(t, r)
	vehicleID := createVehicle(t, r, familyID, gin.H{"name": "truck", "starting_reading": 0})

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/vehicles/%s/events", vehicleID), gin.H{
		"kind": "outing", "date": "2025-05-01T00:00:00Z", "distance": 500,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/families/%s/dashboard", familyID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dashboard []struct {
		LatestReading float64 `json:"latest_reading"`
		DueCount      int     `json:"due_count"`
	}
	decode(t, w, &dashboard)
	require.Len(t, dashboard, 1)
	assert.InDelta(t, 500, dashboard[0].LatestReading, 1e-9)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/vehicles/%s/events/export", vehicleID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "2025-05-01,outing,500")
}

func TestTodoToggle(t *testing.T) {
	r := newTestRouter(t)
	familyID := createFamily(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/todos", gin.H{
		"family_id": familyID,
		"title":     "renew registration",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var todo struct {
		ID uuid.UUID `json:"ID"`
	}
	decode(t, w, &todo)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/todos/%s/toggle", todo.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled struct {
		Completed bool `json:"Completed"`
	}
	decode(t, w, &toggled)
	assert.True(t, toggled.Completed)
}
