package db

import (
	"github.com/google/uuid"
	"github.com/vikstrous/dataloadgen"
)

type dataLoaderKey string

const (
	DataLoaderKeyFleet dataLoaderKey = "fleet_data_loader"
)

// FleetDataLoader batches the per-vehicle reads the dashboard fans out, so a
// page listing N vehicles costs three queries instead of 3N. One instance is
// injected per request by the web middleware.
type FleetDataLoader struct {
	GetVehicleSchedules *dataloadgen.Loader[uuid.UUID, []MaintenanceSchedule]
	GetLatestEvent      *dataloadgen.Loader[uuid.UUID, *UsageEvent]
	GetCategory         *dataloadgen.Loader[uuid.UUID, *MaintenanceCategory]
}

func NewFleetDataLoader(dbWrapper FleetDBWrapper) *FleetDataLoader {
	return &FleetDataLoader{
		GetVehicleSchedules: dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetVehicleSchedules),
		GetLatestEvent:      dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetLatestEvents),
		GetCategory:         dataloadgen.NewMappedLoader(dbWrapper.DataLoaderGetCategories),
	}
}
