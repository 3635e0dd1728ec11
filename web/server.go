package web

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"vmt/db/db"
	"vmt/db/mem"
	"vmt/db/pg"
	"vmt/ledger"
	"vmt/mq/gcppubsub"
	"vmt/mq/goch"
	"vmt/mq/mq"
	"vmt/mq/rabbit"
)

// ServiceConfig selects the backing services for one server process.
type ServiceConfig struct {
	IsDev  bool
	Port   string
	MqMode mq.Mode
}

func newLogger(isDev bool) *logrus.Logger {
	log := logrus.New()
	if isDev {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func newDBWrapper(isDev bool, log *logrus.Logger) db.FleetDBWrapper {
	if isDev {
		log.Info("using in-memory storage")
		return mem.NewInMemoryFleetDBWrapper()
	}
	gormDB, err := pg.InitPostgresGORM(pg.CreateDSN())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	return pg.NewGORMFleetDBWrapper(gormDB)
}

func newMQWrapper(ctx context.Context, mode mq.Mode, log *logrus.Logger) mq.FleetMessageQueueWrapper {
	switch mode {
	case mq.ModeRabbitMQ:
		conn := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL())
		wrapper, err := rabbit.NewRabbitFleetMessageQueueWrapper(conn)
		if err != nil {
			log.WithError(err).Fatal("failed to set up rabbitmq queues")
		}
		return wrapper
	case mq.ModeGCPPubSub:
		client, err := pubsub.NewClient(ctx, gcppubsub.GetGCPProjectID())
		if err != nil {
			log.WithError(err).Fatal("failed to create pub/sub client")
		}
		wrapper, err := gcppubsub.NewGCPFleetMessageQueueWrapper(ctx, client)
		if err != nil {
			log.WithError(err).Fatal("failed to set up pub/sub topics")
		}
		return wrapper
	default:
		return goch.NewGoChanFleetMessageQueueWrapper()
	}
}

// Serve wires storage, queues and the ledger services together and blocks on
// the HTTP listener.
func Serve(cfg ServiceConfig) {
	log := newLogger(cfg.IsDev)
	if !cfg.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	dbWrapper := newDBWrapper(cfg.IsDev, log)
	mqWrapper := newMQWrapper(ctx, cfg.MqMode, log)
	clock := clockwork.NewRealClock()

	recorder := ledger.NewRecorder(dbWrapper, mqWrapper, log, clock)
	due := ledger.NewDueEngine(dbWrapper, clock)

	updater := ledger.NewCheckpointUpdater(dbWrapper, log)
	if err := updater.Start(ctx, mqWrapper.GetMaintenancePerformedMessageQueue()); err != nil {
		log.WithError(err).Fatal("failed to start checkpoint updater")
	}

	handler := NewFleetHandler(dbWrapper, recorder, due, mqWrapper, log)

	r := gin.New()
	setupMiddlewares(r, dbWrapper)
	setupRoutes(r, handler)

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func setupRoutes(r *gin.Engine, h *FleetHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/families", h.CreateFamily)
		api.GET("/families/:id", h.GetFamily)
		api.GET("/families/:id/vehicles", h.ListFamilyVehicles)
		api.GET("/families/:id/locations", h.ListFamilyLocations)
		api.GET("/families/:id/todos", h.ListFamilyTodos)
		api.GET("/families/:id/dashboard", h.GetFamilyDashboard)

		api.POST("/vehicles", h.CreateVehicle)
		api.GET("/vehicles/:id", h.GetVehicle)
		api.PUT("/vehicles/:id", h.UpdateVehicle)
		api.DELETE("/vehicles/:id", h.DeleteVehicle)
		api.GET("/vehicles/:id/stats", h.GetVehicleStats)
		api.GET("/vehicles/:id/events", h.ListVehicleEvents)
		api.POST("/vehicles/:id/events", h.RecordEvent)
		api.GET("/vehicles/:id/events/export", h.ExportVehicleEvents)
		api.GET("/vehicles/:id/schedules", h.ListVehicleSchedules)
		api.POST("/vehicles/:id/schedules", h.CreateSchedule)
		api.GET("/vehicles/:id/due", h.GetVehicleDue)

		api.GET("/events/:id", h.GetEvent)
		api.DELETE("/events/:id", h.DeleteEvent)
		api.GET("/events/:id/efficiency", h.GetEventEfficiency)

		api.GET("/schedules/:id", h.GetSchedule)
		api.PUT("/schedules/:id", h.UpdateSchedule)
		api.DELETE("/schedules/:id", h.DeleteSchedule)
		api.GET("/schedules/:id/due", h.GetScheduleDue)

		api.GET("/categories", h.ListCategories)
		api.POST("/categories", h.CreateCategory)

		api.POST("/locations", h.CreateLocation)
		api.GET("/locations/:id", h.GetLocation)

		api.POST("/todos", h.CreateTodo)
		api.POST("/todos/:id/toggle", h.ToggleTodo)
		api.DELETE("/todos/:id", h.DeleteTodo)
	}

	r.GET("/ws/feed", h.EventFeed)
}
