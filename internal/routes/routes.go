package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"lcr-attendance-backend/internal/config"
	handler "lcr-attendance-backend/internal/handlers"
	"lcr-attendance-backend/internal/logging"
	"lcr-attendance-backend/internal/repository"
	"lcr-attendance-backend/internal/services/address"
	service "lcr-attendance-backend/internal/services/reconciliation"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Reconciliation *handler.ReconciliationHandler
	Roster         *handler.RosterHandler
	Address        *handler.AddressHandler
	Attendance     *handler.AttendanceHandler
}

// Build wires repositories, services and handlers on top of db.
func Build(db *gorm.DB, cfg *config.Config, log zerolog.Logger) Handlers {
	rosterRepo := repository.NewRosterRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	batchRepo := repository.NewBatchRepository(db)

	reconService := service.NewReconciliationService(
		rosterRepo,
		attendanceRepo,
		batchRepo,
		logging.Component(log, "reconciliation"),
	)

	var resolver *address.Resolver
	if cfg.GeocoderURL != "" {
		geocoder := address.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent)
		resolver = address.NewResolver(geocoder, cfg.CommonLocality, logging.Component(log, "geocode"))
	}

	return Handlers{
		Reconciliation: handler.NewReconciliationHandler(reconService, logging.Component(log, "reconciliation")),
		Roster:         handler.NewRosterHandler(rosterRepo, logging.Component(log, "roster")),
		Address:        handler.NewAddressHandler(address.NewTripSession(), resolver, cfg.CommonLocality),
		Attendance:     handler.NewAttendanceHandler(attendanceRepo),
	}
}

func Register(r *gin.Engine, h Handlers) {
	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	roster := api.Group("/roster")
	roster.GET("", h.Roster.List)
	roster.POST("/upload", h.Roster.Upload)
	roster.GET("/search", h.Reconciliation.SearchRoster)

	api.POST("/attendance/validate", h.Reconciliation.Validate)
	api.GET("/attendance/:date", h.Attendance.PresentOn)

	// Reconciliation batch routes
	recon := api.Group("/reconciliation")
	recon.POST("/upload", h.Reconciliation.Upload)
	recon.GET("/:batchId", h.Reconciliation.GetBatchProgress)
	recon.GET("/:batchId/entries", h.Reconciliation.Entries)
	recon.POST("/:batchId/cancel", h.Reconciliation.Cancel)
	recon.POST("/:batchId/guests", h.Reconciliation.AddGuests)
	recon.POST("/:batchId/submit", h.Reconciliation.Submit)
	recon.GET("/:batchId/summary.csv", h.Reconciliation.SummaryCSV)
	recon.GET("/:batchId/log.csv", h.Reconciliation.LogCSV)

	// Unmatched entry resolution
	entry := recon.Group("/:batchId/unmatched/:index")
	entry.POST("/confirm", h.Reconciliation.ConfirmMember)
	entry.POST("/guest", h.Reconciliation.MarkGuest)
	entry.POST("/skip", h.Reconciliation.Skip)
	entry.POST("/restore", h.Reconciliation.Restore)
	entry.POST("/clear", h.Reconciliation.Clear)

	api.POST("/addresses/variants", h.Address.Variants)

	trips := api.Group("/trips")
	trips.GET("", h.Address.GetTrip)
	trips.PUT("/records", h.Address.SetRecords)
	trips.POST("/geocode", h.Address.Geocode)
	trips.DELETE("", h.Address.ResetTrip)
}
