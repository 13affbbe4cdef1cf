package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/domain/slotfmt"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    zerolog.Logger
	Zones  *timezone.Zones
	Audit  *audit.Dispatcher

	// Optional; availability is not cached when nil.
	Redis *redis.Client
}

func policyFrom(cfg config.BookingConfig) (ucAppointment.Policy, error) {
	layout, err := slotfmt.ParseLayout(cfg.SlotLayout)
	if err != nil {
		return ucAppointment.Policy{}, err
	}
	return ucAppointment.Policy{
		Granularity:  time.Duration(cfg.SlotGranularityMin) * time.Minute,
		LeadTime:     time.Duration(cfg.DefaultLeadMin) * time.Minute,
		MaxRangeDays: cfg.MaxRangeDays,
		Timeout:      cfg.AvailabilityTimeout,
		Layout:       layout,
	}, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)

	var availabilityCache ucAppointment.AvailabilityCache = cache.Nop{}
	if d.Redis != nil {
		availabilityCache = cache.NewAvailabilityCache(d.Redis, cfg.AvailabilityCacheTTL, d.Log)
	}

	policy, err := policyFrom(cfg.Booking)
	if err != nil {
		return fmt.Errorf("booking policy: %w", err)
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		scheduleRepo,
		appointmentRepo,
		availabilityCache,
		d.Zones,
		policy,
		d.Log,
	)
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, getAvailabilityUC, d.Zones, d.Audit)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, getAvailabilityUC, d.Zones, d.Audit)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, d.Zones, d.Audit)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, d.Zones)

	manageScheduleUC := ucSchedule.NewManage(scheduleRepo, getAvailabilityUC, d.Audit)
	scheduleRequestsUC := ucSchedule.NewRequests(scheduleRepo, getAvailabilityUC, d.Zones, d.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg.JWTSecret, d.Zones, d.Log)
	meHandler := handlers.NewMeHandler(d.DB, d.Log)
	barbershopHandler := handlers.NewBarbershopHandler(d.DB, d.Audit, d.Log)
	barberProductHandler := handlers.NewBarberProductHandler(d.DB, d.Log)
	clientHandler := handlers.NewClientHandler(d.DB, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Zones, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(
		getAvailabilityUC,
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsUC,
		d.Log,
	)
	scheduleHandler := handlers.NewScheduleHandler(manageScheduleUC, d.Log)
	scheduleRequestHandler := handlers.NewScheduleRequestHandler(scheduleRequestsUC, d.Log)

	publicHandler := handlers.NewPublicHandler(d.DB, getAvailabilityUC, createAppointmentUC, d.Log)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// 🌐 API PÚBLICA
	// ------------------------------
	limiter := middleware.NewIPRateLimiter(cfg.PublicRateRPS, cfg.PublicRateBurst)

	publicAPI := api.Group("/public")
	publicAPI.Use(limiter.Middleware())
	{
		publicAPI.GET("/:slug/products", publicHandler.ListProducts)
		publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
		publicAPI.GET("/:slug/availability", publicHandler.AvailabilityForClient)
		publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
	}

	// ------------------------------
	// 🔐 AUTH
	// ------------------------------
	authAPI := api.Group("/auth")
	authAPI.Use(limiter.Middleware())
	{
		authAPI.POST("/register", authHandler.Register)
		authAPI.POST("/login", authHandler.Login)
	}

	// ------------------------------
	// 🔐 API PRIVADA
	// ------------------------------
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		secured.GET("/me", meHandler.GetMe)
		secured.GET("/me/barbershop", barbershopHandler.GetMeBarbershop)
		secured.GET("/me/clients", clientHandler.List)
		secured.GET("/me/products", barberProductHandler.List)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.GET("/me/availability", appointmentHandler.Availability)
		secured.POST("/me/appointments", appointmentHandler.Create)
		secured.GET("/me/appointments", appointmentHandler.ListByDate)
		secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
		secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

		// ------------------------------
		// SCHEDULE (leitura)
		// ------------------------------
		secured.GET("/barbers/:barberID/working-hours", scheduleHandler.GetWorkingHours)
		secured.GET("/barbers/:barberID/breaks", scheduleHandler.ListBreaks)
		secured.GET("/barbers/:barberID/days-off", scheduleHandler.ListDaysOff)

		// ------------------------------
		// SCHEDULE REQUESTS
		// ------------------------------
		secured.POST("/me/schedule-requests", scheduleRequestHandler.Submit)
		secured.GET("/schedule-requests", scheduleRequestHandler.List)
	}

	// ------------------------------
	// 🔐 OWNER / ADMIN
	// ------------------------------
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireStaffAdmin())
	{
		admin.PATCH("/me/barbershop", barbershopHandler.UpdateMeBarbershop)
		admin.GET("/staff", meHandler.ListStaff)
		admin.POST("/staff", authHandler.CreateStaff)

		admin.POST("/me/products", barberProductHandler.Create)
		admin.PATCH("/me/products/:id", barberProductHandler.Update)

		admin.PUT("/barbers/:barberID/working-hours", scheduleHandler.ReplaceWorkingHours)
		admin.POST("/barbers/:barberID/breaks", scheduleHandler.CreateBreak)
		admin.DELETE("/barbers/:barberID/breaks/:id", scheduleHandler.DeleteBreak)
		admin.POST("/barbers/:barberID/days-off", scheduleHandler.CreateDayOff)
		admin.DELETE("/barbers/:barberID/days-off/:id", scheduleHandler.DeleteDayOff)

		admin.POST("/schedule-requests/:id/approve", scheduleRequestHandler.Approve)
		admin.POST("/schedule-requests/:id/reject", scheduleRequestHandler.Reject)

		admin.GET("/me/audit-logs", auditLogsHandler.List)
	}

	return nil
}
