package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/auth"
	"desicargo-backend/internal/bookings"
	"desicargo-backend/internal/branches"
	"desicargo-backend/internal/broker/kafka"
	"desicargo-backend/internal/cache/rediscache"
	"desicargo-backend/internal/catalog"
	"desicargo-backend/internal/config"
	"desicargo-backend/internal/dashboard"
	"desicargo-backend/internal/database"
	"desicargo-backend/internal/logging"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/ogpl"
	"desicargo-backend/internal/photos"
	"desicargo-backend/internal/session"
	"desicargo-backend/internal/storage/pgcargo"
	"desicargo-backend/internal/tracking"
	"desicargo-backend/internal/users"
	"desicargo-backend/internal/vehicles"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Open(cfg.DatabaseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	store := pgcargo.New(db, log)

	rc := rediscache.New(cfg.Redis.Addr)
	defer func() { _ = rc.Close() }()
	if err := rc.Ping(ctx); err != nil {
		log.WithError(err).Fatal("redis unavailable")
	}

	recorder := tracking.NewRecorder(store, log)
	var events bookings.Publisher = tracking.NewInlinePublisher(recorder)
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer func() { _ = producer.Close() }()
		events = tracking.NewKafkaPublisher(producer, cfg.Kafka.BookingEventsTopic)

		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic, cfg.Kafka.ConsumerGroup)
		defer func() { _ = consumer.Close() }()
		go tracking.Run(ctx, consumer, recorder, log)
	} else {
		log.Info("KAFKA_BROKERS not set, booking events are recorded in-process")
	}

	photoStore, err := photos.New(ctx, photos.Options{
		Bucket:   cfg.Photo.Bucket,
		Region:   cfg.Photo.Region,
		Endpoint: cfg.Photo.Endpoint,
		Expiry:   cfg.PhotoURLExpiry(),
	})
	if err != nil {
		log.WithError(err).Fatal("photo storage config")
	}

	hub := session.NewHub(session.StoreResolver{Users: store})
	tokens := auth.NewTokenStore(rc)
	notifier := auth.LogNotifier{Log: log}
	auditSvc := audit.NewService(store, log)

	authSvc := auth.NewService(store, tokens, notifier, hub, auth.Options{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.SessionTTL(),
		AppBaseURL: cfg.AppBaseURL,
	}, log)
	bookingSvc := bookings.NewService(store, rc, events, auditSvc, log, cfg.BookingCacheTTL())
	branchSvc := branches.NewService(store, auditSvc, log)
	vehicleSvc := vehicles.NewService(store, auditSvc, log)
	catalogSvc := catalog.NewService(store)
	ogplSvc := ogpl.NewService(store, rc, events, bookingSvc, photoStore, auditSvc, log)
	userSvc := users.NewService(store, tokens, notifier, hub, auditSvc, cfg.AppBaseURL, log)
	dashboardSvc := dashboard.NewService(bookingSvc, store)
	trackSvc := tracking.NewService(store)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.FiberErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public
	api.Post("/auth/signin", auth.SignInHandler(authSvc))
	api.Post("/auth/signup", auth.SignUpHandler(authSvc))
	api.Post("/auth/verify-email", auth.VerifyEmailHandler(authSvc))
	api.Post("/auth/reset-password", auth.RequestPasswordResetHandler(authSvc))
	api.Post("/auth/reset-password/confirm", auth.ConfirmPasswordResetHandler(authSvc))
	api.Get("/track/:lrNumber", tracking.TrackHandler(trackSvc))

	// Authenticated
	protected := api.Group("", auth.JWTMiddleware(cfg.JWTSecret, tokens, hub))
	protected.Post("/auth/signout", auth.SignOutHandler(authSvc))
	protected.Get("/auth/me", auth.MeHandler())

	dash := protected.Group("/dashboard")
	dash.Get("/bookings", bookings.ListBookingsHandler(bookingSvc))
	dash.Post("/bookings", bookings.CreateBookingHandler(bookingSvc))
	dash.Put("/bookings/:id/status", bookings.UpdateBookingStatusHandler(bookingSvc))
	dash.Delete("/bookings/:id", bookings.DeleteBookingHandler(bookingSvc))

	dash.Get("/stats", dashboard.StatsHandler(dashboardSvc))

	dash.Get("/branches", branches.ListBranchesHandler(branchSvc))
	dash.Get("/branches/:id", branches.GetBranchHandler(branchSvc))
	dash.Get("/branches/:id/summary", dashboard.BranchSummaryHandler(dashboardSvc))

	dash.Get("/vehicles", vehicles.ListVehiclesHandler(vehicleSvc))
	dash.Post("/vehicles", vehicles.CreateVehicleHandler(vehicleSvc))
	dash.Put("/vehicles/:id", vehicles.UpdateVehicleHandler(vehicleSvc))
	dash.Put("/vehicles/:id/status", vehicles.UpdateVehicleStatusHandler(vehicleSvc))
	dash.Delete("/vehicles/:id", vehicles.DeleteVehicleHandler(vehicleSvc))

	dash.Get("/parties", catalog.ListPartiesHandler(catalogSvc))
	dash.Post("/parties", catalog.CreatePartyHandler(catalogSvc))
	dash.Get("/articles", catalog.ListArticlesHandler(catalogSvc))
	dash.Post("/articles", catalog.CreateArticleHandler(catalogSvc))

	dash.Post("/ogpl", ogpl.CreateOGPLHandler(ogplSvc))
	dash.Get("/ogpl/incoming", ogpl.ListIncomingHandler(ogplSvc))
	dash.Get("/ogpl/unloadings", ogpl.ListUnloadingsHandler(ogplSvc))
	dash.Post("/ogpl/:id/load", ogpl.LoadBookingsHandler(ogplSvc))
	dash.Post("/ogpl/:id/unload", ogpl.UnloadHandler(ogplSvc))
	dash.Post("/ogpl/:id/photo-upload-url", ogpl.PhotoUploadURLHandler(ogplSvc))

	// Admin
	adminRoutes := protected.Group("/admin", auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/branches", branches.CreateBranchHandler(branchSvc))
	adminRoutes.Put("/branches/:id", branches.UpdateBranchHandler(branchSvc))
	adminRoutes.Delete("/branches/:id", branches.DeleteBranchHandler(branchSvc))

	adminRoutes.Get("/users", users.ListUsersHandler(userSvc))
	adminRoutes.Post("/users", users.InviteUserHandler(userSvc))
	adminRoutes.Put("/users/:id/role", users.UpdateUserRoleHandler(userSvc))
	adminRoutes.Put("/users/:id/branch", users.UpdateUserBranchHandler(userSvc))

	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(auditSvc))

	// Finance
	finance := protected.Group("/finance", auth.RequireRole(models.RoleAdmin, models.RoleAccountant))
	finance.Get("/summary", dashboard.FinanceSummaryHandler(dashboardSvc))

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
