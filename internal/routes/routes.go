package routes

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	"github.com/BruksfildServices01/membership-api/internal/cache"
	"github.com/BruksfildServices01/membership-api/internal/config"
	domainEnrollment "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	domainEvent "github.com/BruksfildServices01/membership-api/internal/domain/event"
	"github.com/BruksfildServices01/membership-api/internal/handlers"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/membership-api/internal/infra/repository"
	"github.com/BruksfildServices01/membership-api/internal/middleware"
	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/notify"
	"github.com/BruksfildServices01/membership-api/internal/security"
	"github.com/BruksfildServices01/membership-api/internal/storage"
	"github.com/BruksfildServices01/membership-api/internal/timezone"
	ucEnrollment "github.com/BruksfildServices01/membership-api/internal/usecase/enrollment"
	ucEvent "github.com/BruksfildServices01/membership-api/internal/usecase/event"
	"github.com/BruksfildServices01/membership-api/internal/usecase/user"
	"github.com/BruksfildServices01/membership-api/internal/validators"
)

// Repository is everything the API needs from persistence. Both the gorm
// repository and the in-memory store satisfy it.
type Repository interface {
	domainEnrollment.Repository
	domainEvent.Repository
	user.Repository
	audit.Store
}

// Infra holds the adapters RegisterRoutes wires together. Nil fields get a
// default derived from cfg.
type Infra struct {
	Repo   Repository
	Store  storage.Store
	Locker ucEnrollment.Locker
	Sender notify.Sender
}

// NewInfra picks adapters from configuration. The returned closer releases
// the connections it opened.
func NewInfra(db *gorm.DB, cfg *config.Config, log *slog.Logger) (*Infra, func(), error) {
	in := &Infra{}
	closer := func() {}

	if db != nil {
		in.Repo = infraRepo.NewGormRepository(db)
	} else {
		log.Warn("using in-memory storage, data is lost on restart")
		in.Repo = memory.New(cfg.GuardPendingEnrollment)
	}

	if cfg.UsesS3() {
		in.Store = storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURL)
		if err != nil {
			return nil, nil, err
		}
		in.Store = local
	}

	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		in.Locker = cache.NewLocker(client, "membership:lock:")
		closer = func() { _ = client.Close() }
	} else {
		in.Locker = cache.NopLocker{}
	}

	if cfg.SendGridAPIKey != "" {
		in.Sender = notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	} else {
		log.Warn("SENDGRID_API_KEY not set, emails are only logged")
		in.Sender = notify.NewLogSender(log)
	}

	return in, closer, nil
}

// RegisterRoutes builds the use cases on top of infra and mounts the API.
// The returned func drains background queues and must run on shutdown.
func RegisterRoutes(r *gin.Engine, in *Infra, cfg *config.Config, log *slog.Logger) (func(), error) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	policy, err := domainEnrollment.NewPolicy(
		cfg.EnrollmentProvisioning,
		cfg.GuardExistingAccount,
		cfg.GuardPendingEnrollment,
	)
	if err != nil {
		return nil, err
	}

	templates, err := notify.ParseTemplates()
	if err != nil {
		return nil, err
	}

	notifyDispatcher := notify.NewDispatcher(in.Sender, log, cfg.NotifyWorkers, cfg.NotifyQueueSize)
	mailer := notify.NewMailer(notifyDispatcher, templates, notify.MailerConfig{
		AdminEmail:   cfg.AdminEmail,
		LoginURL:     cfg.LoginURL,
		DashboardURL: cfg.DashboardURL,
		Timezone:     cfg.Timezone,
	}, log)

	auditDispatcher := audit.NewDispatcher(audit.New(in.Repo), log)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	loc := timezone.Location(cfg.Timezone)

	closeAll := func() {
		notifyDispatcher.Close()
		auditDispatcher.Close()
	}

	// ======================================================
	// USE CASES
	// ======================================================
	submitUC := ucEnrollment.NewSubmitEnrollment(
		in.Repo,
		policy,
		in.Store,
		in.Locker,
		mailer,
		auditDispatcher,
		log,
	)
	if cfg.CheckEmailDomain {
		submitUC.WithDomainCheck(validators.IsEmailDomainValid)
	}

	reviewUC := ucEnrollment.NewReviewEnrollment(in.Repo, mailer, auditDispatcher, log)
	enrollmentQueries := ucEnrollment.NewQueries(in.Repo, auditDispatcher)

	createEventUC := ucEvent.NewCreateEvent(in.Repo, in.Store, auditDispatcher)
	updateEventUC := ucEvent.NewUpdateEvent(in.Repo, in.Store, auditDispatcher)
	registerUC := ucEvent.NewRegisterToEvent(in.Repo, mailer, auditDispatcher, log)
	eventQueries := ucEvent.NewQueries(in.Repo, auditDispatcher)

	users := user.NewService(in.Repo, tokens, in.Store, mailer, auditDispatcher, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(users, log)
	enrollmentHandler := handlers.NewEnrollmentHandler(submitUC, reviewUC, enrollmentQueries, log)
	eventHandler := handlers.NewEventHandler(createEventUC, updateEventUC, registerUC, eventQueries, loc, log)
	adminHandler := handlers.NewAdminHandler(users, enrollmentQueries, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(in.Repo, loc, log)

	if _, ok := in.Store.(*storage.LocalStore); ok {
		r.Static(cfg.UploadURL, cfg.UploadDir)
	}

	requireAuth := middleware.AuthMiddleware(tokens)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", requireAuth, authHandler.Me)
		api.PUT("/auth/password", requireAuth, authHandler.ChangePassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)
		api.PUT("/auth/profile", requireAuth, authHandler.UpdateProfile)

		// ------------------------------
		// ENROLLMENTS
		// ------------------------------
		api.POST("/enrollments", enrollmentHandler.Submit)
		api.GET("/enrollments/mine", requireAuth, enrollmentHandler.Mine)

		enrollments := api.Group("/enrollments", requireAuth, requireAdmin)
		{
			enrollments.GET("", enrollmentHandler.List)
			enrollments.GET("/:id", enrollmentHandler.Get)
			enrollments.PUT("/:id", enrollmentHandler.UpdateStatus)
			enrollments.DELETE("/:id", enrollmentHandler.Delete)
		}

		// ------------------------------
		// EVENTS
		// ------------------------------
		api.GET("/events", eventHandler.List)
		api.GET("/events/:slug", eventHandler.Get)
		api.POST("/events/:slug/register", middleware.OptionalAuth(tokens), eventHandler.Register)

		api.POST("/events", requireAuth, requireAdmin, eventHandler.Create)
		api.PUT("/events/:id", requireAuth, requireAdmin, eventHandler.Update)
		api.DELETE("/events/:id", requireAuth, requireAdmin, eventHandler.Delete)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/users", adminHandler.Users)
			admin.GET("/users/role/:role", adminHandler.UsersByRole)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, "route_not_found", "Route not found.")
	})

	if cfg.BootstrapAdminEmail != "" {
		created, err := users.EnsureAdmin(context.Background(), cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			closeAll()
			return nil, err
		}
		if created {
			log.Info("bootstrap administrator created", "email", cfg.BootstrapAdminEmail)
		}
	}

	return closeAll, nil
}
