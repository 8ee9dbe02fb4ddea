package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seoule/salon/internal/auth"
	"github.com/seoule/salon/internal/config"
	"github.com/seoule/salon/internal/domain/user"
	"github.com/seoule/salon/internal/http/handlers"
	"github.com/seoule/salon/internal/http/middlewares"
	"github.com/seoule/salon/internal/observability"
	"github.com/seoule/salon/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

type RouterDeps struct {
	Config   config.Config
	Log      *slog.Logger
	Pool     *pgxpool.Pool
	Gate     *auth.Gate
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidators()

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("salon-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(middlewares.SecurityHeaders(cfg.IsProd()))
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health
	pool := deps.Pool
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	membersRepo := postgres.NewMembersRepo(pool, deps.Prom)
	staffRepo := postgres.NewStaffRepo(pool, deps.Prom)
	servicesRepo := postgres.NewServicesRepo(pool, deps.Prom)
	appointmentsRepo := postgres.NewAppointmentsRepo(pool, deps.Prom)

	authMw := middlewares.NewAuthMiddleware(deps.Gate)

	authHandler := handlers.NewAuthHandler(deps.Gate, handlers.CookieConfig{
		Secure: cfg.IsProd(),
		TTL:    cfg.SessionTTL,
	})
	membersHandler := handlers.NewMembersHandler(membersRepo)
	staffHandler := handlers.NewStaffHandler(staffRepo)
	servicesHandler := handlers.NewServicesHandler(servicesRepo)
	appointmentsHandler := handlers.NewAppointmentsHandler(appointmentsRepo)

	authGroup := r.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authMw.RequireAuth(), authHandler.Me)

	r.GET("/services", authMw.RequireRole(user.RoleMember), servicesHandler.ListServices)
	r.POST("/services", authMw.RequireRole(user.RoleAdmin), servicesHandler.CreateService)

	// staff and above from here on
	desk := r.Group("/", authMw.RequireRole(user.RoleStaff))

	desk.GET("/staff", staffHandler.ListStaff)
	desk.POST("/staff", authMw.RequireRole(user.RoleAdmin), staffHandler.CreateStaff)

	desk.GET("/members", membersHandler.ListMembers)
	desk.POST("/members", membersHandler.CreateMember)
	desk.GET("/members/:id", membersHandler.GetMember)
	desk.PUT("/members/:id", membersHandler.UpdateMember)

	desk.GET("/appointments", appointmentsHandler.ListAppointments)
	desk.POST("/appointments", appointmentsHandler.CreateAppointment)
	desk.GET("/appointments/:id", appointmentsHandler.GetAppointment)
	desk.PUT("/appointments/:id", appointmentsHandler.UpdateAppointment)
	desk.PATCH("/appointments/:id/status", appointmentsHandler.UpdateAppointmentStatus)
	desk.DELETE("/appointments/:id", authMw.RequireRole(user.RoleAdmin), appointmentsHandler.DeleteAppointment)

	return r
}
