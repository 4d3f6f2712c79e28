package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/fittrack/internal/account"
	"github.com/2beens/fittrack/internal/activity"
	"github.com/2beens/fittrack/internal/analytics"
	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/dashboard"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/guard"
	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/misc"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	backendClient *backend.Client
	workoutStore  *workouts.Store
	sessions      *session.RedisStore
	activity      *activity.Service
	analyzer      *analytics.Analyzer

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresUser            string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	activityRepo := activity.NewRepo(dbPool)
	if err := activityRepo.Migrate(ctx); err != nil {
		log.Errorf("failed to migrate activity schema: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fittrack", "bff", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fittrack-bff", rdb)
	if err != nil {
		return nil, err
	}

	backendClient := backend.NewClient(
		cfg.BackendURL,
		backend.NewHTTPClient(cfg.BackendTimeout()),
		metricsManager,
	)

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		backendClient: backendClient,
		workoutStore: workouts.NewStore(
			backendClient,
			cfg.WorkoutCacheSizeMB,
			time.Duration(cfg.WorkoutCacheTTLSeconds)*time.Second,
			metricsManager,
		),
		sessions: session.NewRedisStore(rdb, cfg.SessionTTL()),
		activity: activity.NewService(activityRepo, metricsManager),
		analyzer: analytics.NewAnalyzer(analytics.SystemClock),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fittrack-router"))

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	accountHandler := account.NewHandler(
		account.NewService(s.backendClient, s.sessions, s.workoutStore, s.activity, s.metricsManager),
	)

	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", accountHandler.HandleLogin).Methods("POST").Name("login")
	authRouter.HandleFunc("/signup", accountHandler.HandleSignup).Methods("POST").Name("signup")
	authRouter.HandleFunc("/logout", accountHandler.HandleLogout).Methods("POST").Name("logout")
	// rate limit the auth endpoints to slow down credential stuffing
	authRouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"auth",
		s.config.LoginRateLimit(),
		s.metricsManager,
	))

	r.HandleFunc("/me", accountHandler.HandleMe).Methods("GET").Name("me")
	r.HandleFunc("/me/refresh", accountHandler.HandleRefresh).Methods("POST").Name("me-refresh")
	r.HandleFunc("/me/profile", accountHandler.HandleOnboarding).Methods("PUT").Name("me-profile")

	guardHandler := guard.NewHandler()
	r.HandleFunc("/nav/resolve", guardHandler.HandleResolve).Methods("GET").Name("nav-resolve")

	dashboardHandler := dashboard.NewHandler(
		dashboard.NewService(s.workoutStore, s.analyzer, s.activity, s.metricsManager),
	)
	r.HandleFunc("/dashboard", dashboardHandler.HandleDashboard).Methods("GET").Name("dashboard")
	r.HandleFunc("/profile/stats", dashboardHandler.HandleProfileStats).Methods("GET").Name("profile-stats")
	r.HandleFunc("/workouts", dashboardHandler.HandleList).Methods("GET").Name("list-workouts")
	r.HandleFunc("/workouts", dashboardHandler.HandleAdd).Methods("POST").Name("new-workout")
	r.HandleFunc("/workouts/{id}", dashboardHandler.HandleDelete).Methods("DELETE").Name("delete-workout")

	activityHandler := activity.NewHandler(s.activity)
	r.HandleFunc("/activity/list/page/{page}/size/{size}", activityHandler.HandleList).Methods("GET").Name("list-activity")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessions)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return middleware.Cors(s.config.AllowedOrigins)(r)
}

func (s *Server) Serve() {
	ipAndPort := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()

	// stop taking requests first, in-flight ones still need redis and postgres
	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
	}
	log.Warnln("server shut down")
	if s.metricsHttpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
	}
	log.Warnln("metrics server shut down")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	for _, err := range multierr.Errors(shutdownErr) {
		log.Errorf(" >>> graceful shutdown: %s", err)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
