package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bigoffice/internal/activity"
	"bigoffice/internal/audit"
	jwttoken "bigoffice/internal/jwt_token"
	"bigoffice/internal/office"
	"bigoffice/internal/officer"
	"bigoffice/internal/platform/config"
	"bigoffice/internal/platform/database"
	"bigoffice/internal/platform/health"
	"bigoffice/internal/platform/logger"
	"bigoffice/internal/platform/redis"
	"bigoffice/internal/platform/tracer"
	"bigoffice/internal/policy"
	"bigoffice/internal/transition"
	httptransport "bigoffice/internal/transport/http"
	"bigoffice/internal/unmask"
	"bigoffice/internal/visibility"
)

// stores groups every persistence backend so the postgres and in-memory
// assemblies stay symmetric.
type stores struct {
	policies     policy.Store
	officers     officer.Store
	offices      office.OfficeStore
	designations office.DesignationStore
	activities   activity.Store
	audits       audit.Store
	unmasks      unmask.Store
	transitions  transition.Store

	engine database.Engine
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthHandler := health.New(os.Getenv("ENVIRONMENT"))

	st, cleanup, err := buildStores(cfg, log, healthHandler)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := policy.Seed(ctx, st.policies); err != nil {
		return err
	}

	policySvc, err := policy.NewService(st.policies, log)
	if err != nil {
		return err
	}

	recorder := audit.NewRecorder(st.audits, log, audit.WithQueueSize(cfg.AuditBuffer))
	defer recorder.Close()

	trc := tracer.NewOTel()

	unmaskOpts := []unmask.ServiceOption{
		unmask.WithTracer(trc),
		unmask.WithCodeTTL(cfg.MFACodeTTL),
		unmask.WithDefaultDailyMax(cfg.UnmaskDailyMax),
	}
	if cfg.RedisURL != "" {
		redisClient, err := redis.New(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		healthHandler.RegisterCheck("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(checkCtx)
		})
		unmaskOpts = append(unmaskOpts, unmask.WithCodeStore(unmask.NewRedisCodeStore(redisClient)))
	}

	unmaskSvc, err := unmask.NewService(
		st.unmasks, policySvc, st.officers, st.engine, recorder,
		unmask.NewLogDispatcher(log), log, unmaskOpts...,
	)
	if err != nil {
		return err
	}

	resolver := visibility.NewResolver(policySvc, log)
	filter := officer.NewFilterService(resolver, log,
		officer.WithUnmaskAdvisor(unmaskSvc),
		officer.WithAuditSink(recorder),
		officer.WithTracer(trc),
	)
	officerSvc, err := officer.NewService(st.officers, st.activities, st.engine, log)
	if err != nil {
		return err
	}
	transitionSvc, err := transition.NewService(
		st.officers, st.offices, st.designations,
		st.transitions, st.activities, st.engine, log,
		transition.WithTracer(trc),
	)
	if err != nil {
		return err
	}

	jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, "bigoffice", "bigoffice-api", time.Hour)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Validator:      jwttoken.NewMiddlewareAdapter(jwtSvc),
		AdminToken:     cfg.AdminToken,
		TrustedProxies: cfg.TrustedProxies,

		Health:     healthHandler,
		Officers:   officer.NewHandler(officerSvc, filter, log),
		Unmask:     unmask.NewHandler(unmaskSvc, log),
		Transition: transition.NewHandler(transitionSvc, log),
		Policies:   policy.NewHandler(policySvc, log),
		Audit:      audit.NewHandler(recorder, log),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sweeper := unmask.NewSweeper(st.unmasks, log, time.Minute)
		if err := sweeper.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildStores assembles the postgres-backed stack when DATABASE_URL is set
// and falls back to the in-memory stack otherwise.
func buildStores(cfg config.Server, log *slog.Logger, healthHandler *health.Handler) (*stores, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL unset, using in-memory stores")
		policies := policy.NewInMemoryStore()
		officers := officer.NewInMemoryStore()
		offices := office.NewInMemoryOfficeStore()
		designations := office.NewInMemoryDesignationStore()
		activities := activity.NewInMemoryStore()
		unmasks := unmask.NewInMemoryStore()
		transitions := transition.NewInMemoryStore()
		return &stores{
			policies:     policies,
			officers:     officers,
			offices:      offices,
			designations: designations,
			activities:   activities,
			audits:       audit.NewInMemoryStore(),
			unmasks:      unmasks,
			transitions:  transitions,
			engine: database.NewMemManager(log,
				officers, offices, designations, activities, unmasks, transitions,
			),
		}, func() {}, nil
	}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return nil, nil, err
	}
	healthHandler.RegisterCheck("database", func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Health(checkCtx)
	})

	db := pool.DB()
	return &stores{
		policies:     policy.NewPostgres(db),
		officers:     officer.NewPostgres(db),
		offices:      office.NewPostgresOfficeStore(db),
		designations: office.NewPostgresDesignationStore(db),
		activities:   activity.NewPostgres(db),
		audits:       audit.NewPostgres(db),
		unmasks:      unmask.NewPostgres(db),
		transitions:  transition.NewPostgres(db),
		engine:       database.NewManager(db, log),
	}, func() { _ = pool.Close() }, nil
}
