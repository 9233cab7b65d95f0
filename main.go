package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-redis/redis/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	_ "github.com/umalmyha/insurance-crm/docs"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/cache"
	"github.com/umalmyha/insurance-crm/internal/config"
	"github.com/umalmyha/insurance-crm/internal/handlers"
	"github.com/umalmyha/insurance-crm/internal/infra"
	"github.com/umalmyha/insurance-crm/internal/metrics"
	"github.com/umalmyha/insurance-crm/internal/repository"
	"github.com/umalmyha/insurance-crm/internal/service"
	"github.com/umalmyha/insurance-crm/internal/validation"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const connectTimeout = 10 * time.Second

// @title       Insurance CRM API
// @version     1.0
// @description Customers, insurance contracts, reminders and dashboard for insurance agents

// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := infra.Logger(cfg.LogCfg); err != nil {
		logrus.Fatal(err)
	}

	if err := run(cfg); err != nil {
		logrus.Fatal(err)
	}
}

//nolint:funlen // function wires all application components
func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	// Storage
	db, driver, err := infra.Database(connCtx, cfg.StorageCfg)
	if err != nil {
		return err
	}
	defer closeWithLog("database", db.Close)

	trx := transactor.NewSQLTransactor(db)
	txExecutor := transactor.NewSQLWithinTransactionExecutor(db)

	var customerRps repository.CustomerRepository
	switch cfg.StorageCfg.CustomerStore {
	case "mongo":
		var mongoClient *mongo.Client
		mongoClient, err = infra.Mongodb(connCtx, cfg.MongoCfg.URI)
		if err != nil {
			return err
		}
		defer closeWithLog("mongo", func() error { return mongoClient.Disconnect(context.Background()) })
		customerRps = repository.NewMongoCustomerRepository(mongoClient, cfg.MongoCfg.Database)
	case "sql":
		customerRps = repository.NewSQLCustomerRepository(driver, txExecutor)
	default:
		return fmt.Errorf("unknown customer store %s", cfg.StorageCfg.CustomerStore)
	}

	customerCache := cache.NewNoopCustomerCache()
	if cfg.RedisCfg.Addr != "" {
		var redisClient *redis.Client
		redisClient, err = infra.Redis(connCtx, cfg.RedisCfg)
		if err != nil {
			return err
		}
		defer closeWithLog("redis", redisClient.Close)
		customerCache = cache.NewRedisCustomerCache(redisClient)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Auth
	jwtCfg := cfg.AuthCfg.JwtCfg
	rfrTokenCfg := cfg.AuthCfg.RefreshTokenCfg
	jwtIssuer := auth.NewJwtIssuer(jwtCfg.Issuer, jwtCfg.SigningMethod, jwtCfg.TimeToLive, jwtCfg.PrivateKey)
	jwtValidator := auth.NewJwtValidator(jwtCfg.SigningMethod, jwtCfg.PublicKey)

	// Repositories
	userRps := repository.NewSQLUserRepository(driver, txExecutor)
	rfrTokenRps := repository.NewSQLRefreshTokenRepository(driver, txExecutor)
	learningRps := repository.NewSQLLearningContentRepository(driver, txExecutor)

	// Services
	svcs := infra.Services{
		Auth:      service.NewAuthService(jwtIssuer, &rfrTokenCfg, trx, userRps, rfrTokenRps),
		User:      service.NewUserService(trx, userRps),
		Customer:  service.NewCustomerService(trx, customerRps, customerCache, m),
		Dashboard: service.NewDashboardService(trx, customerRps, cfg.CalendarCfg.Location, time.Now, m),
		Learning:  service.NewLearningService(learningRps),
	}

	if cfg.AdminCfg.Password != "" {
		if err := svcs.User.EnsureAdmin(ctx, cfg.AdminCfg.Email, cfg.AdminCfg.Password, cfg.AdminCfg.FullName); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.ServerCfg.FilesDir, 0o750); err != nil {
		return fmt.Errorf("failed to create files directory - %w", err)
	}

	// Transports
	v, trans, err := validation.New()
	if err != nil {
		return err
	}

	app := infra.Router(svcs, jwtValidator, v, trans, infra.RouterCfg{
		AuthCfg: handlers.AuthCfg{
			HTTPS:              cfg.AuthCfg.HTTPS,
			RefreshTokenCookie: rfrTokenCfg.CookieName,
		},
		FilesDir: cfg.ServerCfg.FilesDir,
		Gatherer: registry,
	})
	grpcServer := infra.GrpcServer(svcs, jwtValidator, v)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ServerCfg.GrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen grpc port - %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("http server is listening on port %d", cfg.ServerCfg.HTTPPort)
		if err := app.Start(fmt.Sprintf(":%d", cfg.ServerCfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server stopped unexpectedly - %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logrus.Infof("grpc server is listening on port %d", cfg.ServerCfg.GrpcPort)
		if err := grpcServer.Serve(grpcListener); err != nil {
			return fmt.Errorf("grpc server stopped unexpectedly - %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logrus.Info("shutdown signal has been sent, stopping servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerCfg.ShutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		if err := app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop http server gracefully - %w", err)
		}
		return nil
	})

	return g.Wait()
}

func closeWithLog(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logrus.Errorf("failed to close %s - %v", name, err)
	}
}
