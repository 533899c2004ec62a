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

	"dispatch/cmd"
	grpcadapter "dispatch/internal/adapters/in/grpc"
	kafkain "dispatch/internal/adapters/in/kafka"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redis"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthProbeInterval = 10 * time.Second
)

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog, err := logger.New(config.LogMode)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, config, appLog); err != nil {
		appLog.Fatal("dispatch service stopped with error", "error", err)
	}
	appLog.Info("dispatch service stopped")
}

func run(ctx context.Context, config cmd.Config, appLog *logger.Logger) error {
	db, err := postgres.Open(ctx, config.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		_ = postgres.Close(db)
	}()

	if config.AutoMigrate {
		if err = postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		appLog.Info("database migrated", "schema", postgres.Schema)
	}

	rdb, err := redis.NewClient(ctx, config.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return err
	}

	publisher, err := kafkaout.NewEventPublisher(config.KafkaBrokers, config.KafkaClientID, collector, appLog)
	if err != nil {
		return err
	}
	defer publisher.Close()

	consumerGroup, err := kafkain.NewConsumerGroup(config.KafkaBrokers, config.KafkaConsumerGroup, config.KafkaClientID)
	if err != nil {
		return err
	}
	defer consumerGroup.Close()

	app := cmd.NewCompositionRoot(config, db, rdb, publisher, collector, appLog)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := newEcho(config.LogMode)
	if err = app.CreateHTTPServer().Register(e); err != nil {
		return fmt.Errorf("register http api: %w", err)
	}

	grpcServer := grpcadapter.NewServer(collector, appLog)
	lis, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%s", config.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	// shutdown is closed once; every long-running loop selects on it.
	shutdown := make(chan struct{})
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		appLog.Info("http server started", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		appLog.Info("grpc server started", "port", config.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		grpcServer.WatchHealth(groupCtx, healthProbeInterval, healthChecks(db, rdb)...)
		return nil
	})

	group.Go(func() error {
		consumer := app.CreateLocationConsumer()
		return consumer.Run(groupCtx, consumerGroup, config.KafkaLocationTopic, shutdown)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		appLog.Info("shutting down")
		close(shutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return e.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func newEcho(mode string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if mode == "prod" {
		e.Logger.SetLevel(log.WARN)
	} else {
		e.Logger.SetLevel(log.INFO)
	}
	return e
}

func healthChecks(db *gorm.DB, rdb goredis.UniversalClient) []grpcadapter.Check {
	return []grpcadapter.Check{
		{Name: "postgres", Probe: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
		{Name: "redis", Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}
}
