package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	"github.com/BruksfildServices01/lead-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/lead-scheduler/internal/db"
	domainAppointment "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	domainAvailability "github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/handlers"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/export"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/notify"
	infraRepo "github.com/BruksfildServices01/lead-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/lead-scheduler/internal/logger"
	"github.com/BruksfildServices01/lead-scheduler/internal/routes"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
	ucAnalytics "github.com/BruksfildServices01/lead-scheduler/internal/usecase/analytics"
	ucAppointment "github.com/BruksfildServices01/lead-scheduler/internal/usecase/appointment"
)

func main() {

	cfg, err := config.Load(os.Getenv("LEADSCHED_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]handlers.Check{}
	var closers []func()

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		appointments domainAppointment.Repository
		availability domainAvailability.Repository
	)

	switch cfg.DB.Driver {
	case "memory":
		log.Warn("using in-memory storage; data is lost on restart")
		store := infraRepo.NewMemoryStore()
		appointments, availability = store, store

	default:
		db, err := dbpkg.NewDB(cfg.DB, log)
		if err != nil {
			log.Fatal("database unavailable", zap.Error(err))
		}
		closers = append(closers, func() { _ = dbpkg.Close(db) })

		appointments = infraRepo.NewAppointmentGormRepository(db)
		availability = infraRepo.NewAvailabilityGormRepository(db)

		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	// ======================================================
	// SLOT LOCK + RATE LIMIT (redis optional)
	// ======================================================
	var (
		locker lock.Locker = lock.NewLocalLocker()
		rdb    redis.UniversalClient
	)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		redisLocker := lock.NewRedisLocker(client, cfg.Redis.LockTTL, cfg.Redis.LockWait)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisLocker.Ping(ctx)
		cancel()

		if err != nil {
			// several replicas without redis still rely on the unique slot index
			log.Warn("redis unreachable, using in-process slot lock", zap.Error(err))
			_ = client.Close()
		} else {
			locker = redisLocker
			rdb = client
			checks["redis"] = redisLocker.Ping
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	// ======================================================
	// AUDIT SINKS
	// ======================================================
	sinks := []audit.Sink{audit.NewLogSink(log)}

	if brokers := events.SplitBrokers(cfg.Kafka.Brokers); len(brokers) > 0 {
		kafkaSink := events.NewKafkaSink(brokers, cfg.Kafka.Topic)
		sinks = append(sinks, kafkaSink)
		closers = append(closers, func() { _ = kafkaSink.Close() })
		log.Info("publishing scheduling events to kafka",
			zap.Strings("brokers", brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	dispatcher := audit.NewDispatcher(log, sinks...)

	// ======================================================
	// SMS + REPORT STORAGE
	// ======================================================
	var sms notify.Sender = notify.NewLogSender(log)
	if cfg.Notify.SMSWebhookURL != "" {
		sms = notify.NewWebhookSender(cfg.Notify.SMSWebhookURL, cfg.Notify.SMSWebhookToken)
	}

	var uploader ucAnalytics.Uploader
	if cfg.Export.Bucket != "" {
		uploader = export.NewS3Uploader(export.S3Config{
			Bucket:          cfg.Export.Bucket,
			Region:          cfg.Export.Region,
			Endpoint:        cfg.Export.Endpoint,
			AccessKeyID:     cfg.Export.AccessKeyID,
			SecretAccessKey: cfg.Export.SecretAccessKey,
			Prefix:          cfg.Export.Prefix,
		})
	}

	// ======================================================
	// HTTP
	// ======================================================
	settings := ucAppointment.Settings{
		Location:        timezone.Location(cfg.Scheduling.Timezone),
		SlotLength:      cfg.SlotLength(),
		DefaultDuration: cfg.Scheduling.DefaultDurationMinutes,
		RebookURL:       cfg.Scheduling.RebookURL,
		SchedulingLink:  cfg.Scheduling.SchedulingLinkBase,
		EarlyAccess: ucAppointment.EarlyAccess{
			ScoreThreshold: cfg.EarlyAccess.ScoreThreshold,
			LeadIn:         cfg.EarlyAccess.LeadIn,
			PopularSlots:   cfg.EarlyAccess.PopularSlots,
		},
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          log,
		Appointments: appointments,
		Availability: availability,
		Locker:       locker,
		Audit:        dispatcher,
		SMS:          sms,
		Uploader:     uploader,
		Redis:        rdb,
		Settings:     settings,
		Checks:       checks,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("timezone", settings.Location.String()),
			zap.Bool("auth", cfg.AuthEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	// drain queued events before the sinks go away
	if err := dispatcher.Close(ctx); err != nil {
		log.Warn("audit queue not drained", zap.Error(err))
	}

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	log.Info("server stopped")
}
