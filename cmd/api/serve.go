package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	"github.com/BruksfildServices01/garage-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/garage-manager/internal/db"
	infraRepo "github.com/BruksfildServices01/garage-manager/internal/infra/repository"
	"github.com/BruksfildServices01/garage-manager/internal/logger"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
	"github.com/BruksfildServices01/garage-manager/internal/payments"
	"github.com/BruksfildServices01/garage-manager/internal/reminder"
	"github.com/BruksfildServices01/garage-manager/internal/routes"
	"github.com/BruksfildServices01/garage-manager/internal/storage"
	"github.com/BruksfildServices01/garage-manager/internal/validators"
)

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg)
	validators.Register()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ======================================================
	// 🗄️ DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}
	if err := dbpkg.Seed(ctx, db, cfg, log); err != nil {
		return err
	}

	// ======================================================
	// ⚡ CACHE (optional)
	// ======================================================
	var appCache cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, dashboard cache disabled")
		} else {
			appCache = rc
		}
	}
	defer appCache.Close()

	// ======================================================
	// 📝 AUDIT
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	// ======================================================
	// 🔔 NOTIFICATIONS
	// ======================================================
	pushRepo := infraRepo.NewPushGormRepository(db)

	var (
		notifier  *notification.Notifier
		publicKey string
	)
	sender, err := notification.NewWebPushSender(notification.VAPIDConfig{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subject:    cfg.VAPIDSubject,
	}, nil)
	switch {
	case err == nil:
		notifier = notification.NewNotifier(sender, pushRepo, log)
		publicKey = sender.PublicKey()
	case errors.Is(err, notification.ErrPushDisabled):
		log.Warn("VAPID keys not set, web push disabled")
	default:
		return err
	}

	var mailer notification.Mailer = notification.NopMailer{}
	if cfg.SMTPEnabled() {
		mailer = notification.NewSMTPMailer(notification.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	}

	var reminderNotifier reminder.Notifier
	if notifier != nil {
		reminderNotifier = notifier
	}
	poller := reminder.NewPoller(infraRepo.NewReminderGormRepository(db), reminderNotifier, mailer, log)
	scheduler, err := reminder.NewScheduler(cfg.ReminderSpec, poller, log)
	if err != nil {
		return err
	}

	// ======================================================
	// 📷 STORAGE / 💳 PIX
	// ======================================================
	var photos storage.ObjectStore = storage.Disabled{}
	if cfg.S3Enabled() {
		photos = storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		log.Warn("S3_BUCKET not set, photo uploads disabled")
	}

	var gateway payments.PixGateway = payments.Disabled{}
	if cfg.MPAccessToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MPAccessToken)
		if err != nil {
			return err
		}
		gateway = mp
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	deps := routes.Deps{
		DB:      db,
		Config:  cfg,
		Log:     log,
		Cache:   appCache,
		Audit:   auditDispatcher,
		Photos:  photos,
		Gateway: gateway,
	}
	if notifier != nil {
		deps.Notifier = notifier
		deps.PushPublicKey = publicKey
	}
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr()).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server failed")
			shutdown(srv, scheduler, auditDispatcher, log)
			return err
		}
	}

	shutdown(srv, scheduler, auditDispatcher, log)
	return nil
}

func shutdown(srv *http.Server, scheduler *reminder.Scheduler, auditDispatcher *audit.Dispatcher, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// On a failed shutdown handlers may still dispatch; the dispatcher
	// drops those once closed.
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := scheduler.Stop(ctx); err != nil {
		log.WithError(err).Warn("reminder scheduler stop")
	}
	if err := auditDispatcher.Close(ctx); err != nil {
		log.WithError(err).Warn("audit flush")
	}
}
