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

	"github.com/redis/go-redis/v9"
	"github.com/thefavrs/backend/internal/config"
	"github.com/thefavrs/backend/internal/handler"
	"github.com/thefavrs/backend/internal/logging"
	"github.com/thefavrs/backend/internal/mail"
	"github.com/thefavrs/backend/internal/repository"
	"github.com/thefavrs/backend/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal(logger, "failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	contactRepo := repository.NewPgContactRepository(pool)
	subscriberRepo := repository.NewPgSubscriberRepository(pool)
	pageRepo := repository.NewPgPageRepository(pool)
	serviceOfferingRepo := repository.NewPgServiceOfferingRepository(pool)
	teamRepo := repository.NewPgTeamRepository(pool)

	// Without a provider key, mail goes to the log.
	var sender mail.Sender = mail.NewLogSender(logger)
	if cfg.MailEnabled() {
		sender = mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will be logged instead of sent")
	}
	notifier := mail.NewNotifier(sender, mail.NotifierConfig{
		SiteName:   cfg.SiteName,
		SiteURL:    cfg.SiteURL,
		Recipients: cfg.Recipients(),
	})
	notifications := service.NewNotifications(notifier, logger, cfg.MailTimeout)

	contactService := service.NewContactService(contactRepo, notifications)
	newsletterService := service.NewNewsletterService(subscriberRepo, notifications, cfg.ConfirmationTokenTTL)
	contentService := service.NewContentService(pageRepo, serviceOfferingRepo, teamRepo)
	clientLogService := service.NewClientLogService(logger)

	var memoryLimiters []*handler.MemoryLimiter
	newLimiter := func(n int) handler.Limiter {
		l := handler.NewMemoryLimiter(n)
		memoryLimiters = append(memoryLimiters, l)
		return l
	}
	if cfg.RedisURL != "" {
		rdb, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			logging.Fatal(logger, "failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		newLimiter = func(n int) handler.Limiter { return handler.NewRedisLimiter(rdb, n) }
		logger.Info("rate limiting backed by redis")
	}
	rateLimiter := func(n int) *handler.RateLimiter {
		return handler.NewRateLimiter(newLimiter(n), cfg.TrustedProxyCount, logger)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Base:       handler.New(pool, cfg.FrontendURL),
		Contact:    handler.NewContactHandler(contactService, logger),
		Newsletter: handler.NewNewsletterHandler(newsletterService, logger),
		Content:    handler.NewContentHandler(contentService, logger),
		Logs:       handler.NewLogHandler(clientLogService),
		Limits: handler.RateLimits{
			Writes: rateLimiter(cfg.RateLimitWritesPerMinute),
			Logs:   rateLimiter(cfg.RateLimitLogsPerMinute),
			Reads:  rateLimiter(cfg.RateLimitReadsPerMinute),
		},
		Logger: logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal(logger, "server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	for _, l := range memoryLimiters {
		l.Stop()
	}
	// Each delivery is bounded by MAIL_TIMEOUT.
	notifications.Wait()
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
