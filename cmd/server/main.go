package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"habitud/internal/config"
	"habitud/internal/handler"
	"habitud/internal/httpserver"
	"habitud/internal/repository"
	"habitud/internal/service"
	"habitud/internal/util"
	"habitud/pkg/db"
	"habitud/pkg/logger"
	"habitud/pkg/mq"
	"habitud/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting habitud server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ publisher for notification and reminder events
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()
	log.Info("MQ publisher initialized", zap.String("exchange", mq.ExchangeName))

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	habitRepo := repository.NewHabitRepository(dbConn, log)
	recordRepo := repository.NewRecordRepository(dbConn, log)
	progressRepo := repository.NewProgressRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL())
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	habitService := service.NewHabitService(habitRepo, recordRepo, progressRepo, log)
	recordService := service.NewRecordService(recordRepo, progressRepo, habitRepo, userRepo, log)
	analyticsService := service.NewAnalyticsService(habitRepo, progressRepo, log)
	calendarService := service.NewCalendarService(habitRepo, recordRepo, progressRepo, log)
	notificationService := service.NewNotificationService(userRepo, subscriptionRepo, publisher, log)

	guard := util.NewReminderGuard(rdb, 25*time.Hour, log)
	reminderService := service.NewReminderService(userRepo, guard, publisher, log)

	// HTTP
	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		User:         handler.NewUserHandler(userService, log),
		Category:     handler.NewCategoryHandler(categoryService, log),
		Habit:        handler.NewHabitHandler(habitService, log),
		Record:       handler.NewRecordHandler(recordService, calendarService, log),
		Analytics:    handler.NewAnalyticsHandler(analyticsService, log),
		Notification: handler.NewNotificationHandler(notificationService, cfg.Push.VAPIDPublicKey, log),
	}, cfg, log, dbConn)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Reminder sweep every minute
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()

		if err := reminderService.CheckDueReminders(ctx); err != nil {
			log.Error("Reminder check failed", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("Failed to schedule reminder check", zap.Error(err))
	}
	scheduler.Start()
	log.Info("Reminder scheduler started", zap.String("schedule", "* * * * *"))

	log.Info("habitud is fully initialized and running",
		zap.String("http_port", cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down habitud gracefully...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("habitud shutdown complete")
}
