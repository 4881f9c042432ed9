// File: cleaningmanager/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cleaningmanager/config"
	"cleaningmanager/cron"
	"cleaningmanager/database"
	"cleaningmanager/database/repository"
	"cleaningmanager/database/store"
	"cleaningmanager/handlers"
	"cleaningmanager/middleware"
	"cleaningmanager/routes"
	"cleaningmanager/services/assignment"
	"cleaningmanager/services/availability"
	"cleaningmanager/services/cleaner"
	"cleaningmanager/services/notification"
	"cleaningmanager/services/tasks"
	"cleaningmanager/services/user"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	utils.FirebaseInit()
	utils.InitAuthCache()
	defer utils.CloseCaches()
	utils.InitMetrics()

	recordStore, closeStore, err := database.Open(rootCtx, config.AppConfig, utils.GetFirebaseApp(), logger)
	if err != nil {
		logger.Fatal("main: failed to open record store", zap.Error(err))
	}
	defer closeStore()

	// repositories.
	repos := repository.NewSet(recordStore)

	// services.
	var notifier notification.NotificationService = notification.NoopNotificationService{}
	if utils.FCMClient != nil {
		fcm, err := notification.NewDefaultNotificationService(utils.FCMClient, logger.Named("notification"))
		if err != nil {
			logger.Fatal("main: failed to initialize notifications", zap.Error(err))
		}
		notifier = fcm
	}

	identity, err := user.NewFirebaseIdentityProvider(rootCtx, utils.GetFirebaseApp(), config.AppConfig.FirebaseAPIKey)
	if err != nil {
		logger.Fatal("main: failed to initialize identity provider", zap.Error(err))
	}
	sessionCache := user.NewRedisSessionCache(utils.GetAuthCacheClient(), config.SessionCacheTTL())
	sessionNotifier := user.NewSessionNotifier()
	unsubscribe := sessionNotifier.Subscribe(func(e user.SessionEvent) {
		logger.Info("session event", zap.String("type", string(e.Type)), zap.String("uid", e.UID))
	})
	defer unsubscribe()

	userService := user.NewDefaultUserService(repos.Users, identity, sessionCache, sessionNotifier, logger.Named("user"))
	cleanerService := cleaner.NewDefaultCleanerService(repos.Cleaners, logger.Named("cleaner"))
	availabilityService := availability.NewDefaultAvailabilityService(repos.Availability, repos.Links, logger.Named("availability"))
	assignmentService := assignment.NewDefaultAssignmentService(repos.Assignments, notifier, logger.Named("assignment"))
	board := assignment.NewBoard(assignmentService, cleanerService, 30*time.Second, logger.Named("board"))

	// background sync.
	var queue tasks.Enqueuer
	if config.AppConfig.BackgroundSyncEnabled {
		client := asynq.NewClient(cron.QueueRedisOpt())
		defer client.Close()
		queue = client

		worker := cron.InitSyncWorker(rootCtx, assignmentService, logger.Named("sync"))
		defer worker.Shutdown()
	}

	var pinger utils.Pinger
	if hc, ok := recordStore.(store.HealthChecker); ok {
		pinger = hc
	}
	utils.StartHealthMonitor(rootCtx, []*redis.Client{utils.GetAuthCacheClient()}, pinger)

	handlerBundle := &handlers.HandlerBundle{
		Sessions:     userService,
		RateLimiter:  middleware.NewRateLimiter(config.AppConfig.MaxRequestsPerMin),
		Auth:         handlers.NewAuthHandler(userService),
		Assignments:  handlers.NewAssignmentHandler(assignmentService, board, queue),
		Migration:    handlers.NewMigrationHandler(assignmentService, board),
		Cleaners:     handlers.NewCleanerHandler(cleanerService),
		Availability: handlers.NewAvailabilityHandler(availabilityService, cleanerService),
		Schedule:     handlers.NewScheduleHandler(board),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
