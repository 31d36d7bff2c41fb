package cmd

import (
	"context"
	"fmt"
	"time"

	"predictarena/api"
	"predictarena/config"
	"predictarena/database"
	"predictarena/events"
	"predictarena/repository"
	"predictarena/service"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting predictarena server...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	userService := service.NewUserService(uowFactory)
	votingService := service.NewVotingService(uowFactory)
	challengeService := service.NewChallengeService(uowFactory)
	resolutionService := service.NewResolutionService(uowFactory, cfg.IsAdmin)
	sweepstakesService := service.NewSweepstakesService(uowFactory, cfg.IsAdmin)
	achievementService := service.NewAchievementService(uowFactory)
	rewardsService := service.NewRewardsService(uowFactory)
	log.Info("Services initialized successfully")

	// Achievement evaluation runs off committed balance changes
	service.RegisterAchievementSubscriber(eventBus, achievementService)

	// Background sweeps
	scheduler, err := startScheduler(resolutionService, rewardsService)
	if err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// HTTP server
	server := api.NewServer(
		userService,
		votingService,
		challengeService,
		resolutionService,
		sweepstakesService,
		achievementService,
		rewardsService,
		cfg.IsAdmin,
	)
	app := api.NewApp(server)

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Infof("Server is running in %s mode", cfg.Environment)
		serverErr <- app.Listen(cfg.ListenAddr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down HTTP server")
	}

	if err := scheduler.Shutdown(); err != nil {
		log.WithError(err).Warn("Error shutting down scheduler")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// startScheduler wires the recurring sweeps: predictions past their
// close time stop accepting votes every few minutes, and the monthly PT
// reset runs daily (the sweep itself only touches users due for one, so
// running it more often than monthly is harmless).
func startScheduler(resolution service.ResolutionService, rewards service.RewardsService) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			closed, err := resolution.CloseExpiredPredictions(ctx)
			if err != nil {
				log.WithError(err).Error("Close sweep failed")
				return
			}
			if len(closed) > 0 {
				log.WithField("count", len(closed)).Info("Closed expired predictions")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.CronJob("10 0 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			result, err := rewards.RunMonthlyReset(ctx)
			if err != nil {
				log.WithError(err).Error("Monthly reset sweep failed")
				return
			}
			if result.UsersReset > 0 {
				log.WithField("usersReset", result.UsersReset).Info("Monthly reset completed")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
