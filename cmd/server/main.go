package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentormatch-service/internal/app"
	"mentormatch-service/internal/calendar"
	"mentormatch-service/internal/config"
	"mentormatch-service/internal/meeting"
	"mentormatch-service/internal/notify"
	"mentormatch-service/internal/profile"
	"mentormatch-service/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL required")
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	profiles := profile.NewStore(pool)

	oauthCfg := calendar.NewOAuthConfig(cfg.Google)
	tokens := calendar.NewManager(calendar.NewPostgresTokenStore(pool), profiles, oauthCfg, logger)
	links := calendar.NewProvisioner(tokens, &calendar.GoogleEvents{Config: oauthCfg}, config.MeetLinkPrefix(), logger)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	notifier := notify.NewDispatcher(asynqClient, logger)

	worker := notify.NewWorker(redisOpt, notify.NewMailClient(cfg.Mail), logger)
	if err := worker.Start(); err != nil {
		log.Fatalf("failed to start email worker: %v", err)
	}
	defer worker.Stop()

	scheduler := meeting.NewScheduler(meeting.NewPostgresStore(pool), links, notifier, profiles, logger)

	a := &app.App{
		Profiles:  profiles,
		Scheduler: scheduler,
		Tokens:    tokens,
		Logger:    logger,
	}

	router := gin.Default()

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", a.GoogleOAuth2CallbackHandler)

	router.Use(app.AuthMiddleware(cfg.Auth))

	api := router.Group("/api")
	{
		api.GET("/mentees/:id/matches", a.MatchesHandler)

		parties := api.Group("/parties")
		{
			parties.GET("/:id/slots", a.SlotsHandler)
			parties.PUT("/:id/availability", a.SetAvailabilityHandler)
			parties.GET("/:id/meetings", a.ListMeetingsHandler)
			parties.DELETE("/:id", a.DeletePartyHandler)
		}

		meetings := api.Group("/meetings")
		{
			meetings.POST("", a.CreateMeetingHandler)
			meetings.GET("/:id", a.GetMeetingHandler)
			meetings.POST("/:id/approve", a.ApproveMeetingHandler)
			meetings.POST("/:id/propose", a.ProposeMeetingHandler)
		}

		api.GET("/calendar/auth", a.GoogleAuthHandler)
	}

	server.Run(router, cfg.Server)
}
