package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/activity"
	"github.com/gcoopmansS/Moovle-sub000/internal/auth"
	"github.com/gcoopmansS/Moovle-sub000/internal/cache"
	"github.com/gcoopmansS/Moovle-sub000/internal/config"
	"github.com/gcoopmansS/Moovle-sub000/internal/database"
	"github.com/gcoopmansS/Moovle-sub000/internal/events"
	"github.com/gcoopmansS/Moovle-sub000/internal/friendship"
	"github.com/gcoopmansS/Moovle-sub000/internal/geocode"
	"github.com/gcoopmansS/Moovle-sub000/internal/handler"
	"github.com/gcoopmansS/Moovle-sub000/internal/hub"
	"github.com/gcoopmansS/Moovle-sub000/internal/mail"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
	"github.com/gcoopmansS/Moovle-sub000/internal/notify"
	"github.com/gcoopmansS/Moovle-sub000/internal/profile"
	"github.com/gcoopmansS/Moovle-sub000/internal/repository/postgres"
	"github.com/gcoopmansS/Moovle-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	// Swagger imports
	_ "github.com/gcoopmansS/Moovle-sub000/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Moovle API
// @version         1.0
// @description     This is the API for the Moovle service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	// Connect to the database
	database.Connect(cfg.DatabaseURL)

	redisClient, err := cache.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	avatarStorage, err := storage.NewAvatarStorage(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessID:  cfg.MinioAccessID,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialise avatar storage: %v", err)
	}

	mailer := mail.NewMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	// Repositories
	userRepo := postgres.NewUserRepository(database.DB)
	friendshipRepo := postgres.NewFriendshipRepository(database.DB)
	activityRepo := postgres.NewActivityRepository(database.DB)
	notificationRepo := postgres.NewNotificationRepository(database.DB)
	categoryRepo := postgres.NewCategoryRepository(database.DB)

	if err := categoryRepo.Seed(context.Background()); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	// Services
	notifySvc := notify.NewService(notificationRepo, hub.NewHub())
	friendSvc := friendship.NewService(friendshipRepo, userRepo, notifySvc)
	activitySvc := activity.NewService(activityRepo, notifySvc)
	profileSvc := profile.NewService(userRepo, avatarStorage)
	geocoder := geocode.NewClient(cfg.GeocoderBaseURL, redisClient)
	resetCodes := &cache.ResetCodeStore{Client: redisClient}

	// Outbox relayer pushes staged notification events to Kafka. Without a
	// broker it just logs them.
	sender := notify.LogSender
	if cfg.KafkaBrokers != "" {
		producer := events.NewKafkaProducer(events.KafkaConfig{
			Brokers: strings.Split(cfg.KafkaBrokers, ","),
			Topic:   cfg.KafkaTopic,
		})
		defer producer.Close()
		sender = func(ctx context.Context, ob *models.NotificationOutbox) error {
			value, err := json.Marshal(ob)
			if err != nil {
				return err
			}
			return producer.Send(ctx, ob.UserID, value)
		}
	}
	go notify.NewOutboxRelayer(notificationRepo, sender).Run(context.Background())

	// Pending invitations for activities that already started are dead
	// weight; sweep them hourly.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		if n, err := activityRepo.SweepExpiredInvitations(context.Background(), time.Now()); err != nil {
			log.Printf("Invitation sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("Swept %d expired invitations", n)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule invitation sweep: %v", err)
	}
	scheduler.Start()

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, resetCodes, mailer)
	userHandler := handler.NewUserHandler(profileSvc, userRepo, friendSvc)
	friendHandler := handler.NewFriendHandler(friendSvc, userRepo, userHandler)
	activityHandler := handler.NewActivityHandler(activitySvc, friendSvc, userRepo, userHandler)
	invitationHandler := handler.NewInvitationHandler(activitySvc, userHandler)
	notificationHandler := handler.NewNotificationHandler(notifySvc)
	placeHandler := handler.NewPlaceHandler(geocoder)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/password-reset/request", authHandler.RequestPasswordReset)
			authRoutes.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware(), userHandler.TrackLastSeen())
		{
			userRoutes.GET("", userHandler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", userHandler.GetMe)
			userRoutes.PUT("/me", userHandler.UpdateMe)
			userRoutes.POST("/me/avatar", userHandler.UploadAvatar)
			userRoutes.GET("/me/friends", friendHandler.ListFriends)
			userRoutes.GET("/me/requests", friendHandler.ListRequests)
			userRoutes.GET("/:id", userHandler.GetUserByID)

			// Friendship routes
			userRoutes.POST("/:id/request", friendHandler.SendRequest)
			userRoutes.POST("/:id/accept", friendHandler.AcceptRequest)
			userRoutes.POST("/:id/decline", friendHandler.DeclineRequest)
			userRoutes.POST("/:id/block", friendHandler.BlockUser)
		}

		// Activity detail works with or without a token; public activities
		// are shareable by link. A token adds the viewer's join state.
		apiV1.GET("/activities/:id", auth.OptionalAuthMiddleware(), activityHandler.Get)

		// Activity routes (protected)
		activityRoutes := apiV1.Group("/activities")
		activityRoutes.Use(auth.AuthMiddleware(), userHandler.TrackLastSeen())
		{
			activityRoutes.POST("", activityHandler.Create)
			activityRoutes.GET("", activityHandler.Feed)
			activityRoutes.PUT("/:id", activityHandler.Update)
			activityRoutes.POST("/:id/cancel", activityHandler.Cancel)
			activityRoutes.POST("/:id/transfer", activityHandler.Transfer)
			activityRoutes.POST("/:id/join", activityHandler.Join)
			activityRoutes.POST("/:id/leave", activityHandler.Leave)
			activityRoutes.POST("/:id/invites", invitationHandler.Create)
		}

		// Invitation routes (protected)
		invitationRoutes := apiV1.Group("/invitations")
		invitationRoutes.Use(auth.AuthMiddleware())
		{
			invitationRoutes.GET("", invitationHandler.ListMine)
			invitationRoutes.POST("/:id/accept", invitationHandler.Accept)
			invitationRoutes.POST("/:id/decline", invitationHandler.Decline)
			invitationRoutes.DELETE("/:id", invitationHandler.Cancel)
		}

		// Notification routes (protected)
		notificationRoutes := apiV1.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware())
		{
			notificationRoutes.GET("", notificationHandler.List)
			notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
			notificationRoutes.GET("/stream", notificationHandler.Stream)
		}

		// Lookup routes (protected)
		lookupRoutes := apiV1.Group("")
		lookupRoutes.Use(auth.AuthMiddleware())
		{
			lookupRoutes.GET("/places/search", placeHandler.Search)
			lookupRoutes.GET("/categories", categoryHandler.List)
		}
	}

	log.Printf("Starting server on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
