package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"socialnet/config"
	database "socialnet/db"
	"socialnet/handler"
	"socialnet/media"
	"socialnet/middleware"
	natsClient "socialnet/nats"
	"socialnet/pkg/jwt"
	"socialnet/publisher"
	"socialnet/repository"
	"socialnet/service"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create database connection
	dbConn, err := database.NewConnection(database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connected successfully")

	if err := dbConn.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs the like-count cache; the service runs without it.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: 10,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Redis connected successfully")
	}

	// NATS carries domain events; publishing is skipped when unset.
	var events *publisher.EventPublisher
	if cfg.NATS.URL != "" {
		nc, err := natsClient.NewClient(natsClient.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		})
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Close()
		log.Println("NATS connected successfully")
		events = publisher.NewEventPublisher(nc)
	}

	mediaStore, err := media.NewGridFSStore(ctx, cfg.Media.MongoURI, cfg.Media.DBName, cfg.Media.BaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to media store: %v", err)
	}
	defer mediaStore.Close(ctx)
	log.Println("Media store connected successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbConn.DB)
	profileRepo := repository.NewProfileRepository(dbConn.DB)
	postRepo := repository.NewPostRepository(dbConn.DB)
	followRepo := repository.NewFollowRepository(dbConn.DB)
	likeRepo := repository.NewLikeRepository(dbConn.DB, redisClient)

	// Initialize services
	feedService := service.NewFeedService(postRepo, userRepo, profileRepo, likeRepo)
	profileService := service.NewProfileService(userRepo, profileRepo, followRepo)
	postService := service.NewPostService(postRepo, mediaStore, events)
	followService := service.NewFollowService(userRepo, followRepo, events)
	likeService := service.NewLikeService(postRepo, likeRepo, events)

	jwtManager := jwt.NewManager(cfg.JWT.Secret)
	auth := middleware.NewAuth(jwtManager, userRepo)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.RegisterRoutes(router, auth, handler.Handlers{
		Auth:    handler.NewAuthHandler(userRepo, profileRepo, mediaStore, jwtManager, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry),
		Users:   handler.NewUserHandler(userRepo, mediaStore),
		Profile: handler.NewProfileHandler(profileService),
		Posts:   handler.NewPostHandler(postService, feedService),
		Follow:  handler.NewFollowHandler(followService),
		Likes:   handler.NewLikeHandler(likeService),
		Media:   handler.NewMediaHandler(mediaStore),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
