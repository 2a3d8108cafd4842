package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"cognigenx/config"
	"cognigenx/db"
	"cognigenx/internal/memstore"
	"cognigenx/internal/ratelimit"
	"cognigenx/middlewares"
	"cognigenx/routes"
	"cognigenx/services"
	"cognigenx/structs"
	"cognigenx/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type stores struct {
	users    services.UserStore
	activity services.ActivityStore
	trivia   services.TriviaStore
}

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := structs.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	ctx := context.Background()
	st := openStores(ctx, cfg)
	defer db.Disconnect()

	if cfg.Database.Seed {
		if _, err := db.SeedTrivia(ctx, st.trivia); err != nil {
			log.Printf("Failed to seed trivia: %v", err)
		}
	}

	var llm services.TextGenerator
	if cfg.Gemini.ApiKey != "" {
		gemini, err := services.NewGeminiClient(ctx, cfg.Gemini.ApiKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("Gemini client unavailable, AI generation disabled: %v", err)
		} else {
			defer gemini.Close()
			llm = gemini
		}
	} else {
		log.Println("GEMINI_API_KEY not set, AI generation disabled")
	}
	generator := services.NewGenerator(cfg.Gemini.ApiKey, llm, time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second)

	var counter ratelimit.Counter
	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Redis unavailable, AI rate limiting disabled: %v", err)
		} else {
			defer rdb.Close()
			counter = rdb
			log.Println("Connected to Redis")
		}
	}

	svc := routes.Services{
		Auth: services.NewAuthService(st.users, st.activity, utils.NewSMTPMailer(cfg), services.AuthOptions{
			SessionTTL: time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
			ResetTTL:   time.Duration(cfg.Auth.ResetTTLMinutes) * time.Minute,
			ResetURL:   cfg.Auth.ResetURL,
			Policy: services.PasswordPolicy{
				MinLength:    cfg.Auth.PasswordMinLength,
				RequireMixed: cfg.Auth.PasswordRequireMixed,
			},
		}),
		Activity:  services.NewActivityService(st.activity),
		Questions: services.NewQuestionService(st.trivia, generator),
		Limiter:   ratelimit.NewRateLimiter(counter, "ai", cfg.RateLimit.GenerationPerMinute, time.Minute),
	}

	router := setupRouter(cfg, svc)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openStores connects to MongoDB, or falls back to an in-memory store when no URI is set
func openStores(ctx context.Context, cfg *config.Config) stores {
	if cfg.Database.URI == "" {
		log.Println("WARNING: MONGO_URI not set, using the in-memory store; data is lost on restart")
		mem := memstore.New()
		return stores{users: mem, activity: mem, trivia: mem}
	}

	if err := db.ConnectMongoDB(cfg.Database.URI, cfg.Database.Name); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	if err := db.EnsureIndexes(ctx, db.MongoDatabase); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	return stores{
		users:    db.NewUserRepository(db.MongoDatabase),
		activity: db.NewActivityRepository(db.MongoDatabase),
		trivia:   db.NewTriviaRepository(db.MongoDatabase),
	}
}

func setupRouter(cfg *config.Config, svc routes.Services) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middlewares.RequestIDHeader},
	}
	if len(cfg.CORS.AllowOrigins) == 1 && cfg.CORS.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))
	router.Use(middlewares.RequestIDMiddleware())

	routes.SetupRoutes(router, svc)
	return router
}
