package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-push-api/internal/application/dispatcher"
	"github.com/go-push-api/internal/config"
	"github.com/go-push-api/internal/infrastructure/dynamo"
	"github.com/go-push-api/internal/infrastructure/expo"
	jwtinfra "github.com/go-push-api/internal/infrastructure/jwt"
	s3infra "github.com/go-push-api/internal/infrastructure/s3"
	"github.com/go-push-api/internal/infrastructure/sns"
	transporthttp "github.com/go-push-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// Push transport: Expo-compatible HTTP endpoint by default, SNS mobile
	// push when configured.
	var pushTransport dispatcher.Transport
	if cfg.PushProvider == "sns" {
		sender, err := sns.NewSender(cfg)
		if err != nil {
			log.Fatalf("SNS push sender not available: %v", err)
		}
		pushTransport = sender
	} else {
		pushTransport = expo.NewClient(cfg)
	}

	// S3 store for audit exports.
	s3Client := s3infra.NewClient(cfg)
	exportStore := s3infra.NewStore(s3Client, cfg.S3BucketName)

	deps := &transporthttp.Deps{
		PushTokenRepo:    dynamo.NewPushTokenRepo(dynamoClient, cfg.DynamoTables.PushTokens),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		TodoRepo:         dynamo.NewTodoRepo(dynamoClient, cfg.DynamoTables.Todos),
		ExportStore:      exportStore,
		PushTransport:    pushTransport,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Broadcasts fan out sequentially, so responses can take a while.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, push=%s)", cfg.AppPort, cfg.AppEnv, cfg.PushProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
