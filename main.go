package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"meetup-service/internal/auth"
	"meetup-service/internal/db"
	"meetup-service/internal/handlers"
	"meetup-service/internal/middleware"
	"meetup-service/internal/observability"
	"meetup-service/internal/rabbitmq"
	"meetup-service/internal/repositories"
	"meetup-service/internal/telemetry"
)

const serviceName = "meetup-service"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), serviceName, getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	amqpURL := getEnv("AMQP_URL", "")
	auditPublisher := rabbitmq.NewPublisher(amqpURL, getEnv("AUDIT_EXCHANGE", "meetup.audit"))
	defer auditPublisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))

	if eventPublisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("EVENT_EXCHANGE", "meetup.events")); err != nil {
		log.Printf("domain events disabled: %v", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	audit := telemetry.NewAuditEmitter(auditPublisher, "audit.meetup", serviceName, getEnv("ENVIRONMENT", "development"))
	tokens := auth.NewTokenManager(getEnv("JWT_SECRET", "dev-secret"), 24*time.Hour)

	userRepo := repositories.NewUserRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	membershipRepo := repositories.NewMembershipRepo(database)
	venueRepo := repositories.NewVenueRepo(database)
	eventRepo := repositories.NewEventRepo(database)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, audit)
	groupHandler := handlers.NewGroupHandler(groupRepo, audit)
	membershipHandler := handlers.NewMembershipHandler(groupRepo, membershipRepo, userRepo, audit)
	venueHandler := handlers.NewVenueHandler(groupRepo, membershipRepo, venueRepo, audit)
	eventHandler := handlers.NewEventHandler(groupRepo, membershipRepo, eventRepo, venueRepo, audit)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authRequired := middleware.AuthMiddleware(tokens)
	authOptional := middleware.OptionalAuthMiddleware(tokens)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/users", authHandler.Signup)
	router.POST("/session", authHandler.Login)
	router.GET("/session", authRequired, authHandler.Restore)

	router.POST("/groups", authRequired, groupHandler.CreateGroup)
	router.GET("/groups", groupHandler.ListGroups)
	router.GET("/groups/current", authRequired, groupHandler.ListCurrentGroups)
	router.GET("/groups/:groupId", authOptional, groupHandler.GetGroup)
	router.PUT("/groups/:groupId", authRequired, groupHandler.UpdateGroup)
	router.DELETE("/groups/:groupId", authRequired, groupHandler.DeleteGroup)
	router.POST("/groups/:groupId/images", authRequired, groupHandler.AddGroupImage)

	router.GET("/groups/:groupId/venues", authRequired, venueHandler.ListVenues)
	router.POST("/groups/:groupId/venues", authRequired, venueHandler.CreateVenue)

	router.GET("/groups/:groupId/events", eventHandler.ListGroupEvents)
	router.POST("/groups/:groupId/events", authRequired, eventHandler.CreateEvent)

	router.POST("/groups/:groupId/membership", authRequired, membershipHandler.RequestMembership)
	router.PUT("/groups/:groupId/membership", authRequired, membershipHandler.ChangeMembershipStatus)
	router.DELETE("/groups/:groupId/membership", authRequired, membershipHandler.DeleteMembership)
	router.GET("/groups/:groupId/members", authOptional, membershipHandler.ListMembers)

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
