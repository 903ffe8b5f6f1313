package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	natsadapter "github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/payment"
	rediscache "github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/repository/cache"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/agent"
	memcache "github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/cache"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/sponsorship"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/usecase"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/tracer"
)

func main() {
	cfg := config.MustLoad()

	appLogger := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tp := tracer.InitTracer("feed-service")
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				appLogger.Warnf("tracer shutdown: %v", err)
			}
		}()
	}

	ctx := context.Background()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDB.Database)

	listingRepo := mongodb.NewListingRepository(db)
	sponsorshipRepo := mongodb.NewSponsorshipRepository(db)
	agentRepo := mongodb.NewAgentRepository(db)

	// In-process snapshot cache by default; a shared redis cache when an
	// address is configured.
	var snapshots domain.SnapshotCache = memcache.New(cfg.Feed.CacheTTL)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		snapshots = rediscache.NewFeedCache(redisClient, cfg.Feed.CacheTTL, appLogger)
	}

	var images domain.ImageResolver
	if cfg.MinIO.Endpoint != "" {
		images, err = s3.NewS3Storage(
			cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
			cfg.MinIO.Bucket, cfg.MinIO.UseSSL, cfg.MinIO.URLTTL, appLogger,
		)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("Failed to initialize NATS publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL, snapshots, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize NATS subscriber: %v", err)
	}
	defer subscriber.Close()
	if err := subscriber.Listen("listing.created", "listing.updated", "listing.deleted"); err != nil {
		log.Fatalf("Failed to subscribe to listing events: %v", err)
	}

	gateway := payment.NewGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.Timeout, appLogger)

	var receipts domain.ReceiptSender
	if cfg.SMTP.Host != "" {
		receipts = mailer.NewMailer(cfg.SMTP, appLogger)
	}

	ledger := sponsorship.NewLedger(sponsorshipRepo, appLogger)
	resolver := agent.NewResolver(agentRepo, appLogger)

	feedSvc := usecase.NewFeedService(listingRepo, ledger, resolver, snapshots, images, usecase.FeedConfig{
		PageSize:      cfg.Feed.PageSize,
		MaxCandidates: cfg.Feed.MaxCandidates,
	}, appLogger)

	sponsorshipSvc := usecase.NewSponsorshipService(
		listingRepo, sponsorshipRepo, ledger, gateway, agentRepo,
		publisher, receipts, usecase.DefaultPriceTable(), appLogger,
	)

	server := rest.NewServer(
		cfg.HTTPServer,
		cfg.Auth.JWTSecret,
		rest.NewFeedHandler(feedSvc, appLogger),
		rest.NewSponsorshipHandler(sponsorshipSvc, appLogger),
		appLogger,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		appLogger.Fatalf("REST server failed: %v", err)
	case sig := <-quit:
		appLogger.Infof("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("graceful shutdown failed: %v", err)
	}
}
