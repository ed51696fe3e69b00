package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/imrishuroy/go-storefront/internal/admin"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/handlers"
	"github.com/imrishuroy/go-storefront/internal/idempotency"
	"github.com/imrishuroy/go-storefront/internal/orders"
	"github.com/imrishuroy/go-storefront/internal/session"
	"github.com/imrishuroy/go-storefront/internal/snapshot"
)

// breaker settings for remote snapshot backends
const (
	breakerMaxFailures = 3
	breakerCooldown    = 30 * time.Second
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

// snapshotFactory returns a constructor for the configured snapshot backend.
// Remote backends are wrapped in a circuit breaker.
func snapshotFactory(cfg config.Config, clients *aws.Clients) (func(key string) snapshot.Store, error) {
	switch cfg.SnapshotBackend {
	case config.BackendMemory:
		return func(string) snapshot.Store { return snapshot.NewMemory() }, nil
	case config.BackendFile:
		return func(key string) snapshot.Store { return snapshot.NewFile(cfg.SnapshotDir, key) }, nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		return func(key string) snapshot.Store {
			return snapshot.NewBreakerStore("redis-"+key, snapshot.NewRedisStore(rdb, key), breakerMaxFailures, breakerCooldown)
		}, nil
	case config.BackendDynamoDB:
		if clients == nil {
			return nil, fmt.Errorf("dynamodb snapshot backend needs aws clients")
		}
		return func(key string) snapshot.Store {
			return snapshot.NewBreakerStore("dynamodb-"+key, snapshot.NewDynamoStore(clients.DynamoDB, cfg.SnapshotTable, key), breakerMaxFailures, breakerCooldown)
		}, nil
	}
	return nil, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
}

// buildApp wires the stores. clients may be nil when nothing AWS-backed is configured.
func buildApp(ctx context.Context, cfg config.Config, clients *aws.Clients) (handlers.HandlerConfig, error) {
	newSnapshot, err := snapshotFactory(cfg, clients)
	if err != nil {
		return handlers.HandlerConfig{}, err
	}

	cat := catalog.Default()
	sessions := session.NewStore(ctx, session.DefaultDirectory(), newSnapshot(snapshot.SessionKey),
		session.WithLatency(cfg.AuthLatency))
	cartStore := cart.NewStore(ctx, newSnapshot(snapshot.CartKey))

	orderOpts := []orders.Option{orders.WithSeed(orders.SeedOrders(cat))}
	if cfg.OrdersTable != "" {
		orderOpts = append(orderOpts, orders.WithJournal(orders.NewDynamoJournal(clients.DynamoDB, cfg.OrdersTable)))
	}
	orderStore := orders.NewStore(orderOpts...)

	svc := &checkout.Service{
		Sessions: sessions,
		Cart:     cartStore,
		Orders:   orderStore,
	}
	if cfg.IdempotencyTable != "" {
		svc.Idempotency = idempotency.NewDynamoStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL)
	} else {
		svc.Idempotency = idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}
	if cfg.QueueURL != "" {
		svc.Publisher = aws.NewPublisher(clients.SQS, cfg.QueueURL)
	}
	if cfg.MetricsNamespace != "" {
		svc.Metrics = aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace)
	}

	return handlers.HandlerConfig{
		Catalog:  cat,
		Sessions: sessions,
		Cart:     cartStore,
		Orders:   orderStore,
		Checkout: svc,
		Admin:    admin.NewService(cat, orderStore, sessions),
	}, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var clients *aws.Clients
	if cfg.UsesAWS() {
		clients, err = aws.NewClients(ctx)
		if err != nil {
			log.Fatalf("failed to init aws clients: %v", err)
		}
	}

	app, err := buildApp(ctx, cfg, clients)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}
	r := setupRouter(app)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		log.Printf("running local server on %s (snapshots: %s)", cfg.HTTPAddr, cfg.SnapshotBackend)
		if err := r.Run(cfg.HTTPAddr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
