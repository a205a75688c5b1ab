// Package app contains the application setup for the product service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xiillii/MassRoverApi/internal/config"
	"github.com/xiillii/MassRoverApi/internal/service"
	"github.com/xiillii/MassRoverApi/internal/store"
	"github.com/xiillii/MassRoverApi/internal/transport/rest"
	"github.com/xiillii/MassRoverApi/pkg/messaging"
	pnats "github.com/xiillii/MassRoverApi/pkg/nats"
	"github.com/xiillii/MassRoverApi/pkg/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const productsStream = "PRODUCTS"

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	Health         *health.Server

	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
}

// SetupDependencies builds the product service on a freshly seeded in-memory store.
func SetupDependencies(publisher messaging.Publisher, logger *slog.Logger, opts ...service.Option) *Dependencies {
	repo := store.NewInMemoryStore(store.SeedProducts(time.Now().UTC())...)
	pService := service.NewService(repo, publisher, logger, opts...)

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
		Health:         health.NewServer(),
	}
}

// SetupPublisher connects to NATS and returns a circuit-breaking JetStream publisher, or a
// NoopPublisher when NATS is disabled. The returned func closes the connection.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Info("NATS is disabled, product events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := pnats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	stream := cfg.Nats.Stream
	if stream == "" {
		stream = productsStream
	}
	if _, err := pnats.EnsureStream(ctx, js, stream, messaging.ProductsAllSubjects); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to prepare NATS stream: %w", err)
	}
	logger.Info("Successfully connected to NATS", "url", nc.ConnectedUrl(), "stream", stream)

	publisher := messaging.NewBreakerPublisher(
		pnats.NewNatsPublisher(js, cfg.Resilience.Retry),
		cfg.Resilience.CircuitBreaker,
		logger.With("component", "publisher"),
	)
	return publisher, nc.Close, nil
}

// SetupHttpHandler initializes the routes and middleware of the product service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "product-service",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// wireRoutes sets up the HTTP routes for the product service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server, which only serves the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, server.HealthRegistration(deps.Health))
}
