package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/travel-boot/appconfig"
	"github.com/SaiNageswarS/travel-boot/db"
	"github.com/SaiNageswarS/travel-boot/gateway"
	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/orchestrator"
	"github.com/SaiNageswarS/travel-boot/ratelimit"
	"github.com/SaiNageswarS/travel-boot/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if ccfgg.JWTSecret == "" {
		logger.Fatal("JWT-SECRET is not configured")
	}

	ctx := getCancellableContext()

	mongoClient := odm.ProvideMongoClient()
	if err := db.InitTravelDB(ctx, mongoClient, ccfgg.Tenant); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	model, err := llm.ProvideLLMClient(ccfgg.LLMProvider, ccfgg.LLMModel)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	conversations := memory.ProvideConversationManager(mongoClient, ccfgg.Tenant)

	retryPolicy := gateway.DefaultRetryPolicy()
	if ccfgg.AgentMaxAttempts > 0 {
		retryPolicy.MaxAttempts = ccfgg.AgentMaxAttempts
	}
	retryPolicy.BaseDelay = ccfgg.AgentBackoffBase()

	agents := gateway.New(
		gateway.DefaultRegistry(ccfgg.FlightAgentURL, ccfgg.AccommodationAgentURL, ccfgg.SightseeingAgentURL),
		gateway.WithTimeout(ccfgg.AgentTimeout()),
		gateway.WithRetryPolicy(retryPolicy),
	)

	travelOrchestrator, err := orchestrator.NewOrchestratorBuilder().
		WithModel(model).
		WithStore(conversations).
		WithAgents(agents).
		WithTitleMaxLength(ccfgg.TitleMaxLength).
		WithMaxContextUserTurns(ccfgg.MaxContextUserTurns).
		Build()
	if err != nil {
		logger.Fatal("Failed to build orchestrator", zap.Error(err))
	}

	auth := services.NewAuthenticator(ccfgg.JWTSecret, 24*time.Hour)
	router := services.NewRouter(
		services.ProvideTravelService(travelOrchestrator, conversations),
		services.ProvideLoginService(db.ProvideLoginRepository(mongoClient, ccfgg.Tenant), auth),
		auth,
		ratelimit.NewWindowLimiter(ccfgg.RateLimitRequests, ccfgg.RateLimitWindow()),
	)

	if err := serve(ctx, ccfgg, router); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// serve runs the HTTP API and the gRPC health endpoint until ctx is cancelled.
func serve(ctx context.Context, ccfgg *appconfig.AppConfig, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              portOrDefault(ccfgg.HTTPPort, ":8080"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(getKeepaliveOptions()...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcListener, err := net.Listen("tcp", portOrDefault(ccfgg.GRPCPort, ":50051"))
	if err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		logger.Info("Starting gRPC health server", zap.String("addr", grpcListener.Addr().String()))
		return grpcServer.Serve(grpcListener)
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("Shutting down")

		healthServer.Shutdown()
		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func portOrDefault(port, fallback string) string {
	if port == "" {
		return fallback
	}
	return port
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}

func getKeepaliveOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 30 * time.Second,
			Time:              30 * time.Second,
			Timeout:           5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             10 * time.Second,
			PermitWithoutStream: true,
		}),
	}
}
