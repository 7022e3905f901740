package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rpgtoolkit"
	gamev1 "github.com/KirkDiggler/rpg-dungeon/internal/handlers/game/v1"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
)

var grpcPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the dungeon gRPC server with the configured storage.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides config)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if grpcPort != 0 {
		cfg.Server.Port = grpcPort
	}

	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStores(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer st.close()

	rng, err := newRandom(cfg.Game)
	if err != nil {
		return fmt.Errorf("failed to create random source: %w", err)
	}

	gameService, err := game.NewOrchestrator(&game.Config{
		Players: st.players,
		Random:  rng,
	})
	if err != nil {
		return fmt.Errorf("failed to create game orchestrator: %w", err)
	}

	bus := events.NewBus()
	rpgtoolkit.SubscribeAudit(bus, logger)

	handler, err := gamev1.NewHandler(&gamev1.HandlerConfig{
		Game:     gameService,
		Leases:   st.leases,
		IDGen:    idgen.NewUUID("session"),
		LeaseTTL: cfg.Session.LeaseTTL,
		Logger:   logger,
		Observe: func(next game.Notifier) game.Notifier {
			return publishTo(bus, next, logger)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create game handler: %w", err)
	}

	authn, err := gamev1.NewAuthenticator(&gamev1.AuthConfig{
		Enabled: cfg.Auth.Enabled,
		Secret:  cfg.Auth.Secret,
		Issuer:  cfg.Auth.Issuer,
		TTL:     cfg.Auth.TTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := newGRPCServer(logger, authn)
	gamev1.RegisterGameServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamev1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if cfg.Server.Reflection {
		reflection.Register(srv)
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("gRPC server starting",
			"port", cfg.Server.Port,
			"storage", cfg.Storage.Driver,
			"auth", cfg.Auth.Enabled)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gRPC server")
		healthServer.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			logger.Info("Server stopped gracefully")
		}
		return nil
	case err := <-errChan:
		return err
	}
}

// newGRPCServer builds the server with logging, recovery and, for the
// game service only, player authentication
func newGRPCServer(logger *slog.Logger, authn *gamev1.Authenticator) *grpc.Server {
	logOpts := []grpc_logging.Option{
		grpc_logging.WithLogOnEvents(grpc_logging.StartCall, grpc_logging.FinishCall),
	}
	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
			logger.ErrorContext(ctx, "Recovered from panic", "panic", p)
			return status.Error(codes.Internal, "internal error")
		}),
	}
	onlyGame := selector.MatchFunc(func(_ context.Context, c interceptors.CallMeta) bool {
		return c.Service == gamev1.ServiceName
	})

	return grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger), logOpts...),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger), logOpts...),
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
			selector.StreamServerInterceptor(grpc_auth.StreamServerInterceptor(authn.Authenticate), onlyGame),
		),
	)
}

// interceptorLogger adapts slog to the middleware logger
func interceptorLogger(l *slog.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(level), msg, fields...)
	})
}

// publishTo puts every session event on the bus before next sees it
func publishTo(bus events.EventBus, next game.Notifier, logger *slog.Logger) game.Notifier {
	n, err := rpgtoolkit.NewBusNotifier(&rpgtoolkit.BusNotifierConfig{Bus: bus, Next: next})
	if err != nil {
		logger.Warn("Game events will not be published", "error", err)
		return next
	}
	return n
}
