package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/multierr"
	"google.golang.org/grpc"

	api "github.com/shoaibubaid/COUNTDOWN/internal/api/grpc/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/common"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/instance"
)

// Options controls the countdown daemon process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// Overrides replaces values read from the settings file.
	Overrides common.Overrides
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
// Pending timer writes are flushed before it returns.
func Run(ctx context.Context, opts *Options) (err error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "countdown-daemon")

	settings, err := common.LoadSettings(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Determine listen address: CLI argument overrides config.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	instance.WarnIfRunning(ctx, settings.DataFile)

	timers, err := common.OpenStore(ctx, settings)
	if err != nil {
		return fmt.Errorf("open timer store: %w", err)
	}

	defer func() {
		if closeErr := timers.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close timer store: %w", closeErr))
		}
	}()

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterTimerServiceServer(grpcServer, api.NewServer(newService(timers)))

	actor, actorErr := common.DetectActor()
	if actorErr != nil {
		actor = "unknown"
	}

	logger.InfoKV(
		ctx,
		"Countdown daemon listening",
		"listen_address", listenAddress,
		"backend", settings.Backend,
		"data_file", settings.DataFile,
		"actor", actor,
	)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err = grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// The override wins when provided; otherwise the configured address is used as is.
func resolveListenAddress(configAddr, override string) (string, error) {
	address := override
	if address == "" {
		address = configAddr
	}

	if address == "" {
		return "", ErrNoServerAddress
	}

	if _, _, err := net.SplitHostPort(address); err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", address, err)
	}

	return address, nil
}
