// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/opd-ai/go-sol/pkg/config"
	"github.com/opd-ai/go-sol/pkg/health"
	"github.com/opd-ai/go-sol/pkg/logging"
	"github.com/opd-ai/go-sol/pkg/network"
	"github.com/opd-ai/go-sol/pkg/sim"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Parse()

	if *createDefault {
		defaultConfig := config.DefaultConfig()
		if err := config.SaveConfig(defaultConfig, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	var gameConfig *config.GameConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	game := sim.NewGame(gameConfig, logger)
	gateway := network.NewGateway(game, envConfig, logger)

	// lastTick feeds the tick liveness probe.
	var lastTick atomic.Int64

	healthChecker := health.NewChecker()
	healthChecker.AddCheck(health.NewTickLivenessCheck(
		func() time.Time {
			ns := lastTick.Load()
			if ns == 0 {
				return time.Time{}
			}
			return time.Unix(0, ns)
		},
		5*time.Second,
	))
	healthChecker.AddCheck(health.NewQueueHealthCheck(
		func() uint64 { return game.Queue.MissedCommands() },
		uint64(gameConfig.TickRate),
	))
	healthChecker.AddCheck(health.NewGatewayHealthCheck(
		func() string { return gateway.Addr() },
	))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(int64(envConfig.MaxMemoryMB), func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	mux := http.NewServeMux()
	gateway.Routes(mux)
	mux.HandleFunc("/health", healthChecker.LivenessHandler)
	mux.HandleFunc("/ready", healthChecker.ReadinessHandler)

	httpServer := &http.Server{
		Addr:         gateway.Addr(),
		Handler:      mux,
		ReadTimeout:  envConfig.ReadTimeout,
		WriteTimeout: envConfig.WriteTimeout,
	}

	go func() {
		logger.Info(ctx, "Starting server",
			"address", httpServer.Addr,
			"max_clients", envConfig.MaxClients,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server failed", err)
			os.Exit(1)
		}
	}()

	game.Start()

	// The tick loop runs at the configured rate. The ticker only paces the
	// polls; simulation time advances in fixed dt steps, and a tick without
	// ready commands simply waits for the next poll.
	tickInterval := time.Second / time.Duration(gameConfig.TickRate)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

loop:
	for {
		select {
		case <-ticker.C:
			if game.Step() {
				lastTick.Store(time.Now().UnixNano())
				gateway.Broadcast(game.Snapshot())
			}
			if game.Status == sim.GameStatusEnded {
				logger.Info(ctx, "Match complete", "winner", game.WinnerID)
				break loop
			}
		case <-stop:
			logger.Info(ctx, "Shutting down server")
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown failed", err)
	}
}
