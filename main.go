// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/go-core-stack/atomsphere-proxy/pkg/config"
	"github.com/go-core-stack/atomsphere-proxy/pkg/proxy"
	"github.com/go-core-stack/atomsphere-proxy/pkg/startup"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	listenAddr := pflag.String("listen-addr", "", "listen address, overrides ATOM_LISTEN_ADDR")
	logLevel := pflag.String("log-level", "", "log level, overrides ATOM_LOG_LEVEL")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", cfg.LogLevel).Msg("invalid log level")
	}
	log.Logger = log.Level(level)

	handler := proxy.New(cfg)

	// Listen explicitly so the bound port is known even when the OS assigns
	// an ephemeral one, then hand it to the startup reporter.
	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatal().Err(err).Str("listen_addr", cfg.ListenAddr).Msg("failed to bind")
	}
	boundPort := listener.Addr().(*net.TCPAddr).Port

	reporter := startup.NewReporter(cfg.NotifyFD, log.Logger)
	if err := reporter.Listening(boundPort); err != nil {
		log.Error().Err(err).Int("port", boundPort).Msg("failed to report bound port")
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", listener.Addr().String()).
			Str("platform", cfg.Platform.String()).
			Msg("starting atomsphere ops proxy")
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("proxy server exited unexpectedly")
		}
	}()

	waitForShutdown(context.Background(), server, cfg.GracefulShutdownTimeout)
}

func waitForShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	log.Info().Msg("shutting down atomsphere ops proxy")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed; forcing close")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	log.Info().Msg("proxy stopped")
}
