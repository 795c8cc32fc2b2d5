package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"devops-info-service/internal/config"
	"devops-info-service/internal/display"
	"devops-info-service/internal/httpserver"
	"devops-info-service/internal/info"
	"devops-info-service/internal/logger"
	"devops-info-service/internal/sysinfo"
	"devops-info-service/internal/uptime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// captured before anything else so uptime covers the whole process
	clock := uptime.New()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	sys := sysinfo.NewCollector(cfg.HostnameLookupTimeout)
	rep := info.NewReporter(cfg.ServiceName, cfg.ServiceVersion, clock, sys)

	r, err := httpserver.NewRouter(httpserver.RouterDeps{
		Config:   cfg,
		Logger:   log,
		Reporter: rep,
	})
	if err != nil {
		return fmt.Errorf("router init: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatusSerialPort != "" {
		d := display.NewSerial(cfg.StatusSerialPort, cfg.StatusSerialBaud, log)
		svc := rep.Service()
		go d.Start(ctx, func(ctx context.Context) display.Status {
			return display.Status{
				Name:     svc.Name,
				Version:  svc.Version,
				Hostname: sys.Hostname(ctx),
				Uptime:   uptime.Human(clock.Seconds()),
			}
		}, cfg.StatusInterval)
		log.Info().Str("port", cfg.StatusSerialPort).Int("baud", cfg.StatusSerialBaud).Msg("status display enabled")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("version", cfg.ServiceVersion).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
