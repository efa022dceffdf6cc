package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/maloquacious/timetracker/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		port      int
		adminPort int
		exitAfter time.Duration
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the time tracker HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if cmd.Flags().Changed("admin-port") {
				a.cfg.AdminPort = adminPort
			}
			return a.runServe(cmd.Context(), exitAfter)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 8080, "public HTTP port (JSON entries API)")
	serveCmd.Flags().IntVar(&adminPort, "admin-port", 8383, "admin HTTP port (JSON, loopback only)")
	serveCmd.Flags().DurationVar(&exitAfter, "exit-after", 0, "optional runtime; if set, server exits after this duration (testing)")
	return serveCmd
}

// runServe starts both the public and admin servers over one shared store
// handle and shuts them down gracefully.
func (a *app) runServe(parent context.Context, exitAfter time.Duration) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.log.Error("close datastore: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	srv := server.New(s, a.log, version.String(), stop)

	publicSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Port),
		Handler: srv.PublicHandler(),
	}

	// Bind admin to 127.0.0.1 only (loopback enforcement)
	adminListener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", a.cfg.AdminPort))
	if err != nil {
		return fmt.Errorf("admin listener bind failed (loopback only): %w", err)
	}
	adminSrv := &http.Server{
		Handler: srv.AdminHandler(),
	}

	errCh := make(chan error, 2)

	go func() {
		a.log.Info("public server listening on :%d", a.cfg.Port)
		if err := publicSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("public server error: %w", err)
		}
	}()

	go func() {
		a.log.Info("admin server listening on 127.0.0.1:%d (JSON-only)", a.cfg.AdminPort)
		if err := adminSrv.Serve(adminListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("admin server error: %w", err)
		}
	}()

	var timer <-chan time.Time
	if exitAfter > 0 {
		a.log.Info("exit-after timer set: %s", exitAfter)
		timer = time.After(exitAfter)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case <-timer:
	case runErr = <-errCh:
		a.log.Error("server error: %v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	_ = publicSrv.Shutdown(shutdownCtx)
	_ = adminSrv.Shutdown(shutdownCtx)
	a.log.Info("shutdown complete")
	return runErr
}
