// ABOUTME: The serve subcommand: the HTTP editor API with session cleanup and graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/patchbay/editor"
)

const cleanupInterval = time.Minute

func serveCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store := editor.NewStore(cfg)
			stopCleanup := store.StartCleanup(cleanupInterval)
			defer stopCleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           editor.NewServer(store),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			status(cmd.ErrOrStderr(), "Listening", "%s", cfg.Server.Addr)
			status(cmd.ErrOrStderr(), "Sessions", "max %d, idle ttl %s", cfg.Server.MaxSessions, cfg.Server.SessionTTL)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
