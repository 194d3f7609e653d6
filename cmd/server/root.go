package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"url-shortener-api/internal/app"
	"url-shortener-api/internal/config"

	"github.com/spf13/cobra"
)

var (
	configArg    string
	addrArg      string
	printConfArg bool
)

var rootCmd = &cobra.Command{
	Use:          "shortener-server",
	Short:        "shortener-server maps long URLs to short tokens and back.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configArg)
		if err != nil {
			return err
		}
		if addrArg != "" {
			cfg.Server.Addr = addrArg
		}
		if printConfArg {
			bytes, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(bytes))
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configArg, "config", "c", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&addrArg, "addr", "", "listen address, overrides server.addr")
	rootCmd.Flags().BoolVar(&printConfArg, "print-config", false, "print the effective configuration and exit")
}

func serve(ctx context.Context, cfg config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on %s (token width %d, cache %d entries, ttl %s)",
		cfg.Server.Addr, cfg.Token.Width, cfg.Cache.MaxEntries, cfg.Cache.TTL)
	log.Println("API endpoints:")
	log.Println("  POST   /api/shorten")
	log.Println("  GET    /api/recover/:token")
	log.Println("  GET    /api/cache/size")
	log.Println("  GET    /api/events")
	log.Println("  GET    /s/:token")
	log.Println("  GET    /health")
	log.Println("  GET    /metrics")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
