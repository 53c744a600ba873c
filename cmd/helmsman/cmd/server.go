package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ahlgren/helmsman/api"
	"github.com/ahlgren/helmsman/auth"
	"github.com/ahlgren/helmsman/config"
	"github.com/ahlgren/helmsman/directory"
	"github.com/ahlgren/helmsman/notify"
	"github.com/ahlgren/helmsman/session"
	"github.com/ahlgren/helmsman/ticket"
	"github.com/ahlgren/helmsman/token"
)

var (
	port    int
	tlsCert string
	tlsKey  string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the authentication service server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port != 0 {
			cfg.ListenPort = port
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		dir, err := directory.LoadFile(cfg.UsersFile)
		if err != nil {
			return fmt.Errorf("failed to load user directory: %w", err)
		}

		revoked := token.NewRevokedSet()
		issuer := token.NewIssuer(cfg.SigningSecret, cfg.TokenTTL, revoked)
		sessions := session.New[auth.Session](auth.SessionTTL)
		tickets := ticket.NewBroker()

		authCfg := auth.Config{
			Directory: dir,
			Hasher:    auth.NewMultiHasher(),
			Sessions:  sessions,
			Tokens:    issuer,
			OtpTTL:    cfg.OtpTTL,
			Logger:    logger,
		}
		if cfg.WebAuthnEnabled() {
			ceremony, err := auth.NewWebAuthnCeremony(cfg.WebAuthnRPID, cfg.WebAuthnOrigin, "Helmsman", dir)
			if err != nil {
				return fmt.Errorf("failed to configure webauthn: %w", err)
			}
			authCfg.Ceremony = ceremony
			logger.Info("webauthn enabled", "rp_id", cfg.WebAuthnRPID)
		}
		if cfg.DiscordEnabled() {
			authCfg.Otp = notify.NewDiscord(cfg.DiscordWebhookURL)
			logger.Info("one-time code delivery enabled")
		}

		orch := auth.New(authCfg)
		a := api.New(orch, issuer, tickets, api.WithLogger(logger))

		sweepCtx, stopSweep := context.WithCancel(context.Background())
		defer stopSweep()
		go auth.NewSweeper(sessions, tickets, revoked, logger).Run(sweepCtx)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount("/api/v1", a.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.ListenPort),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		serve := server.ListenAndServe
		if tlsCert != "" && tlsKey != "" {
			cert, err := tls.LoadX509KeyPair(tlsCert, tlsKey)
			if err != nil {
				return fmt.Errorf("failed to load TLS key pair: %w", err)
			}
			server.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
			serve = func() error { return server.ListenAndServeTLS("", "") }
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on port %d (users: %s)...\n", cfg.ListenPort, cfg.UsersFile)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides HELMSMAN_PORT)")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
}
