package main

import (
	"context"
	"fmt"

	"github.com/jonathan/autoapply/internal/config"
	"github.com/jonathan/autoapply/internal/server"
	"github.com/jonathan/autoapply/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing profile, job board, auto-apply and order endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config or PORT, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}

	a, err := buildApp(ctx, cfg, true)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Store:       a.db,
		AutoApply:   a.autoApply,
		Billing:     a.reconciler,
		Tokens:      server.NewJWTService(jwtCfg).AsTokenValidator(),
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		OnShutdown:  a.Close,
	}
	if a.artifacts != nil {
		deps.Artifacts = a.artifacts
	}
	srv := server.New(server.Config{Port: cfg.Port}, deps)
	return srv.Start()
}
