package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/swiftblocks/internal/config"
	"github.com/jonathan/swiftblocks/internal/export"
	"github.com/jonathan/swiftblocks/internal/server"
	"github.com/jonathan/swiftblocks/internal/store"
	"github.com/spf13/cobra"
)

var (
	servePort  int
	serveStore string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for translating JavaScript and
exporting Xcode projects. Export routes require a bearer token when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveStore, "store", "", "Archive store: memory, postgres or s3 (default: STORE_BACKEND)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	storeCfg, err := config.StoreConfigFromEnv(serveStore)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, storeCfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", storeCfg.Backend, err)
	}
	defer func() { _ = st.Close() }()

	svc, err := export.NewService(st)
	if err != nil {
		return err
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		log.Println("JWT_SECRET not set, export routes are open")
	}

	srv, err := server.New(server.Config{
		Port:    servePort,
		Exports: svc,
		JWT:     jwtCfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	log.Printf("Using %s store", storeCfg.Backend)

	return srv.Start()
}
