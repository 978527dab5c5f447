package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/swiftblocks/internal/config"
	"github.com/jonathan/swiftblocks/internal/export"
	"github.com/jonathan/swiftblocks/internal/observability"
	"github.com/jonathan/swiftblocks/internal/store"
	"github.com/jonathan/swiftblocks/internal/types"
	"github.com/jonathan/swiftblocks/internal/xcodeproj"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Package Swift or JavaScript source as an Xcode project archive",
	Long: `Export materializes a single-target SwiftUI project around the given source and writes
<name>.zip into --out. JavaScript given with --js is translated first.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runExport,
}

var (
	exportConfigPath   string
	exportName         string
	exportSwift        string
	exportJS           string
	exportOut          string
	exportUser         string
	exportBundlePrefix string
	exportStore        string
	exportVerbose      bool
)

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	exportCmd.Flags().StringVarP(&exportName, "name", "n", "", "Project name (a Swift identifier)")
	exportCmd.Flags().StringVar(&exportSwift, "swift", "", "Path to a Swift body for ContentView.swift")
	exportCmd.Flags().StringVar(&exportJS, "js", "", "Path to JavaScript to translate into ContentView.swift")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default: current directory)")
	exportCmd.Flags().StringVar(&exportUser, "user", "", "Account name for the xcuserdata directories")
	exportCmd.Flags().StringVar(&exportBundlePrefix, "bundle-prefix", "", "Bundle identifier prefix")
	exportCmd.Flags().StringVar(&exportStore, "store", "", "Also keep the archive in a store: memory, postgres or s3")
	exportCmd.Flags().BoolVarP(&exportVerbose, "verbose", "v", false, "Print the export summary and file tree")

	exportCmd.MarkFlagsMutuallyExclusive("swift", "js")
	exportCmd.MarkFlagsOneRequired("swift", "js")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Load config file if provided
	var cfg config.Config
	if exportConfigPath != "" {
		loadedCfg, err := config.LoadConfig(exportConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides
	if cmd.Flags().Changed("name") {
		cfg.ProjectName = exportName
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = exportOut
	}
	if cmd.Flags().Changed("user") {
		cfg.User = exportUser
	}
	if cmd.Flags().Changed("bundle-prefix") {
		cfg.BundlePrefix = exportBundlePrefix
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = exportStore
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = exportVerbose
	}

	// Step 3: Apply defaults and validate
	cfg = cfg.MergeWithDefaults(config.Config{
		User:         xcodeproj.DefaultUser,
		BundlePrefix: xcodeproj.DefaultBundlePrefix,
		OutputDir:    ".",
		Store:        config.BackendMemory,
	})
	if cfg.ProjectName == "" {
		return fmt.Errorf("--name must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 4: Read the body
	req := types.ExportRequest{
		ProjectName:  cfg.ProjectName,
		User:         cfg.User,
		BundlePrefix: cfg.BundlePrefix,
	}
	if exportSwift != "" {
		body, err := os.ReadFile(exportSwift)
		if err != nil {
			return fmt.Errorf("failed to read Swift file %s: %w", exportSwift, err)
		}
		req.Swift = string(body)
	} else {
		body, err := os.ReadFile(exportJS)
		if err != nil {
			return fmt.Errorf("failed to read JavaScript file %s: %w", exportJS, err)
		}
		req.JavaScript = string(body)
	}

	// Step 5: Open the store
	storeCfg, err := cfg.StoreConfig()
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

	// Step 6: Export and write the archive
	rec, path, err := writeExport(ctx, svc, req, cfg.OutputDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Verbose {
		archive, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to reread %s: %w", path, err)
		}
		tree, _, err := xcodeproj.ReadArchive(archive)
		if err != nil {
			return err
		}
		printer := observability.NewPrinter(out)
		printer.PrintExport(rec)
		printer.PrintFileTree(rec.ProjectName, tree)
	}

	_, _ = fmt.Fprintf(out, "Exported %s (%d bytes, %d files)\n", rec.ProjectName, rec.Size, rec.Entries)
	_, _ = fmt.Fprintf(out, "Output: %s\n", path)
	return nil
}

// writeExport runs req through svc and writes the stored archive into outDir.
func writeExport(ctx context.Context, svc *export.Service, req types.ExportRequest, outDir string) (*store.Record, string, error) {
	rec, err := svc.Export(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("export failed: %w", err)
	}
	archive, err := svc.Archive(ctx, rec.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load archive %s: %w", rec.ID, err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}
	path := filepath.Join(outDir, rec.FileName)
	if err := os.WriteFile(path, archive, 0644); err != nil {
		return nil, "", fmt.Errorf("failed to write archive %s: %w", path, err)
	}
	return rec, path, nil
}
