package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/jonathan/swiftblocks/internal/config"
	"github.com/jonathan/swiftblocks/internal/observability"
	"github.com/jonathan/swiftblocks/internal/transpile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var translateCmd = &cobra.Command{
	Use:   "translate [files...]",
	Short: "Translate JavaScript files to Swift",
	Long: `Translate rewrites each JavaScript file into a .swift file next to it, or into --out.
With no files the source is read from stdin and the result written to stdout.`,
	RunE: runTranslate,
}

var (
	translateConfigPath string
	translateOut        string
	translateJobs       int
	translateVerbose    bool
)

func init() {
	translateCmd.Flags().StringVar(&translateConfigPath, "config", "", "Path to config.json file (output_dir, jobs and verbose; flags win)")
	translateCmd.Flags().StringVarP(&translateOut, "out", "o", "", "Directory for translated files (default: next to each input)")
	translateCmd.Flags().IntVarP(&translateJobs, "jobs", "j", runtime.NumCPU(), "Files translated concurrently")
	translateCmd.Flags().BoolVarP(&translateVerbose, "verbose", "v", false, "Print the rewrite trace of each input")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	pipeline := transpile.Default()

	cfg, err := translateConfig(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if cfg.Verbose {
			_, results := pipeline.Trace(string(source))
			observability.NewPrinter(cmd.ErrOrStderr()).PrintTrace(string(source), results)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), pipeline.Translate(string(source)))
		return err
	}

	var trace *observability.Printer
	if cfg.Verbose {
		trace = observability.NewPrinter(cmd.OutOrStdout())
	}
	written, err := translateFiles(cmd.Context(), pipeline, args, cfg.OutputDir, cfg.Jobs, trace)
	if err != nil {
		return err
	}
	for _, path := range written {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}

// translateConfig loads --config and applies the flags that were set on top.
func translateConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if translateConfigPath != "" {
		loaded, err := config.LoadConfig(translateConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("out") {
		cfg.OutputDir = translateOut
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = translateJobs
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = translateVerbose
	}
	return cfg.MergeWithDefaults(config.Config{Jobs: translateJobs}), nil
}

// translateFiles translates inputs concurrently and returns the written paths
// in input order. trace may be nil.
func translateFiles(ctx context.Context, pipeline transpile.Pipeline, inputs []string, outDir string, jobs int, trace *observability.Printer) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}

	targets := make([]string, len(inputs))
	claimed := make(map[string]string, len(inputs))
	for i, input := range inputs {
		targets[i] = swiftPath(input, outDir)
		if prev, ok := claimed[targets[i]]; ok {
			return nil, fmt.Errorf("%s and %s both translate to %s", prev, input, targets[i])
		}
		claimed[targets[i]] = input
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
		}
	}

	written := make([]string, len(inputs))
	var traceMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", input, err)
			}

			out, results := pipeline.Trace(string(source))
			if trace != nil {
				traceMu.Lock()
				trace.PrintTrace(string(source), results)
				traceMu.Unlock()
			}

			target := targets[i]
			if err := os.WriteFile(target, []byte(out), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			written[i] = target
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// swiftPath swaps the extension of input for .swift, placing the file in
// outDir when given.
func swiftPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".swift"
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}
