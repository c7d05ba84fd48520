package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-submitter/internal/config"
	"github.com/sangkips/template-submitter/internal/dispatch"
	"github.com/sangkips/template-submitter/internal/domains/templates"
	"github.com/sangkips/template-submitter/internal/logging"
	"github.com/sangkips/template-submitter/internal/table"
	"github.com/sangkips/template-submitter/internal/worker"
	"github.com/spf13/cobra"
)

var (
	sourcePath    string
	sheetName     string
	endpointURL   string
	outputPath    string
	exampleFormat string
	dryRun        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "submitter [source]",
		Short: "Submit message templates described in a spreadsheet",
		Long: `submitter reads template rows from a CSV, TSV or XLSX file, builds one
message template document per row and posts each one to the template API.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVar(&sourcePath, "source", "", "Template table to read (overrides SOURCE_PATH)")
	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet to read from an XLSX source (default: first sheet)")
	rootCmd.Flags().StringVar(&endpointURL, "endpoint", "", "Template API endpoint (overrides ENDPOINT_URL)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also write every built document to this JSON file")
	rootCmd.Flags().StringVar(&exampleFormat, "example-format", "", "Example shape: indexed or body_text")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build and log documents without sending them")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg, args)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	closer := logging.Setup(logging.Options{
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer closer.Close()

	rows, err := loadRows(cfg)
	if err != nil {
		return err
	}

	var sender dispatch.Sender
	if cfg.DryRun {
		log.Info().Msg("dry run: documents will not be sent")
		sender = dispatch.NewDryRunSender()
	} else {
		sender = dispatch.NewClient(dispatch.ClientConfig{
			EndpointURL: cfg.EndpointURL,
			AuthToken:   cfg.AuthToken,
			Cookie:      cfg.Cookie,
			Timeout:     cfg.HTTPTimeout,
		})
	}

	w := worker.NewWorker(templates.NewBuilder(templates.ExampleFormat(cfg.ExampleFormat)), sender)
	if cfg.OutputPath != "" {
		w.CollectDocuments()
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("received signal, stopping after current row")
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, runErr := w.Run(ctx, rows)

	if cfg.OutputPath != "" {
		if err := templates.WriteDocuments(cfg.OutputPath, summary.Documents); err != nil {
			log.Error().Err(err).Str("path", cfg.OutputPath).Msg("failed to write documents")
			return err
		}
		log.Info().Str("path", cfg.OutputPath).Int("documents", len(summary.Documents)).Msg("documents written")
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted after %d of %d rows: %w", summary.Rows, len(rows), runErr)
	}

	log.Info().Msg("All rows processed.")
	return nil
}

// loadRows reads the template table. Failure ends the run, so it is logged
// at fatal level; the caller still returns normally to flush the log file.
func loadRows(cfg *config.Config) ([]table.Row, error) {
	rows, err := table.Read(cfg.SourcePath, table.Options{Sheet: cfg.SheetName})
	if err != nil {
		log.WithLevel(zerolog.FatalLevel).Err(err).Str("source", cfg.SourcePath).Msg("failed to read template table")
		return nil, fmt.Errorf("failed to read %s: %w", cfg.SourcePath, err)
	}
	log.Info().Str("source", cfg.SourcePath).Int("rows", len(rows)).Msg("template table loaded")
	return rows, nil
}

// applyFlags lets explicitly set flags and the positional source win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) == 1 {
		cfg.SourcePath = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourcePath = sourcePath
	}
	if flags.Changed("sheet") {
		cfg.SheetName = sheetName
	}
	if flags.Changed("endpoint") {
		cfg.EndpointURL = endpointURL
	}
	if flags.Changed("output") {
		cfg.OutputPath = outputPath
	}
	if flags.Changed("example-format") {
		cfg.ExampleFormat = exampleFormat
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRun
	}
}
