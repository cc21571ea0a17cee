package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfrederiksen/chapter-events/internal/config"
	"github.com/pfrederiksen/chapter-events/internal/ingest"
	"github.com/pfrederiksen/chapter-events/internal/logger"
	"github.com/pfrederiksen/chapter-events/internal/metrics"
	"github.com/pfrederiksen/chapter-events/internal/scraper"
	"github.com/pfrederiksen/chapter-events/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	format     string
	verbose    bool
}

// app is the wired service graph a subcommand runs against
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   storage.Store
	service *ingest.Service
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chapter-events",
		Short: "Curate the chapter's event list",
		Long: `Maintain the community chapter's event list.
Events are scraped from their Lu.ma pages or entered by hand, de-duplicated
and stored in the configured backend (local file, KV store, Gist or sheet).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format := OutputFormat(strings.ToLower(opts.format))
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
			}
			opts.format = string(format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (environment variables override it)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newFetchCmd(opts),
		newAddCmd(opts),
		newAddManualCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newExportICSCmd(opts),
	)

	return cmd
}

// newApp loads configuration and wires the service. One-shot commands log
// warnings and errors only unless --verbose is set.
func (o *rootOptions) newApp(quiet bool) (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	switch {
	case o.verbose:
		level = "DEBUG"
	case quiet:
		level = "WARN"
	}
	log, err := logger.New(cfg.Environment, level)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	m := metrics.New()
	store, err := storage.New(cfg.StorageOptions(), m, log)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	fetcher := scraper.NewFetcher(cfg.FetchTimeout, cfg.DefaultTimezone)
	service := ingest.NewService(store, fetcher, log, ingest.Options{
		AllowedHosts:    cfg.AllowedHosts,
		DefaultTimezone: cfg.DefaultTimezone,
		Metrics:         m,
	})

	return &app{cfg: cfg, log: log, metrics: m, store: store, service: service}, nil
}

func (o *rootOptions) outputFormat() OutputFormat {
	return OutputFormat(o.format)
}

// printError writes err to w with any guidance the error carries
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var ie *ingest.Error
	if errors.As(err, &ie) && ie.Guidance != "" {
		fmt.Fprintf(w, "%s\n", ie.Guidance)
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(ExitError)
	}
}
