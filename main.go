package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"catalog-pricer/chart"
	"catalog-pricer/config"
	"catalog-pricer/models"
	"catalog-pricer/pricing"
	"catalog-pricer/pricing/bestbuy"
	"catalog-pricer/services"
	"catalog-pricer/storage"
	"catalog-pricer/utils"
)

const usage = "Usage: catalog-pricer <path_to_csv>"

var errUsage = errors.New(usage)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog-pricer <path_to_csv>",
		Short: "Clean a product catalog and compare its prices with Best Buy",
		Long: `catalog-pricer reads a product catalog CSV, repairs common data-entry defects,
looks up an approximate Best Buy market price per category and writes a Markdown
report plus a price difference chart.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger := utils.NewLogger()
			logger.SetLevel(utils.ParseLevel(cfg.Logging.Level))
			logger.Debug("[main] %s", cfg)

			return newApp(cfg, logger).run(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "optional YAML config file")
	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.Config
	logger   *utils.Logger
	provider pricing.Provider
	renderer *chart.Renderer
	insights *services.InsightService
	progress bool

	newWriter func(path string, extra []string) (storage.RecordWriter, error)
}

func newCSVRecordWriter(path string, extra []string) (storage.RecordWriter, error) {
	w, err := storage.NewCSVWriter(path, extra)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func newApp(cfg *config.Config, logger *utils.Logger) *app {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		renderer: chart.NewRenderer(chart.NewChromeRasterizer(cfg.ChromeBin, 0), logger),
		insights: services.NewInsightService(logger),
		progress: cfg.Resolver.ShowProgress,

		newWriter: newCSVRecordWriter,
	}

	if cfg.HasCredential() {
		client, err := bestbuy.New(cfg.BestBuy.APIKey, cfg.LookupTimeout(),
			bestbuy.WithBaseURL(cfg.BestBuy.BaseURL),
			bestbuy.WithPageSize(cfg.BestBuy.PageSize),
		)
		if err != nil {
			logger.Warn("[main] Best Buy client unavailable: %v, using fallback prices", err)
		} else {
			a.provider = client
		}
	} else {
		logger.Warn("[main] BESTBUY_API_KEY not set, every category uses the fallback price $%.2f", pricing.FallbackPrice)
	}
	return a
}

func (a *app) run(ctx context.Context, path string, out io.Writer) error {
	opts := pricing.Options{
		Timeout:        a.cfg.LookupTimeout(),
		Attempts:       a.cfg.BestBuy.Attempts,
		MaxConcurrency: a.cfg.Resolver.MaxConcurrency,
		RateLimitMs:    a.cfg.Resolver.RateLimitMs,
	}
	var bar *progressbar.ProgressBar
	if a.progress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Resolving category prices"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnResolved = func(string, float64) { _ = bar.Add(1) }
	}

	resolver := pricing.NewResolver(a.provider, a.logger, opts)
	a.logger.Debug("[main] %s", resolver)
	pipeline := services.NewPipeline(storage.ReadTable, resolver, a.logger)

	result, err := pipeline.Run(ctx, path)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return loadError(path, err)
	}

	a.exportCSV(result)

	chartPath, err := a.renderer.Render(ctx, result.Records, a.cfg.Output.Chart)
	if err != nil {
		a.logger.Error("[main] Chart generation failed: %v", err)
		chartPath = ""
	}

	summary := services.Summarize(services.SummaryColumns(result.Columns), result.Records)
	report := storage.NewReportWriter(a.cfg.Output.Report)
	if err := report.Write(result, summary, chartPath); err != nil {
		return fmt.Errorf("Error writing report: %w", err)
	}

	a.insights.Print(out, a.insights.Generate(result))

	if chartPath == "" {
		fmt.Fprintf(out, "Generated %s\n", report.Path())
		return nil
	}
	fmt.Fprintf(out, "Generated %s and %s\n", report.Path(), chartPath)
	return nil
}

func (a *app) exportCSV(result *models.RunResult) {
	if a.cfg.Output.CleanedCSV == "" {
		return
	}

	var extra []string
	for _, f := range result.Findings {
		if f.Kind == models.ExtraColumns {
			extra = f.Columns
		}
	}

	w, err := a.newWriter(a.cfg.Output.CleanedCSV, extra)
	if err != nil {
		a.logger.Error("[main] Cleaned CSV export failed: %v", err)
		return
	}

	if err := w.Write(result.Records); err != nil {
		_ = w.Close()
		a.logger.Error("[main] Cleaned CSV export failed: %v", err)
		return
	}
	if err := w.Close(); err != nil {
		a.logger.Error("[main] Cleaned CSV export failed: %v", err)
		return
	}
	a.logger.Info("[main] Cleaned records saved to %s", a.cfg.Output.CleanedCSV)
}

func loadError(path string, err error) error {
	if errors.Is(err, storage.ErrSourceNotFound) {
		return fmt.Errorf("Error: File not found at path %s", path)
	}
	return fmt.Errorf("Error reading CSV: %w", err)
}
