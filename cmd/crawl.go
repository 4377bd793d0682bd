package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/matheuskafuri/hnsort/internal/classify"
	"github.com/matheuskafuri/hnsort/internal/config"
	"github.com/matheuskafuri/hnsort/internal/crawl"
	"github.com/matheuskafuri/hnsort/internal/export"
	"github.com/matheuskafuri/hnsort/internal/extract"
	"github.com/matheuskafuri/hnsort/internal/format"
	"github.com/matheuskafuri/hnsort/internal/listing"
	"github.com/matheuskafuri/hnsort/internal/logging"
	"github.com/matheuskafuri/hnsort/internal/order"
	"github.com/matheuskafuri/hnsort/internal/page"
	"github.com/matheuskafuri/hnsort/internal/update"
	iohandler "github.com/shouni/go-utils/iohandler"
	"github.com/spf13/cobra"
)

// newLauncher picks the page engine named in the config.
var newLauncher = func(cfg *config.Config) page.Launcher {
	if cfg.Engine == config.EngineHTTP {
		return page.NewHTTP(page.HTTPOptions{
			UserAgent:     cfg.UserAgent,
			RespectRobots: cfg.RespectRobots,
		})
	}
	return page.NewBrowser(page.BrowserOptions{
		Headful:   cfg.Headful,
		UserAgent: cfg.UserAgent,
		ExecPath:  cfg.ChromePath,
	})
}

var defaultExportPath = config.DefaultExportPath

// settings is the config file with explicitly set flags applied on top.
type settings struct {
	cfg       *config.Config
	direction order.Direction
	format    format.Format
	output    string
	verbose   bool
}

func resolveSettings(cmd *cobra.Command, opts *options) (*settings, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		if opts.target < 1 {
			return nil, fmt.Errorf("%w: --target must be at least 1, got %d", ErrInvalidOption, opts.target)
		}
		cfg.Target = opts.target
	}
	if flags.Changed("pages") {
		if opts.pages < 1 {
			return nil, fmt.Errorf("%w: --pages must be at least 1, got %d", ErrInvalidOption, opts.pages)
		}
		cfg.Pages = opts.pages
	}
	if flags.Changed("min-age") {
		if opts.minAge < 0 {
			return nil, fmt.Errorf("%w: --min-age must not be negative, got %d", ErrInvalidOption, opts.minAge)
		}
		cfg.MinAge = opts.minAge
	}
	if flags.Changed("order") {
		if _, err := order.ParseDirection(opts.order); err != nil {
			return nil, fmt.Errorf("%w: --order: %w", ErrInvalidOption, err)
		}
		cfg.Order = opts.order
	}
	if flags.Changed("kind") {
		if _, err := classify.ResolveAll(opts.kinds); err != nil {
			return nil, fmt.Errorf("%w: --kind: %w", ErrInvalidOption, err)
		}
		cfg.Kinds = opts.kinds
	}
	if flags.Changed("format") {
		if _, err := format.ParseFormat(opts.format); err != nil {
			return nil, fmt.Errorf("%w: --format: %w", ErrInvalidOption, err)
		}
		cfg.Format = opts.format
	}
	if flags.Changed("timeout") {
		if opts.timeoutMS < 1 {
			return nil, fmt.Errorf("%w: --timeout must be a positive number of milliseconds, got %d", ErrInvalidOption, opts.timeoutMS)
		}
		cfg.Timeout = (time.Duration(opts.timeoutMS) * time.Millisecond).String()
	}
	if flags.Changed("engine") {
		if opts.engine != config.EngineBrowser && opts.engine != config.EngineHTTP {
			return nil, fmt.Errorf("%w: --engine must be browser or http, got %q", ErrInvalidOption, opts.engine)
		}
		cfg.Engine = opts.engine
	}
	if flags.Changed("headful") {
		cfg.Headful = opts.headful
	}
	if flags.Changed("export-db") {
		cfg.ExportDB = opts.exportDB
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	dir, _ := order.ParseDirection(cfg.Order)
	f, _ := format.ParseFormat(cfg.Format)
	return &settings{
		cfg:       cfg,
		direction: dir,
		format:    f,
		output:    opts.output,
		verbose:   opts.verbose,
	}, nil
}

func (s *settings) logger(w io.Writer) *slog.Logger {
	return logging.New(w, logging.Level(s.cfg.Level(), s.verbose))
}

func (s *settings) controller(log *slog.Logger) *crawl.Controller {
	return crawl.New(newLauncher(s.cfg), extract.New(s.cfg.SelectorSet()), crawl.Options{
		StartURL: s.cfg.StartURL,
		Timeout:  s.cfg.TimeoutDuration(),
		Retry:    s.cfg.RetryPolicy(),
		Logger:   log,
	})
}

func (s *settings) orderOptions() order.Options {
	return order.Options{MinAge: s.cfg.MinAge, Direction: s.direction, Limit: s.cfg.Target}
}

// runCrawl does one crawl and warns when it stopped short of the target.
func (s *settings) runCrawl(ctx context.Context, log *slog.Logger) (*crawl.Result, error) {
	res, err := s.controller(log).Crawl(ctx, s.cfg.Target, s.cfg.Pages)
	if err != nil {
		return nil, fmt.Errorf("crawl failed: %w", err)
	}
	if len(res.Items) < s.cfg.Target {
		log.Warn("target not reached",
			"items", len(res.Items), "pages", res.Pages, "target", s.cfg.Target, "reason", res.Reason)
	}
	return res, nil
}

func runPrint(cmd *cobra.Command, opts *options) error {
	s, err := resolveSettings(cmd, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runID := logging.NewRunID()
	log := logging.ForRun(s.logger(cmd.ErrOrStderr()), runID)

	started := time.Now()
	res, err := s.runCrawl(ctx, log)
	if err != nil {
		return err
	}

	items := order.Apply(classify.Filter(res.Items, s.cfg.KindSet()...), s.orderOptions(), time.Now())
	out, err := format.Render(s.format, items)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, s.output, out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if s.cfg.ExportDB != "" {
		run := export.Run{
			ID:         runID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			StartURL:   s.cfg.StartURL,
			Engine:     s.cfg.Engine,
			Target:     s.cfg.Target,
			Pages:      res.Pages,
			Reason:     string(res.Reason),
		}
		if err := saveRun(s.cfg.ExportDB, run, items); err != nil {
			return fmt.Errorf("exporting run: %w", err)
		}
		log.Info("run exported", "path", s.cfg.ExportDB, "items", len(items))
	}
	return nil
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	return iohandler.WriteOutputString(path, content)
}

func saveRun(path string, run export.Run, items []listing.Item) error {
	db, err := export.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveRun(run, items)
}

func printUpdate(cmd *cobra.Command) {
	res := update.Check(cmd.Context(), version)
	if res == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No newer release found.")
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "A newer release is available: %s\n", res.LatestVersion)
	if res.URL != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.URL)
	}
}
