package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hansard/internal/logger"
	"github.com/jmylchreest/hansard/internal/output"
	"github.com/jmylchreest/hansard/internal/source"
	"github.com/jmylchreest/hansard/pkg/cleaner"
	"github.com/jmylchreest/hansard/pkg/debates"
	"github.com/jmylchreest/hansard/pkg/hansard"
	"github.com/jmylchreest/hansard/pkg/people"
)

const dateLayout = "2006-01-02"

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse sitting days into debate records",
	Long: `Parse the transcripts of one or more sitting days.

Each date is parsed once per chamber. Days on which a chamber did not sit
are skipped. A day that fails to parse is reported and the remaining days
are still processed.

Examples:
  hansard parse --date 2009-03-12 --people members.yaml
  hansard parse --from 2009-03-09 --to 2009-03-13 --chamber reps \
      --people members.yaml --output-dir out/ --format jsonl`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	flags := parseCmd.Flags()

	// Day selection
	flags.StringSlice("date", nil, "sitting date(s) to parse, YYYY-MM-DD (can be repeated)")
	flags.String("from", "", "first date of a range, YYYY-MM-DD")
	flags.String("to", "", "last date of a range, YYYY-MM-DD (default: --from)")
	flags.StringSlice("chamber", []string{"representatives", "senate"}, "chamber(s) to parse: representatives, senate")

	// Inputs
	flags.String("people", "", "member directory file (YAML or JSON)")
	flags.String("cache-dir", "", "page cache directory; fetched pages are stored here")
	flags.Bool("offline", false, "read pages from --cache-dir only, never from the network")
	flags.String("index-url", source.DefaultIndexURL, "index page template ({date}, {chamber}, {house}, {year}, {month}, {day})")
	flags.String("link-selector", "a[href]", "CSS selector for sub-day links on the index page")
	flags.Int("skip-links", source.DefaultLinkWindow.Skip, "navigation links to skip before the table of contents")
	flags.Int("drop-links", source.DefaultLinkWindow.Drop, "navigation links to drop after the table of contents")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.Bool("no-canonicalize", false, "keep speech markup as published instead of canonicalizing it")

	// Output
	flags.StringP("format", "f", "json", "output format: json, jsonl, yaml")
	flags.StringP("output-dir", "o", "", "write one file per sitting day into this directory (default: stdout)")
	flags.Bool("pretty", true, "indent JSON output")

	_ = viper.BindPFlag("people", flags.Lookup("people"))
	_ = viper.BindPFlag("cache_dir", flags.Lookup("cache-dir"))
	_ = viper.BindPFlag("index_url", flags.Lookup("index-url"))
	_ = viper.BindPFlag("link_selector", flags.Lookup("link-selector"))
	_ = viper.BindPFlag("link_skip", flags.Lookup("skip-links"))
	_ = viper.BindPFlag("link_drop", flags.Lookup("drop-links"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("chambers", flags.Lookup("chamber"))
}

// runSummary counts what happened to the requested days.
type runSummary struct {
	parsed   int
	skipped  int
	failed   int
	speeches int
}

func runParse(cmd *cobra.Command, _ []string) error {
	if err := initLogging(); err != nil {
		logError("%v", err)
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("parse command starting")

	dateFlags, _ := cmd.Flags().GetStringSlice("date")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	dates, err := sittingDates(dateFlags, from, to)
	if err != nil {
		logError("%v", err)
		return err
	}
	if len(dates) == 0 {
		return cmd.Help()
	}

	chambers, err := parseChambers(viper.GetStringSlice("chambers"))
	if err != nil {
		logError("%v", err)
		return err
	}

	format, err := output.ParseFormat(viper.GetString("format"))
	if err != nil {
		logError("%v", err)
		return err
	}

	peoplePath := viper.GetString("people")
	if peoplePath == "" {
		err := errors.New("a member directory is required (--people or HANSARD_PEOPLE)")
		logError("%v", err)
		return err
	}
	dir, err := people.NewFlatFile(peoplePath)
	if err != nil {
		logger.Error("failed to load member directory", "path", peoplePath, "error", err)
		return err
	}
	logger.Debug("member directory loaded", "path", peoplePath, "members", len(dir.Members()))

	var cl cleaner.Cleaner
	if raw, _ := cmd.Flags().GetBool("no-canonicalize"); raw {
		cl = cleaner.NewNoop()
		logger.Debug("speech canonicalization disabled")
	} else {
		c, err := buildCleaner(viper.GetString("cleaner_config"))
		if err != nil {
			logger.Error("failed to load cleaner config", "error", err)
			return err
		}
		cl = c
	}

	src, err := buildSource(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}

	parser := hansard.New(dir, hansard.WithCleaner(cl))

	pretty, _ := cmd.Flags().GetBool("pretty")
	emit, closeOutput, err := buildEmitter(viper.GetString("output_dir"), format, pretty)
	if err != nil {
		logger.Error("failed to create output writer", "format", format, "error", err)
		return err
	}

	var sum runSummary
	start := time.Now()

	for _, date := range dates {
		for _, chamber := range chambers {
			if err := ctx.Err(); err != nil {
				_ = closeOutput()
				return err
			}

			doc, err := parseDay(ctx, src, parser, date, chamber)
			if err != nil {
				if errors.Is(err, source.ErrNoSittingDay) {
					logger.Info("no sitting", "date", date.Format(dateLayout), "chamber", chamber.String())
					sum.skipped++
					continue
				}
				if ctx.Err() != nil {
					_ = closeOutput()
					return ctx.Err()
				}
				var dayErr *hansard.DayError
				if !errors.As(err, &dayErr) {
					logger.Error("failed to load sitting day", "date", date.Format(dateLayout), "chamber", chamber.String(), "error", err)
				}
				sum.failed++
				continue
			}

			if err := emit(doc); err != nil {
				logger.Error("failed to write output", "error", err)
				_ = closeOutput()
				return err
			}
			sum.parsed++
			sum.speeches += doc.Speeches()
		}
	}

	if err := closeOutput(); err != nil {
		logger.Error("failed to flush output", "error", err)
		return err
	}

	logInfo("Parsed %s sitting days (%s speeches) in %v; %d skipped, %d failed",
		humanize.Comma(int64(sum.parsed)),
		humanize.Comma(int64(sum.speeches)),
		time.Since(start).Round(time.Millisecond),
		sum.skipped, sum.failed)

	if sum.failed > 0 {
		return fmt.Errorf("%d sitting days failed to parse", sum.failed)
	}
	return nil
}

// parseDay fetches one sitting day and parses it into a document.
func parseDay(ctx context.Context, src source.Source, p *hansard.Parser, date time.Time, chamber hansard.Chamber) (*debates.Document, error) {
	day, err := src.Day(ctx, date, chamber)
	if err != nil {
		return nil, err
	}

	acc := debates.New(date, chamber)
	if err := p.ParseDay(ctx, day, acc); err != nil {
		return nil, err
	}
	return acc.Document(), nil
}

func buildSource(cmd *cobra.Command) (source.Source, error) {
	cacheDir := viper.GetString("cache_dir")
	offline, _ := cmd.Flags().GetBool("offline")
	if offline {
		if cacheDir == "" {
			return nil, errors.New("--offline needs --cache-dir")
		}
		logger.Debug("reading sitting days from cache", "dir", cacheDir)
		return source.NewFileSource(cacheDir), nil
	}

	return source.NewWebSource(source.WebConfig{
		IndexURL:     viper.GetString("index_url"),
		LinkSelector: viper.GetString("link_selector"),
		Window:       &source.LinkWindow{Skip: viper.GetInt("link_skip"), Drop: viper.GetInt("link_drop")},
		Timeout:      viper.GetDuration("timeout"),
		CacheDir:     cacheDir,
	}), nil
}

// buildCleaner returns the canonicalizer, with vocabularies from path
// merged over the defaults when path is set.
func buildCleaner(path string) (*cleaner.Canonicalizer, error) {
	cfg := cleaner.DefaultConfig()
	if path == "" {
		return cleaner.New(cfg), nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- CLI reads a user-specified config file
	if err != nil {
		return nil, err
	}
	var override cleaner.Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cleaner.New(cfg.Merge(&override)), nil
}

// buildEmitter returns a function writing one document and a function
// flushing everything written. Without a directory all documents go to
// stdout through a single writer.
func buildEmitter(dir string, format output.Format, pretty bool) (func(*debates.Document) error, func() error, error) {
	if dir == "" {
		w, err := output.NewWriter(os.Stdout, format, output.WithPretty(pretty))
		if err != nil {
			return nil, nil, err
		}
		return w.Write, w.Close, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	emit := func(doc *debates.Document) error {
		path := filepath.Join(dir, output.FileName(doc, format))
		f, err := os.Create(path) //#nosec G304 -- CLI writes into a user-specified directory
		if err != nil {
			return err
		}
		w, err := output.NewWriter(f, format, output.WithPretty(pretty))
		if err != nil {
			_ = f.Close()
			return err
		}
		if err := w.Write(doc); err != nil {
			_ = f.Close()
			return err
		}
		if err := w.Close(); err != nil {
			_ = f.Close()
			return err
		}
		logger.Debug("wrote sitting day", "path", path, "items", len(doc.Items))
		return f.Close()
	}
	return emit, func() error { return nil }, nil
}

// sittingDates expands the date flags. Explicit dates come first, then the
// inclusive range from..to.
func sittingDates(dates []string, from, to string) ([]time.Time, error) {
	var out []time.Time
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
		out = append(out, t)
	}

	if from == "" {
		if to != "" {
			return nil, errors.New("--to needs --from")
		}
		return out, nil
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid --from %q: want YYYY-MM-DD", from)
	}
	end := start
	if to != "" {
		end, err = time.Parse(dateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to %q: want YYYY-MM-DD", to)
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out, nil
}

func parseChambers(values []string) ([]hansard.Chamber, error) {
	chambers := make([]hansard.Chamber, 0, len(values))
	seen := make(map[hansard.Chamber]bool, len(values))
	for _, v := range values {
		c, err := people.ParseChamber(v)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			chambers = append(chambers, c)
		}
	}
	if len(chambers) == 0 {
		return nil, errors.New("no chamber selected")
	}
	return chambers, nil
}
