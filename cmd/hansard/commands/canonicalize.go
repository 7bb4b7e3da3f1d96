package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/hansard/internal/logger"
)

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize [file]",
	Short: "Canonicalize one block of speech markup",
	Long: `Rewrite one block of transcript markup into canonical form and print it.

The block is read from the file argument, or from stdin when no file is
given. Relative links are resolved against --base-url.

Examples:
  hansard canonicalize block.html
  hansard canonicalize --stats < block.html
  hansard canonicalize --stats --json block.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCanonicalize,
}

func init() {
	rootCmd.AddCommand(canonicalizeCmd)

	flags := canonicalizeCmd.Flags()
	flags.String("base-url", "http://parlinfoweb.aph.gov.au/piweb/", "URL relative links are resolved against")
	flags.Bool("stats", false, "print canonicalization stats to stderr")
	flags.Bool("json", false, "print stats as JSON")
	flags.BoolP("verbose", "v", false, "print data-quality warnings")
}

// statsReport is the JSON form of the stats output.
type statsReport struct {
	Source   string   `json:"source"`
	Stats    any      `json:"stats"`
	Warnings []string `json:"warnings,omitempty"`
}

func runCanonicalize(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		logError("%v", err)
		return err
	}
	defer func() { _ = logger.Close() }()

	src := "stdin"
	var data []byte
	var err error
	if len(args) == 1 {
		src = args[0]
		data, err = os.ReadFile(src) //#nosec G304 -- CLI reads a user-specified file
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logError("reading %s: %v", src, err)
		return err
	}
	if len(data) == 0 {
		err := errors.New("empty input")
		logError("%v", err)
		return err
	}

	cl, err := buildCleaner(viper.GetString("cleaner_config"))
	if err != nil {
		logger.Error("failed to load cleaner config", "error", err)
		return err
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	result := cl.CleanWithStats(baseURL, string(data))

	showStats, _ := cmd.Flags().GetBool("stats")
	asJSON, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if showStats {
		if asJSON {
			report := statsReport{Source: src, Stats: result.Stats}
			for _, w := range result.Warnings {
				report.Warnings = append(report.Warnings, w.String())
			}
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(report)
		} else {
			fmt.Fprintf(os.Stderr, "Source: %s\n%s\n", src, result.Stats.String())
		}
	}

	if verbose && result.HasWarnings() {
		fmt.Fprintf(os.Stderr, "\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "  %s\n", w.String())
		}
	}

	if result.Error != nil {
		logError("%v", result.Error)
		return result.Error
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Content)
	return nil
}
