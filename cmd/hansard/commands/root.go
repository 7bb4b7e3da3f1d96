// Package commands implements the CLI commands for hansard.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/hansard/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hansard",
	Short: "Parser for Australian Parliament Hansard transcripts",
	Long: `Hansard turns the published transcripts of a parliamentary sitting day
into ordered debate records: section headings and speeches, each speech
attributed to a member and its markup canonicalized.

Examples:
  # Parse both chambers for one sitting day
  hansard parse --date 2009-03-12 --people members.yaml

  # Parse a week of Senate sittings into per-day YAML files
  hansard parse --from 2009-03-09 --to 2009-03-13 --chamber senate \
      --people members.yaml --format yaml --output-dir out/

  # Replay a previously fetched day from the page cache
  hansard parse --date 2009-03-12 --cache-dir cache/ --offline --people members.yaml

  # See what the parser makes of a sub-day link label
  hansard classify "Speech: BILLS > Mr HUNT > 10:15:00"`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.hansard.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().String("log-file", "", "also append log output to this file")
	rootCmd.PersistentFlags().String("cleaner-config", "", "YAML file overriding the markup canonicalizer vocabularies")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("cleaner_config", rootCmd.PersistentFlags().Lookup("cleaner-config"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".hansard")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("HANSARD")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogging configures the logger from the global flags.
func initLogging() error {
	return logger.Init(logger.Options{
		Debug:   viper.GetBool("debug"),
		Quiet:   viper.GetBool("quiet"),
		LogFile: viper.GetString("log_file"),
	})
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
