package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hansard/pkg/hansard"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <label>...",
	Short: "Show how sub-day link labels are handled",
	Long: `Classify sub-day link labels the way the parser does and print the
outcome: whether the link is parsed as a speech, skipped, logged as not yet
supported, or rejected, together with the fields read from speech labels.

Examples:
  hansard classify "Speech: BILLS > Mr HUNT > 10:15:00"
  hansard classify "Official Hansard" "Question: Iraq"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, label := range args {
		a := hansard.ClassifyLink(label)

		fmt.Fprintf(out, "%q\n", label)
		fmt.Fprintf(out, "  kind:     %s\n", a.Kind)
		if a.Category != "" {
			fmt.Fprintf(out, "  category: %s\n", a.Category)
		}
		if a.Kind != hansard.LinkSpeech {
			continue
		}
		fmt.Fprintf(out, "  heading:  %s\n", a.Heading)
		fmt.Fprintf(out, "  speaker:  %s\n", a.SpeakerHint)
		fmt.Fprintf(out, "  time:     %s\n", a.Time)
		if a.Malformed() {
			fmt.Fprintf(out, "  warning:  expected 3 fields, got %d\n", a.Fields)
		}
	}
	return nil
}
