package cmd

import (
	"encoding/json"
	"os"

	"Scrubline/core/replay"
	"Scrubline/logger"

	"github.com/spf13/cobra"
)

var replayJSON bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.json>",
	Short: "Run a recorded gesture through the scrub engine",
	Long: `Replay feeds the pointer events of a recorded script to a fresh engine and
prints every notification and haptic impulse it produced, followed by the
final layout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		script, err := replay.Load(f)
		if err != nil {
			return err
		}
		result, err := replay.Run(script, logger.Named("replay"))
		if err != nil {
			return err
		}

		if replayJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		return result.WriteText(cmd.OutOrStdout())
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(replayCmd)
}
