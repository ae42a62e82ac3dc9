package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/goalvoice/internal/service/voice"
)

func ExtractCmd() *cobra.Command {
	var (
		summary    string
		firstMatch bool
	)

	cmd := &cobra.Command{
		Use:   "extract [transcript-file]",
		Short: "Print the goals found in a transcript as JSON",
		Long:  "Reads a transcript from the given file, or from stdin when no file is given, and prints the goals the voice webhook would create.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			transcript, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read transcript: %w", err)
			}

			goals := voice.NewExtractor(voice.WithFirstMatchOnly(firstMatch)).Extract(string(transcript), summary)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(goals)
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "Call summary, searched instead of the transcript when set")
	cmd.Flags().BoolVar(&firstMatch, "first-match", false, "Keep only the first lead phrase per sentence")

	return cmd
}
