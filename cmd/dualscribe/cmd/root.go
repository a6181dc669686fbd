package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"dualscribe/cmd/dualscribe/cmd/export"
	"dualscribe/cmd/dualscribe/cmd/serve"
	"dualscribe/cmd/dualscribe/cmd/transcribe"
	"dualscribe/cmd/dualscribe/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dualscribe",
	Short: "A speech-to-text and text-to-speech service with speaker diarization",
	Long: `A speech-to-text and text-to-speech service with speaker diarization.
- Run the HTTP API with 'dualscribe serve'
- Batch transcribe local audio files with 'dualscribe transcribe'
- Processed records are saved to sqlite or postgres.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
