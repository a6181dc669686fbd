package transcribe

import (
	"context"

	"github.com/spf13/cobra"

	"dualscribe/internal/app"
	"dualscribe/internal/app/batch"
	"dualscribe/internal/config"
)

var (
	configDir string
	inputDir  string
	extension string
	outputDir string
	language  string
	parallel  int
	progress  bool
)

func init() {
	Cmd.Flags().StringVarP(&configDir, "config", "c", ".", "directory containing config.yaml")
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory with audio files to transcribe")
	Cmd.Flags().StringVarP(&extension, "extension", "e", "wav", "audio file extension to process")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "data/transcripts", "directory for transcript output")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "language hint, defaults to the configured language")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "number of files to process in parallel")
	Cmd.Flags().BoolVar(&progress, "progress", false, "force the progress bar even without a TTY")

	Cmd.MarkFlagRequired("input")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Batch transcribe local audio files",
	Long: `Batch transcribe local audio files.

Each recording is transcribed as a whole and written to a .txt file in
the output directory. Files with existing output are skipped, so an
interrupted batch can be rerun.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}

		runner, cleanup, err := app.InitializeBatchRunner(cfg, batch.ProgressConfig{
			Enabled: batch.ShouldShowProgress(progress),
		})
		if err != nil {
			return err
		}
		defer cleanup()
		defer runner.Close()

		return runner.ProcessDir(context.Background(), inputDir, extension, outputDir, language, parallel)
	},
}
