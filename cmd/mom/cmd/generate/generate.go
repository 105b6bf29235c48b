package generate

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mom-generator/cmd/mom/cmd/shared"
	"mom-generator/internal/app/batch"
	"mom-generator/internal/app/progress"
)

var (
	language       string
	speechLanguage string
	outputDir      string
	user           string
	parallel       int
	showProgress   bool
)

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "English", "language of the generated minutes")
	Cmd.Flags().StringVar(&speechLanguage, "speech-language", "", "spoken language hint for transcription, e.g. en-US")
	Cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for the minutes and transcript files")
	Cmd.Flags().StringVarP(&user, "user", "u", "cli", "owner recorded on the stored meetings")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "recordings processed at once")
	Cmd.Flags().BoolVar(&showProgress, "progress", false, "draw the progress bar even when stderr is not a terminal")
}

// Cmd represents the generate command
var Cmd = &cobra.Command{
	Use:   "generate <audio files...>",
	Short: "Generate minutes for wav or mp3 recordings",
	Long: `Generate minutes for wav or mp3 recordings

- Each file is transcribed, translated when needed and summarised
- <name>_transcript.txt and <name>_minutes.txt are written to --output-dir
- Meetings are also stored in the configured database`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := shared.Load()
		if err != nil {
			return err
		}
		defer env.Close()

		svc, cleanup, err := env.Services(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer cleanup()

		pm := progress.NewManager(progress.Config{
			Enabled: progress.ShouldShow(showProgress),
			Writer:  os.Stderr,
		})
		runner := batch.NewRunner(svc.Pipeline, afero.NewOsFs(), pm, env.Logger)

		outcomes := runner.Run(cmd.Context(), args, batch.Options{
			Language:       language,
			SpeechLanguage: speechLanguage,
			OutputDir:      outputDir,
			User:           user,
			Parallel:       parallel,
		})

		out := cmd.OutOrStdout()
		for _, o := range outcomes {
			if o.Err != nil {
				fmt.Fprintf(out, "FAIL %s: %v\n", o.File, o.Err)
				continue
			}
			fmt.Fprintf(out, "OK   %s -> %s (%.2fs)\n", o.File, o.MinutesPath, o.Took.Seconds())
			for _, w := range o.Warnings {
				fmt.Fprintf(out, "     warning: %s\n", w)
			}
		}

		if failed := batch.Failed(outcomes); failed > 0 {
			return fmt.Errorf("%d of %d recordings failed", failed, len(outcomes))
		}
		return nil
	},
}
