package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"mom-generator/cmd/mom/cmd/export"
	"mom-generator/cmd/mom/cmd/generate"
	"mom-generator/cmd/mom/cmd/live"
	"mom-generator/cmd/mom/cmd/serve"
	"mom-generator/cmd/mom/cmd/shared"
	"mom-generator/cmd/mom/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mom",
	Short: "Generate Minutes of Meeting from recorded or live audio",
	Long: `Generate Minutes of Meeting from recorded or live audio.
- Audio is transcribed with speaker diarization by Deepgram
- Non-English minutes get a translation pass that substitutes speaker names
- The language model writes the minutes, which are stored and downloadable`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(generate.Cmd)
	rootCmd.AddCommand(live.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&shared.ConfigPath, "config", "c", shared.DefaultConfigPath, "application config file")
	rootCmd.PersistentFlags().BoolVarP(&shared.Verbose, "verbose", "V", false, "verbose output")
}
