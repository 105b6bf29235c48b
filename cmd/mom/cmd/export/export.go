package export

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mom-generator/cmd/mom/cmd/shared"
	appexport "mom-generator/internal/app/export"
	"mom-generator/internal/app/repository"
)

var (
	user           string
	outputFilePath string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&user, "user", "u", "", "only export meetings owned by this user")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "meetings.xlsx", "spreadsheet to write")
	Cmd.Flags().IntVar(&limit, "limit", 10000, "maximum meetings to export")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored meetings to excel",
	Long: `Export stored meetings to excel

- One row per meeting, newest first
- The transcript column holds the translated text when there is one`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := shared.Load()
		if err != nil {
			return err
		}
		defer env.Close()

		dao, cleanup, err := env.MeetingDAO(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		meetings, err := dao.List(cmd.Context(), repository.ListFilter{User: user, Limit: limit})
		if err != nil {
			return err
		}

		if err := appexport.ToExcelFile(afero.NewOsFs(), meetings, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d meetings written to %s\n", len(meetings), outputFilePath)
		return nil
	},
}
