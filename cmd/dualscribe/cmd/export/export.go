package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"dualscribe/internal/app/export"
	"dualscribe/internal/app/repository"
	"dualscribe/internal/app/repository/pg"
	"dualscribe/internal/app/repository/sqlite"
	"dualscribe/internal/config"
)

var (
	configDir      string
	outputFilePath string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&configDir, "config", "c", ".", "directory containing config.yaml")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "maximum number of records to export")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transcripts to excel",
	Long: `Export stored transcripts to excel.

Exports the most recent transcripts from the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}

		var dao repository.TranscriptDAO
		switch cfg.Database.Driver {
		case "postgres":
			dao, err = pg.NewPostgresDAO(cfg.Database.PostgresDS)
		default:
			dao, err = sqlite.NewSQLiteDAO(cfg.Database.SQLitePath)
		}
		if err != nil {
			return err
		}
		defer dao.Close()

		records, err := dao.List(limit, 0)
		if err != nil {
			return err
		}

		if err := export.ToExcel(records, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, exported %d records to: %v\n", len(records), outputFilePath)
		return nil
	},
}
