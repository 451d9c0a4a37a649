package cli

import (
	"github.com/spf13/cobra"

	"github.com/mkaraca/pitwall/internal/ui"
)

func newDashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Start the dashboard TUI",
		Long: `Start the interactive terminal dashboard.

The dashboard fetches current standings and your uploaded files on start.
Use the number keys or tab to switch panels, y to pick a historical season,
and u/a/d on the files panel to upload, analyze, and delete datasets.

Examples:
  pitwall dash
  pitwall dash --api-key sk-... --backend http://localhost:8000/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			return ui.Run(dashOptions(client))
		},
	}
}
