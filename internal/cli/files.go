package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mkaraca/pitwall/internal/api"
)

var deleteYes bool

func newFilesCommand() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded race datasets",
		Long: `Manage the race datasets stored on the dashboard backend without
starting the TUI.

Examples:
  pitwall files list
  pitwall files upload laps.csv
  pitwall files analyze 3
  pitwall files delete 3 --yes`,
	}

	filesCmd.AddCommand(newFilesListCommand())
	filesCmd.AddCommand(newFilesUploadCommand())
	filesCmd.AddCommand(newFilesAnalyzeCommand())
	filesCmd.AddCommand(newFilesDeleteCommand())

	return filesCmd
}

func newFilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			files, err := client.ListFiles(context.Background())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No files uploaded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILENAME\tTYPE\tUPLOADED\tINSIGHTS")
			for _, f := range files {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", f.ID, f.Filename, f.FileType, f.UploadDate, len(f.Insights))
			}
			return w.Flush()
		},
	}
}

func newFilesUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a .csv or .json dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := validateUploadPath(path); err != nil {
				return err
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			// #nosec G304 - path is validated above
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			receipt, err := client.Upload(context.Background(), filepath.Base(path), f)
			if err != nil {
				return err
			}

			fmt.Printf("Uploaded %s (id %d, type %s)\n", receipt.Filename, receipt.FileID, receipt.FileType)
			return nil
		},
	}
}

func newFilesAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [id]",
		Short: "Analyze an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			analysis, err := client.Analyze(context.Background(), fileID)
			if err != nil {
				return err
			}

			printAnalysis(analysis)
			return nil
		},
	}
}

func printAnalysis(analysis *api.FileAnalysis) {
	fmt.Printf("Analysis of %s\n", analysis.Filename)
	fmt.Printf("  %d rows, %d columns: %s\n",
		analysis.Summary.TotalRows, analysis.Summary.TotalColumns, strings.Join(analysis.Summary.Columns, ", "))

	if len(analysis.Insights) > 0 {
		fmt.Println("\nInsights:")
		for _, in := range analysis.Insights {
			fmt.Printf("  [%s] %s\n", in.Type, in.Insight)
			if in.Details != "" {
				fmt.Printf("      %s\n", in.Details)
			}
		}
	}

	charts := []struct {
		name   string
		points []api.ChartPoint
	}{
		{"driver performance", analysis.Charts.DriverPerformance},
		{"team performance", analysis.Charts.TeamPerformance},
		{"circuit comparison", analysis.Charts.CircuitComparison},
	}
	for _, c := range charts {
		if len(c.points) > 0 {
			fmt.Printf("\nChart data: %s (%d points)\n", c.name, len(c.points))
		}
	}
}

func newFilesDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an uploaded file",
		Long: `Delete an uploaded file from the backend. Asks for confirmation
unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}

			if !deleteYes && !confirmDelete(fileID) {
				fmt.Println("Aborted.")
				return nil
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := client.Delete(context.Background(), fileID); err != nil {
				return err
			}
			fmt.Printf("Deleted file %d\n", fileID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirmDelete(fileID int) bool {
	fmt.Printf("Delete file %d? This cannot be undone. [y/N] ", fileID)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// validateUploadPath checks the path points at an uploadable dataset.
func validateUploadPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot upload a directory")
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range GetGlobalConfig().Watch.Extensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type %q (allowed: %s)", ext, strings.Join(GetGlobalConfig().Watch.Extensions, ", "))
}
