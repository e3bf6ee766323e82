package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"transcheck/internal/api"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download all test results as an Excel workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "directory to write the workbook to (default: export dir from config, else cwd)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, _, client, err := setup()
	if err != nil {
		return err
	}

	data, err := client.ExportTestResults(context.Background())
	if err != nil {
		if api.IsTimeout(err) {
			return fmt.Errorf("export timed out, try again")
		}
		return fmt.Errorf("exporting test results: %w", err)
	}

	dir := exportOut
	if dir == "" {
		dir = cfg.ExportDir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, api.ExportFilename(time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	fmt.Println("Exported to", path)
	return nil
}
