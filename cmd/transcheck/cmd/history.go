package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent translations from the local history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, dir, _, err := setup()
	if err != nil {
		return err
	}

	store := openHistory(cfg, dir)
	if store == nil {
		return fmt.Errorf("local history unavailable")
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No translations yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  [%s → %s]\n", e.CreatedAt.Format("2006-01-02 15:04"), e.SourceLanguage, e.TargetLanguage)
		fmt.Printf("  %s\n  %s\n", e.SourceText, e.TranslatedText)
	}

	return nil
}
