package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transcheck/internal/session"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported target languages",
	RunE:  runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	_, _, client, err := setup()
	if err != nil {
		return err
	}

	langs, err := client.Languages(context.Background())
	if err != nil {
		// The backend list is a nicety; the built-in table still lets
		// the user pick a target.
		fmt.Fprintln(os.Stderr, "Warning: could not load languages from the server, showing the built-in list")
		langs = session.DefaultLanguages()
	}

	for _, l := range langs {
		fmt.Printf("%-8s %s\n", l.Key, l.Text)
	}

	return nil
}
