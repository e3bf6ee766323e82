package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"transcheck/internal/session"
)

var translateTo string

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate text through the backend",
	Long: `Translate text into a target language using the backend service.

The same local validation as the TUI applies: the text must be
non-empty and at most 5000 characters, and a target language is
required.

Example:
  transcheck translate --to fr "Hello, world"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVar(&translateTo, "to", "", "target language code (required)")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if verr := session.CheckTranslate(text, translateTo); verr != nil {
		return fmt.Errorf("%s", verr.Message)
	}

	cfg, dir, client, err := setup()
	if err != nil {
		return err
	}

	result, err := client.Translate(context.Background(), strings.TrimSpace(text), translateTo)
	if err != nil {
		return fmt.Errorf("translating: %w", err)
	}

	fmt.Println(result.TranslatedText)
	fmt.Fprintf(os.Stderr, "(%s → %s)\n", result.SourceLanguage, result.TargetLanguage)

	// Best-effort local history, same as the TUI.
	if store := openHistory(cfg, dir); store != nil {
		defer store.Close()
		if _, err := store.Add(context.Background(), *result); err != nil {
			fmt.Fprintln(os.Stderr, "Warning: could not record history:", err)
		}
	}

	return nil
}
