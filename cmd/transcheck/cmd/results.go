package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"transcheck/internal/api"
)

var (
	listOutcome string
	listPage    int
	listPerPage int
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Work with stored test results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored test results, newest first",
	RunE:  runResultsList,
}

var resultsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored test result",
	Long: `Delete a stored test result after interactive confirmation.

The listing is re-fetched afterward regardless of how the delete went,
so the output never reflects a stale state.`,
	Args: cobra.ExactArgs(1),
	RunE: runResultsDelete,
}

func init() {
	resultsListCmd.Flags().StringVar(&listOutcome, "outcome", "", "filter by outcome (Success, Partial, Failure)")
	resultsListCmd.Flags().IntVar(&listPage, "page", 0, "page number")
	resultsListCmd.Flags().IntVar(&listPerPage, "per-page", 0, "results per page")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsDeleteCmd)
	rootCmd.AddCommand(resultsCmd)
}

func runResultsList(cmd *cobra.Command, args []string) error {
	_, _, client, err := setup()
	if err != nil {
		return err
	}

	records, page, err := client.ListTestResults(context.Background(), api.ListOptions{
		Page:    listPage,
		PerPage: listPerPage,
		Outcome: listOutcome,
	})
	if err != nil {
		if api.IsTimeout(err) {
			return fmt.Errorf("listing test results timed out, try again")
		}
		return fmt.Errorf("listing test results: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No test results.")
		return nil
	}

	printResults(records)

	if page != nil && page.Pages > 1 {
		fmt.Printf("\nPage %d of %d (%d total)\n", page.Page, page.Pages, page.Total)
	}

	return nil
}

func printResults(records []api.TestResultRecord) {
	for _, r := range records {
		fmt.Printf("#%-5d %-8s %5.1f%%  by %-20s %s\n",
			r.ID, r.Outcome, r.Accuracy, r.TestedBy, r.CreatedAt)
		fmt.Printf("       %s → %s  [%s → %s]\n",
			r.TextToTranslate, r.TranslatedText, r.SourceLanguage, r.TargetLanguage)
		if r.Observation != "" {
			fmt.Printf("       %s\n", r.Observation)
		}
	}
}

func runResultsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid result id %q", args[0])
	}

	_, _, client, err := setup()
	if err != nil {
		return err
	}

	if !confirm(fmt.Sprintf("Delete test result #%d?", id)) {
		fmt.Println("Cancelled.")
		return nil
	}

	deleteErr := client.DeleteTestResult(context.Background(), id)
	if deleteErr != nil {
		fmt.Fprintln(os.Stderr, "Delete failed:", deleteErr)
	} else {
		fmt.Printf("Deleted test result #%d\n", id)
	}

	// Re-fetch regardless of the delete outcome.
	records, _, listErr := client.ListTestResults(context.Background(), api.ListOptions{})
	if listErr != nil {
		fmt.Fprintln(os.Stderr, "Could not refresh the listing:", listErr)
	} else {
		fmt.Printf("\n%d test result(s) remaining:\n", len(records))
		printResults(records)
	}

	return deleteErr
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
