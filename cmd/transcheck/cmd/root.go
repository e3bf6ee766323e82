// Package cmd contains all CLI commands for the transcheck tool.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"transcheck/internal/api"
	"transcheck/internal/config"
	"transcheck/internal/history"
	"transcheck/internal/tui"
)

var cfgDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transcheck",
	Short: "Translation test client for the PLM Translator backend",
	Long: `transcheck is a terminal client for a translation-QA backend.

It translates text through the backend, records manual test results
(outcome, accuracy, observations) against translations, and lists,
exports and deletes recorded results.

Running 'transcheck' without arguments launches the interactive TUI.`,
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/transcheck)")
	rootCmd.PersistentFlags().String("server", "", "backend base URL (overrides the config file)")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgDir != "" {
		viper.Set("config_dir", cfgDir)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding config directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("TRANSCHECK")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// setup loads the configuration and builds the API client shared by
// every command. Flag and env overrides win over the config file.
func setup() (*config.Config, string, *api.Client, error) {
	dir := getConfigDir()

	cfg, err := config.LoadOrInit(dir)
	if err != nil {
		return nil, "", nil, err
	}

	if server := viper.GetString("server"); server != "" {
		cfg.ServerURL = server
	}

	client := api.NewClient(cfg.ServerURL,
		api.WithRequestTimeout(cfg.RequestTimeout()),
		api.WithListTimeout(cfg.ListTimeout()),
	)

	return cfg, dir, client, nil
}

// openHistory opens the local translation history and prunes it to the
// configured retention. A broken history is reported but never fatal.
func openHistory(cfg *config.Config, dir string) *history.Store {
	store, err := history.Open(config.HistoryPath(dir))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: local history unavailable:", err)
		return nil
	}
	if _, err := store.Prune(context.Background(), cfg.HistoryLimit); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not prune history:", err)
	}
	return store
}

// runTUI launches the interactive TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, dir, client, err := setup()
	if err != nil {
		return err
	}

	store := openHistory(cfg, dir)
	if store != nil {
		defer store.Close()
	}

	p := tea.NewProgram(
		tui.NewApp(cfg, dir, client, store),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
