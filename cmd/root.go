package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/triagez/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "triagez",
	Short: "Adaptive symptom interview that points patients to a department",
	Long: "triagez asks a patient about their symptoms, follows up with yes/no questions\n" +
		"chosen from a scoring service's suggestions, and stops as soon as one\n" +
		"department clearly stands out.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd)
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: ./triagez.yaml or $XDG_CONFIG_HOME/triagez/triagez.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TRIAGEZ_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db config key, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
