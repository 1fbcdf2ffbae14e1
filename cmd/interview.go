package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/triagez/internal/app"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start an interactive symptom interview",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd)
	},
}

func init() {
	interviewCmd.Flags().Bool("skip-notice", false, "Skip the safety notice on startup")
}

// runInterview builds dependencies and launches the TUI.
func runInterview(cmd *cobra.Command) error {
	rt, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	skipNotice, _ := cmd.Flags().GetBool("skip-notice")
	return app.Run(cmd.Context(), app.Options{
		NewController: rt.newController,
		EventRepo:     rt.store.EventRepo(),
		SkipNotice:    skipNotice,
	})
}
