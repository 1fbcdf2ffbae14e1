package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/triagez/internal/interview"
)

var askCmd = &cobra.Command{
	Use:   "ask <symptoms>",
	Short: "Run a scripted interview and print the decisions as JSON",
	Long: "ask submits the symptom description, then answers each follow-up question\n" +
		"from --answers in order. It stops at the first final decision or when the\n" +
		"answers run out, and prints every step as JSON.",
	Example: `  triagez ask "headache since this morning" --answers yes,no,no`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringSlice("answers")
		answers, err := parseAnswers(raw)
		if err != nil {
			return err
		}

		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		tr, err := runScript(cmd.Context(), rt.newController(), strings.Join(args, " "), answers)
		if err != nil {
			return err
		}
		return writeTranscript(cmd.OutOrStdout(), tr)
	},
}

// askStep is one round of a scripted interview. Answer is the reply that
// produced Decision; it is nil for the initial submission.
type askStep struct {
	Answer   *bool              `json:"answer,omitempty"`
	Decision interview.Decision `json:"decision"`
}

type transcript struct {
	Session  string    `json:"session"`
	Symptoms []string  `json:"symptoms"`
	Steps    []askStep `json:"steps"`
	Finished bool      `json:"finished"`
}

func parseAnswers(raw []string) ([]bool, error) {
	out := make([]bool, 0, len(raw))
	for _, a := range raw {
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "y", "yes", "true":
			out = append(out, true)
		case "n", "no", "false":
			out = append(out, false)
		case "":
		default:
			return nil, fmt.Errorf("invalid answer %q: use yes or no", a)
		}
	}
	return out, nil
}

type scriptedController interface {
	Submit(ctx context.Context, text string) (interview.Decision, error)
	Answer(ctx context.Context, yes bool) (interview.Decision, error)
	Session() (interview.SessionView, bool)
}

func runScript(ctx context.Context, c scriptedController, text string, answers []bool) (*transcript, error) {
	d, err := c.Submit(ctx, text)
	if err != nil {
		return nil, err
	}
	tr := &transcript{Steps: []askStep{{Decision: d}}}

	for _, yes := range answers {
		if d.Kind.Terminal() {
			break
		}
		d, err = c.Answer(ctx, yes)
		if err != nil {
			return nil, err
		}
		tr.Steps = append(tr.Steps, askStep{Answer: &yes, Decision: d})
	}

	tr.Finished = d.Kind.Terminal()
	if v, ok := c.Session(); ok {
		tr.Session = v.ID
		tr.Symptoms = v.Symptoms
	}
	return tr, nil
}

func writeTranscript(w io.Writer, tr *transcript) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tr)
}

func init() {
	askCmd.Flags().StringSlice("answers", nil, "Comma-separated yes/no answers to the follow-up questions, in order")
}
