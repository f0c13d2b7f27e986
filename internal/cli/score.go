package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"clinscore/internal/instruments"
	"clinscore/internal/models"
	"clinscore/internal/scoring"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewScoreCommand creates the 'clinscore score' command.
func NewScoreCommand() *cobra.Command {
	var answerArgs []string

	cmd := &cobra.Command{
		Use:   "score <instrument-id>",
		Short: "Score an answer set and print its interpretation",
		Long: `Score an answer set given as repeated -a flags.

Single-select questions take an option value, multi-select questions a
comma-separated list of option indices:

  clinscore score gad7 -a 1=2 -a 2=1 -a 3=3
  clinscore score moca -a 5=0,2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			answers, err := parseAnswers(id, answerArgs)
			if err != nil {
				return err
			}
			result, interp, err := scoring.Evaluate(id, answers)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result, interp)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&answerArgs, "answer", "a", nil, "Answer as <question-id>=<value or indices>")

	return cmd
}

// parseAnswers turns "id=value" arguments into answers for the instrument.
// It only handles the syntax; option checks are left to
// instruments.ValidateAnswers. Repeated indices in a multi-select list are
// collapsed.
func parseAnswers(instrumentID string, rawAnswers []string) (models.Answers, error) {
	questions, err := instruments.Questions(instrumentID)
	if err != nil {
		return nil, err
	}
	multi := make(map[int]bool, len(questions))
	for _, q := range questions {
		multi[q.ID] = q.IsMulti()
	}

	answers := models.Answers{}
	for _, raw := range rawAnswers {
		idPart, valuePart, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("answer %q: expected <question-id>=<value>", raw)
		}
		qid, err := strconv.Atoi(strings.TrimSpace(idPart))
		if err != nil {
			return nil, fmt.Errorf("answer %q: invalid question id: %w", raw, err)
		}

		if !multi[qid] {
			v, err := strconv.Atoi(strings.TrimSpace(valuePart))
			if err != nil {
				return nil, fmt.Errorf("answer %q: invalid value: %w", raw, err)
			}
			answers[qid] = models.Answer{Value: v}
			continue
		}

		selected := []int{}
		seen := map[int]bool{}
		for _, part := range strings.Split(valuePart, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("answer %q: invalid option index: %w", raw, err)
			}
			if !seen[idx] {
				seen[idx] = true
				selected = append(selected, idx)
			}
		}
		sort.Ints(selected)
		answers[qid] = models.Answer{Selected: selected}
	}

	if err := instruments.ValidateAnswers(instrumentID, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func tierColor(t models.SeverityTier) *color.Color {
	switch t {
	case models.TierLow:
		return color.New(color.FgGreen)
	case models.TierMild:
		return color.New(color.FgCyan)
	case models.TierModerate:
		return color.New(color.FgYellow)
	case models.TierSevere:
		return color.New(color.FgRed)
	case models.TierCritical:
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.Reset)
}

func printResult(out io.Writer, result scoring.Result, interp models.Interpretation) {
	bold := color.New(color.Bold)

	fmt.Fprintf(out, "Instrument: %s\n", result.InstrumentID)
	fmt.Fprintf(out, "Answered:   %d\n", result.Answered)
	fmt.Fprintf(out, "Total:      %d\n", result.Total)
	if result.EducationBonus > 0 {
		fmt.Fprintf(out, "Adjusted:   %d (+%d education)\n", result.TotalWithBonus, result.EducationBonus)
	}
	if result.Screen != nil {
		fmt.Fprintf(out, "Screen:     symptoms=%d co-occurrence=%t impairment=%t positive=%t\n",
			result.Screen.SymptomScore, result.Screen.CoOccurrence,
			result.Screen.FunctionalImpairment, result.Screen.PositiveScreen)
	}
	if len(result.Domains) > 0 {
		fmt.Fprintln(out, "Domains:")
		for _, d := range result.Domains {
			fmt.Fprintf(out, "  %-24s %d\n", d.Domain, d.Score)
		}
	}
	if flags := result.Flags(); len(flags) > 0 {
		fmt.Fprintf(out, "Flags:      %s\n", strings.Join(flags, ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, "Level:      ")
	tierColor(interp.Tier).Fprintf(out, "%s (%s)\n", interp.Level, interp.Tier)
	fmt.Fprintf(out, "%s\n", interp.Description)
	bold.Fprint(out, "Recommendation: ")
	fmt.Fprintln(out, interp.Recommendation)
}
