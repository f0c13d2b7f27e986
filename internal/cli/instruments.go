package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"clinscore/internal/instruments"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewInstrumentsCommand creates the 'clinscore instruments' command.
func NewInstrumentsCommand() *cobra.Command {
	var (
		query    string
		letter   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "List or search the instrument catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			found := instruments.Search(query, instruments.Filter{Letter: letter, Category: category})
			if len(found) == 0 {
				fmt.Fprintln(out, "No instruments match.")
				return nil
			}

			w := tabwriter.NewWriter(out, 4, 8, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tName\tCategory\tItems\n")
			for _, inst := range found {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", inst.ID, inst.Name, inst.Category, inst.QuestionCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match name, description or category")
	cmd.Flags().StringVar(&letter, "letter", "", "Only names starting with this letter")
	cmd.Flags().StringVar(&category, "category", "", "Only this category")

	return cmd
}

// NewQuestionsCommand creates the 'clinscore questions' command.
func NewQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <instrument-id>",
		Short: "Print an instrument's instructions and questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			out := cmd.OutOrStdout()

			inst, err := instruments.Get(id)
			if err != nil {
				return err
			}
			questions, err := instruments.Questions(id)
			if err != nil {
				return err
			}
			instructions, err := instruments.Instructions(id)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			faint := color.New(color.Faint)

			bold.Fprintf(out, "%s (%s)\n", inst.Name, inst.Category)
			if instructions != "" {
				fmt.Fprintf(out, "\n%s\n", instructions)
			}
			for _, q := range questions {
				fmt.Fprintln(out)
				header := fmt.Sprintf("%d. %s", q.ID, q.Text)
				if q.Domain != "" {
					header += faint.Sprintf(" [%s]", q.Domain)
				}
				bold.Fprintln(out, header)
				for i, o := range q.Options {
					if q.IsMulti() {
						fmt.Fprintf(out, "   [%d] %s\n", i, o.Label)
						continue
					}
					fmt.Fprintf(out, "   %d = %s\n", o.Value, o.Label)
				}
				if q.Note != "" {
					faint.Fprintf(out, "   %s\n", strings.TrimSpace(q.Note))
				}
			}
			return nil
		},
	}
}
