package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tk, err := loadToolkit(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, q := range tk.flow.Questions() {
				fmt.Fprintf(out, "%d. [%s] %s\n", q.ID, q.Field, q.Prompt)
				fmt.Fprintf(out, "   %s\n", q.ExampleHint)
			}
			return nil
		},
	}
}
