package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <text>",
		Short: "Score a free-text message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("text required")
			}
			tk, err := loadToolkit(cmd)
			if err != nil {
				return err
			}

			res := tk.oracle.ScoreText(cmd.Context(), text)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Level:    %s\n", res.Level)
			fmt.Fprintf(out, "Score:    %.3f\n", res.Score)
			fmt.Fprintf(out, "Source:   %s\n", res.Source)
			fmt.Fprintf(out, "Advisory: %s\n", res.Advisory)
			return nil
		},
	}
}
