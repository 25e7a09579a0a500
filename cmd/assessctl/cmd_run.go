package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"burnout-assess/internal/db"
	"burnout-assess/internal/repository"
	"burnout-assess/internal/service"
)

var errInputClosed = errors.New("input closed before the assessment finished")

func newRunCmd() *cobra.Command {
	var (
		dbPath string
		userID string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive assessment on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tk, err := loadToolkit(cmd)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = tk.cfg.SQLitePath
			}

			ctx := cmd.Context()
			conn, err := db.OpenSQLite(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("open sqlite: %w", err)
			}
			defer conn.Close()

			svc := service.NewAssessmentService(
				tk.logger,
				tk.flow,
				tk.oracle,
				tk.engine,
				repository.NewSqliteSessionRepository(conn),
				service.NewMessageService(repository.NewSqliteMessageRepository(conn)),
				service.NewMemorySessionLocker(),
			)
			return runInteractive(cmd, svc, userID)
		},
	}
	f := cmd.Flags()
	f.StringVar(&dbPath, "db", "", "SQLite path (defaults to SQLITE_PATH)")
	f.StringVar(&userID, "user", "local", "Owner id for the session")
	return cmd
}

func runInteractive(cmd *cobra.Command, svc *service.AssessmentService, userID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	started, err := svc.Start(ctx, userID)
	if err != nil {
		return err
	}
	total := len(svc.Questions())
	fmt.Fprintf(out, "Burnout assessment (%d questions). Session %s\n\n", total, started.Session.ID)

	q := started.CurrentQuestion
	for {
		fmt.Fprintf(out, "[%d/%d] %s\n> ", q.ID, total, q.Prompt)
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}
		if strings.TrimSpace(line) == "" {
			if errors.Is(readErr, io.EOF) {
				return errInputClosed
			}
			fmt.Fprintf(out, "An answer is required. %s\n", q.ExampleHint)
			continue
		}

		res, err := svc.SubmitAnswer(ctx, userID, q.ID, line)
		if err != nil {
			return err
		}
		if res.Complete {
			fmt.Fprintf(out, "\nBurnout level: %s (score %.3f)\n\n", res.Result.Level, res.Result.Score)
			fmt.Fprintln(out, res.Result.AnalysisText)
			fmt.Fprintln(out)
			fmt.Fprintln(out, res.Result.RecommendationText)
			return nil
		}
		q = *res.CurrentQuestion
		if errors.Is(readErr, io.EOF) {
			return errInputClosed
		}
	}
}
