package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yungbote/tutormatch-backend/internal/app"
	"github.com/yungbote/tutormatch-backend/internal/config"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

const (
	exitSuccess = 0
	exitError   = 1
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tutormatch",
		Short:         "Instructor recommendations over a student/instructor/course graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	root.AddCommand(newServeCmd(), newRecommendCmd(), newSchemaCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			applied := a.EnsureSchema(ctx)
			a.Log.Info("graph schema ensured", "constraints", applied)
			return a.Run(ctx)
		},
	}
}

func newRecommendCmd() *cobra.Command {
	var (
		student string
		course  string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank instructors for a student and print the list as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if student == "" {
				return fmt.Errorf("--student is required")
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.Services.Recommendation.Recommend(cmd.Context(), student, course)
			if err != nil {
				return err
			}
			if limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}
			return writeJSON(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student name")
	cmd.Flags().StringVar(&course, "course", "", "restrict candidates to instructors teaching this course code")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 = all)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create graph uniqueness constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			applied := a.EnsureSchema(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "constraints applied: %d\n", applied)
			return nil
		},
	}
}

func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewWithLevel(cfg.Observability.LogMode, cfg.Observability.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
