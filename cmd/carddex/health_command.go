package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"carddex/internal/corpus"
	"carddex/internal/stage"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check catalog and corpus readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := buildComponents(ctx)
			if err != nil {
				return err
			}
			defer comp.close()

			var checks []stage.Health
			if comp.catalog != nil {
				budget := time.Duration(comp.cfg.Catalog.HealthLatencyBudgetMs) * time.Millisecond
				checks = append(checks, comp.catalog.Health(cmd.Context(), budget))
			} else {
				checks = append(checks, stage.Unhealthy("catalog", "disabled in configuration"))
			}
			checks = append(checks, corpusHealth(cmd.Context(), comp.corpus))

			if jsonOut {
				return writeJSON(cmd, checks)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false
			for _, check := range checks {
				kind := statusOK
				message := check.Detail
				if !check.Ready {
					kind = statusError
					failed = true
				}
				if check.Latency > 0 && message == "" {
					message = check.Latency.String()
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, message, colorize))
			}
			if failed {
				return fmt.Errorf("one or more components are unhealthy")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of status lines")
	return cmd
}

func corpusHealth(ctx context.Context, store *corpus.Store) stage.Health {
	start := time.Now()
	count, err := store.Count(ctx)
	if err != nil {
		return stage.Unhealthy("corpus", err.Error())
	}
	health := stage.Healthy("corpus")
	health.Latency = time.Since(start)
	health.Detail = fmt.Sprintf("%d rows", count)
	return health
}
