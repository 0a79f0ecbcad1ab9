package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"carddex/internal/triangulate"
	"carddex/internal/triangulate/tcgapi"
)

func newTriangulateCommand(ctx *commandContext) *cobra.Command {
	var flags extractedFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "triangulate",
		Short: "Triangulate which printed set a card belongs to",
		Long: `Triangulate queries the card-search API by name and filters the
results against the supplied signals. Card number plus set total form a
strict filter; otherwise candidates must agree on the configured minimum
signal count across number, total, rarity, type, HP, and artist.

Example:
  carddex triangulate --name Charizard --number 4/102`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.name == "" {
				return fmt.Errorf("--name is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			client, err := tcgapi.New(
				cfg.CardSearch.APIKey,
				cfg.CardSearch.BaseURL,
				time.Duration(cfg.CardSearch.TimeoutMs)*time.Millisecond,
			)
			if err != nil {
				return fmt.Errorf("create card search client: %w", err)
			}

			tri := triangulate.New(client, cfg, logger)
			result := tri.Triangulate(cmd.Context(), triangulate.SignalsFromExtracted(flags.fields()))

			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Action:     %s\n", result.Action)
			fmt.Fprintf(out, "Confidence: %s\n", formatScore(result.Confidence))
			if result.SetName != "" {
				fmt.Fprintf(out, "Set:        %s (%s)\n", result.SetName, result.SetID)
				fmt.Fprintf(out, "Signals:    %d\n", result.MatchedSignals)
			}
			if result.Reason != "" {
				fmt.Fprintf(out, "Reason:     %s\n", result.Reason)
			}
			if result.CreditsUsed > 0 {
				fmt.Fprintf(out, "Search:     %d candidate(s), %d set(s), %d credit(s), %v\n",
					result.Candidates, result.UniqueSets, result.CreditsUsed, result.Latency)
			}
			if len(result.CandidateSets) > 0 {
				rows := make([][]string, 0, len(result.CandidateSets))
				for _, option := range result.CandidateSets {
					rows = append(rows, []string{option.ID, option.Name, fmt.Sprint(option.Cards)})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"SET ID", "SET NAME", "CARDS"},
					rows, 2,
				))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
