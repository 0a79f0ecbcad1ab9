package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carddex/internal/retrieval"
)

func newExplainCommand(ctx *commandContext) *cobra.Command {
	var flags extractedFlags
	var jobID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "explain <candidate-id>...",
		Short: "Build an evidence bundle for stored candidate ids",
		Long: `Explain rehydrates source-prefixed candidate ids (canonical::x,
corpus::y, fallback::z), re-runs scoring against the extracted fields, and
prints the primary verdict, checklist, sibling deltas, and alerts.

Example:
  carddex explain --name Charizard --number 4/102 canonical::base1-4 canonical::ex3-100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.name == "" {
				return fmt.Errorf("--name is required")
			}
			comp, err := buildComponents(ctx)
			if err != nil {
				return err
			}
			defer comp.close()

			bundle, err := comp.service.ExplainCandidates(cmd.Context(), retrieval.Job{
				ID:           jobID,
				Extracted:    flags.fields(),
				CandidateIDs: args,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, bundle)
			}
			printBundle(cmd, bundle)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&jobID, "job", "", "Job identifier recorded on the bundle")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func printBundle(cmd *cobra.Command, bundle *retrieval.EvidenceBundle) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status: %s\n", bundle.Status)
	if bundle.Primary != nil {
		fmt.Fprintf(out, "Primary: %s (%s) score=%s\n",
			bundle.Primary.Candidate.Name,
			bundle.Primary.Candidate.EncodedID(),
			formatScore(bundle.Primary.Score))
		for _, sig := range bundle.Primary.Signals {
			fmt.Fprintf(out, "  [%s] %s: %s\n", sig.Strength, sig.Key, sig.Detail)
		}
	}
	if len(bundle.Checklist) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(bundle.Checklist))
		for _, check := range bundle.Checklist {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			rows = append(rows, []string{check.Field, check.Expected, check.Actual, status, check.Detail})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"FIELD", "EXPECTED", "ACTUAL", "STATUS", "NOTE"},
			rows,
		))
	}
	if len(bundle.Siblings) > 0 {
		fmt.Fprintln(out, "Siblings:")
		for _, sibling := range bundle.Siblings {
			fmt.Fprintf(out, "  %s score=%s delta=%s\n",
				sibling.Candidate.EncodedID(),
				formatScore(sibling.Score),
				formatScore(sibling.Delta))
		}
	}
	for _, alert := range bundle.Alerts {
		fmt.Fprintf(out, "Alert: %s\n", alert)
	}
}
