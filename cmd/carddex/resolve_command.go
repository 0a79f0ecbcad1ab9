package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"carddex/internal/catalog"
	"carddex/internal/resolver"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var nameFlag, setFlag, numberFlag string

	cmd := &cobra.Command{
		Use:   "resolve [raw query]",
		Short: "Resolve a card deterministically against the canonical catalog",
		Long: `Resolve runs the exact-match rule ladder: card alias, then the
(name, set, number) triplet, then name alias, name+set, name+number, and
finally name-only. The raw query is parsed into fields; pass --name/--set/
--number instead to skip parsing.

Examples:
  carddex resolve "charizard base set 4/102"
  carddex resolve --name Charizard --set "Base Set" --number 4`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := buildComponents(ctx)
			if err != nil {
				return err
			}
			defer comp.close()
			if comp.catalog == nil {
				return fmt.Errorf("the canonical catalog is disabled; enable [catalog] in the config")
			}

			res := resolver.New(comp.catalog, comp.logger)
			var result resolver.Result
			if nameFlag != "" || setFlag != "" || numberFlag != "" {
				result = res.ExactMatch(cmd.Context(), resolver.Query{
					Name:   nameFlag,
					Set:    setFlag,
					Number: numberFlag,
				})
			} else {
				raw := strings.TrimSpace(strings.Join(args, " "))
				if raw == "" {
					return fmt.Errorf("a raw query or --name is required")
				}
				result = res.Resolve(cmd.Context(), raw)
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			printResolution(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringVar(&nameFlag, "name", "", "Card name (skips raw parsing)")
	cmd.Flags().StringVar(&setFlag, "set", "", "Set name")
	cmd.Flags().StringVar(&numberFlag, "number", "", "Card number, e.g. 4/102")
	return cmd
}

func printResolution(cmd *cobra.Command, result resolver.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verdict:    %s\n", result.Verdict)
	fmt.Fprintf(out, "Confidence: %s\n", formatScore(result.Confidence))
	if result.Card != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "NAME", "SET", "NUMBER"},
			[][]string{cardRow(*result.Card)}, 3,
		))
	}
	if len(result.Alternatives) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Alternatives:")
		rows := make([][]string, 0, len(result.Alternatives))
		for _, alt := range result.Alternatives {
			rows = append(rows, cardRow(alt))
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "NAME", "SET", "NUMBER"},
			rows, 3,
		))
	}
	if len(result.Evidence) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Evidence:")
		for _, line := range result.Evidence {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}
}

func cardRow(c catalog.Card) []string {
	return []string{c.ID, c.Name, c.SetName, c.CardNumber}
}
