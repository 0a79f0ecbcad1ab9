package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"carddex/internal/card"
	"carddex/internal/retrieval"
	"carddex/internal/triangulate"
	"carddex/internal/triangulate/tcgapi"
)

type extractedFlags struct {
	name         string
	set          string
	number       string
	rarity       string
	cardType     string
	hp           string
	artist       string
	firstEdition bool
	shadowless   bool
	holo         string
}

func (f *extractedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Extracted card name")
	cmd.Flags().StringVar(&f.set, "set", "", "Extracted set name")
	cmd.Flags().StringVar(&f.number, "number", "", "Extracted card number, e.g. 083/165")
	cmd.Flags().StringVar(&f.rarity, "rarity", "", "Extracted rarity text")
	cmd.Flags().StringVar(&f.cardType, "type", "", "Extracted card type")
	cmd.Flags().StringVar(&f.hp, "hp", "", "Extracted HP value")
	cmd.Flags().StringVar(&f.artist, "artist", "", "Extracted artist name")
	cmd.Flags().BoolVar(&f.firstEdition, "first-edition", false, "Card shows a first-edition stamp")
	cmd.Flags().BoolVar(&f.shadowless, "shadowless", false, "Card shows the shadowless frame")
	cmd.Flags().StringVar(&f.holo, "holo", "", "Holo treatment: holo, reverse-holo, or non-holo")
}

func (f *extractedFlags) fields() card.ExtractedFields {
	return card.ExtractedFields{
		Name:         f.name,
		SetName:      f.set,
		SetNumber:    f.number,
		FirstEdition: f.firstEdition,
		Shadowless:   f.shadowless,
		HoloType:     card.HoloType(f.holo),
		Rarity:       f.rarity,
		CardType:     f.cardType,
		HP:           f.hp,
		Artist:       f.artist,
	}
}

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	var flags extractedFlags
	var limit int
	var jsonOut bool
	var withHint bool

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Rank catalog candidates for extracted card fields",
		Long: `Candidates searches the canonical catalog first, falls back to the
ingested corpus, and ranks the pool with the candidate scorer. With
--triangulate, a set identity is triangulated first and used as a scoring
boost for candidates whose set name matches it exactly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.name == "" {
				return fmt.Errorf("--name is required")
			}
			comp, err := buildComponents(ctx)
			if err != nil {
				return err
			}
			defer comp.close()

			extracted := flags.fields()
			var hint *retrieval.SetHint
			if withHint {
				hint = triangulateHint(cmd, comp, extracted)
			}

			candidates, err := comp.service.GetCandidates(cmd.Context(), extracted, limit, hint)
			if err != nil {
				return err
			}

			if jsonOut {
				payload := struct {
					Candidates []retrieval.ScoredCandidate `json:"candidates"`
					Unmatched  bool                        `json:"unmatched"`
					Telemetry  retrieval.TelemetrySnapshot `json:"telemetry"`
				}{candidates, comp.service.AllBelowThreshold(candidates), comp.service.Telemetry().Snapshot()}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No candidates found.")
				return nil
			}
			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, []string{
					c.Candidate.EncodedID(),
					c.Candidate.Name,
					c.Candidate.SetName,
					c.Candidate.Number,
					formatScore(c.Score),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "NAME", "SET", "NUMBER", "SCORE"},
				rows, 3, 4,
			))
			if comp.service.AllBelowThreshold(candidates) {
				fmt.Fprintln(out, "All candidates scored below the unmatched threshold; flag for manual review.")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum candidates to return (0 uses the configured default)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&withHint, "triangulate", false, "Triangulate a set hint before ranking")
	return cmd
}

// triangulateHint runs set triangulation and converts a usable outcome into
// a scoring hint. Failures degrade to no hint.
func triangulateHint(cmd *cobra.Command, comp *components, extracted card.ExtractedFields) *retrieval.SetHint {
	client, err := tcgapi.New(
		comp.cfg.CardSearch.APIKey,
		comp.cfg.CardSearch.BaseURL,
		time.Duration(comp.cfg.CardSearch.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "triangulation unavailable: %v\n", err)
		return nil
	}
	tri := triangulate.New(client, comp.cfg, comp.logger)
	result := tri.Triangulate(cmd.Context(), triangulate.SignalsFromExtracted(extracted))
	if !result.Resolved() {
		return nil
	}
	return &retrieval.SetHint{SetName: result.SetName, Confidence: result.Confidence}
}
