package main

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"carddex/internal/config"
	"carddex/internal/corpus"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file.jsonl>",
		Short: "Bulk-load corpus records from a JSONL file",
		Long: `Ingest parses one JSON record per line and loads the rows into the
fallback corpus. Existing ids are replaced, so re-running an ingest is
idempotent. A file lock prevents concurrent ingests from racing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			seedPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve seed path: %w", err)
			}
			records, err := corpus.ReadSeedFile(seedPath)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			if len(records) == 0 {
				return fmt.Errorf("seed file %s contains no records", seedPath)
			}

			lock := flock.New(cfg.IngestLockPath())
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire ingest lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another ingest is already running (lock %s)", cfg.IngestLockPath())
			}
			defer func() { _ = lock.Unlock() }()

			store, err := corpus.Open(cfg)
			if err != nil {
				return fmt.Errorf("open corpus: %w", err)
			}
			defer store.Close()

			if err := store.IngestRecords(cmd.Context(), records); err != nil {
				return fmt.Errorf("ingest records: %w", err)
			}
			total, err := store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count corpus rows: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d records from %s (%d rows total)\n",
				len(records), seedPath, total)
			return nil
		},
	}
	return cmd
}
