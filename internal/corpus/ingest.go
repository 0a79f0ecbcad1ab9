package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"carddex/internal/services"
)

// EnsureIngested loads the seed feed into the corpus if it has not been
// loaded yet. It is idempotent and safe to call from concurrent requests:
// one caller runs the load while the rest wait on the same in-flight result.
func (s *Store) EnsureIngested(ctx context.Context) error {
	s.mu.Lock()
	if s.ingested {
		s.mu.Unlock()
		return nil
	}
	if s.inflight != nil {
		done := s.inflight
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ingested {
			return nil
		}
		return fmt.Errorf("corpus ingestion failed in another caller")
	}

	done := make(chan struct{})
	s.inflight = done
	s.mu.Unlock()

	err := s.ingestOnce(ctx)

	s.mu.Lock()
	s.inflight = nil
	if err == nil {
		s.ingested = true
	}
	s.mu.Unlock()
	close(done)
	return err
}

func (s *Store) ingestOnce(ctx context.Context) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 || s.seedPath == "" {
		// Already populated, or nothing configured to load.
		return nil
	}
	records, err := ReadSeedFile(s.seedPath)
	if err != nil {
		return fmt.Errorf("read corpus seed: %w", err)
	}
	return s.IngestRecords(ctx, records)
}

// ReadSeedFile parses a JSONL seed feed into corpus records. Blank lines are
// skipped; a malformed line aborts the load with its line number.
func ReadSeedFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, services.Wrap(services.ErrValidation, "corpus", "seed", fmt.Sprintf("line %d", line), err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
