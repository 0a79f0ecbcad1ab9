package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"carddex/internal/corpus"
)

// WriteSeedFile writes the records as a JSONL corpus seed and returns the
// file path.
func WriteSeedFile(t testing.TB, dir string, records []corpus.Record) string {
	t.Helper()

	path := filepath.Join(dir, "seed.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			t.Fatalf("encode seed record %s: %v", record.ID, err)
		}
	}
	return path
}
