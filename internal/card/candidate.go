package card

import (
	"fmt"
	"strings"
)

// Source identifies which store produced a candidate.
type Source int

const (
	SourceUnknown Source = iota
	SourceCanonical
	SourceCorpus
	SourceFallback
)

// String returns the wire token for the source.
func (s Source) String() string {
	switch s {
	case SourceCanonical:
		return "canonical"
	case SourceCorpus:
		return "corpus"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Candidate is a fuzzy-path catalog candidate. Candidates are produced fresh
// per query and never persisted by the resolution core.
type Candidate struct {
	ID          string
	Source      Source
	Name        string
	SetName     string
	ReleaseYear int
	SalesVolume float64
	Number      string
	SetTotal    string
}

// EncodedID returns the source-prefixed identifier used at serialization
// boundaries, e.g. "canonical::swsh4-25".
func (c Candidate) EncodedID() string {
	return fmt.Sprintf("%s::%s", c.Source, c.ID)
}

// DecodeID splits a source-prefixed identifier back into source and local id.
// Unknown or missing prefixes decode as SourceUnknown with the input intact.
func DecodeID(encoded string) (Source, string) {
	prefix, local, found := strings.Cut(encoded, "::")
	if !found {
		return SourceUnknown, encoded
	}
	switch prefix {
	case "canonical":
		return SourceCanonical, local
	case "corpus":
		return SourceCorpus, local
	case "fallback":
		return SourceFallback, local
	default:
		return SourceUnknown, encoded
	}
}
