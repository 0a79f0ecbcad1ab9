package card

import "testing"

func TestEncodedIDRoundTrip(t *testing.T) {
	c := Candidate{ID: "base1-4", Source: SourceCanonical}
	encoded := c.EncodedID()
	if encoded != "canonical::base1-4" {
		t.Fatalf("unexpected encoded id %q", encoded)
	}
	source, local := DecodeID(encoded)
	if source != SourceCanonical || local != "base1-4" {
		t.Fatalf("expected (canonical, base1-4), got (%s, %s)", source, local)
	}
}

func TestDecodeIDUnknownPrefix(t *testing.T) {
	source, local := DecodeID("mystery::42")
	if source != SourceUnknown || local != "mystery::42" {
		t.Fatalf("expected unknown source with input intact, got (%s, %q)", source, local)
	}
	source, local = DecodeID("bare-id")
	if source != SourceUnknown || local != "bare-id" {
		t.Fatalf("expected unknown source for bare id, got (%s, %q)", source, local)
	}
}
