package normalize

import "testing"

func TestTextCollapsesWhitespace(t *testing.T) {
	got := Text("  Dark   Charizard ")
	if got != "dark charizard" {
		t.Fatalf("expected %q, got %q", "dark charizard", got)
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{"  Pikachu  ", "MR. MIME", "Ho-Oh EX", "", "  \t mew   two "}
	for _, input := range inputs {
		once := Text(input)
		twice := Text(once)
		if once != twice {
			t.Fatalf("normalization not idempotent for %q: %q vs %q", input, once, twice)
		}
	}
}

func TestCardNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"083/165", "83"},
		{"025", "25"},
		{"0", "0"},
		{"000/102", "0"},
		{"4/102", "4"},
		{"SWSH039", "swsh039"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CardNumber(tc.in); got != tc.want {
			t.Fatalf("CardNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumberParts(t *testing.T) {
	num, total, ok := NumberParts("083/165")
	if !ok || num != "83" || total != "165" {
		t.Fatalf("expected (83, 165, true), got (%q, %q, %v)", num, total, ok)
	}

	num, total, ok = NumberParts("SWSH039")
	if !ok || num != "39" || total != "" {
		t.Fatalf("expected trailing-run parse (39, \"\", true), got (%q, %q, %v)", num, total, ok)
	}

	if _, _, ok := NumberParts("promo"); ok {
		t.Fatal("expected unparseable input to report ok=false")
	}
	if _, _, ok := NumberParts(""); ok {
		t.Fatal("expected empty input to report ok=false")
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Mr. Mime (1st Edition)")
	want := []string{"mr", "mime", "1st", "edition"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestOverlapRatio(t *testing.T) {
	candidate := []string{"dark", "charizard", "holo"}
	extracted := []string{"dark", "charizard"}
	if got := OverlapRatio(candidate, extracted); got < 0.66 || got > 0.67 {
		t.Fatalf("expected ~0.667, got %f", got)
	}
	if got := OverlapRatio(nil, extracted); got != 0 {
		t.Fatalf("expected 0 for empty candidate, got %f", got)
	}
	if got := OverlapRatio(candidate, nil); got != 0 {
		t.Fatalf("expected 0 for empty extracted, got %f", got)
	}
}
