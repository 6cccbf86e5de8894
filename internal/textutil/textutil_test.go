package textutil

import "testing"

func TestNormalizeForComparison(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":        "hello world",
		"  double   spaces  ":  "double spaces",
		"What's up? Not much.": "what s up not much",
		"":                     "",
	}
	for input, expected := range cases {
		if got := NormalizeForComparison(input); got != expected {
			t.Fatalf("NormalizeForComparison(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestNormalizeForCacheKey(t *testing.T) {
	cases := map[string]string{
		"Hello , world !":      "hello, world!",
		"Hi   there .":         "hi there.",
		"Keep: punctuation ;":  "keep: punctuation;",
		"Already clean, text.": "already clean, text.",
	}
	for input, expected := range cases {
		if got := NormalizeForCacheKey(input); got != expected {
			t.Fatalf("NormalizeForCacheKey(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestEnforceResponseBudgetUnderBudget(t *testing.T) {
	bounded, capped := EnforceResponseBudget("Short   answer.", 100)
	if capped {
		t.Fatal("text under budget should not be capped")
	}
	if bounded != "Short answer." {
		t.Fatalf("whitespace should still collapse: %q", bounded)
	}
}

func TestEnforceResponseBudgetBoundarySnap(t *testing.T) {
	// The rightmost boundary inside the 25-char head is the space at index
	// 23, past 60% of the budget, so the cap snaps there instead of
	// hard-cutting mid-word and then gains terminal punctuation.
	text := "This is a sentence. And this trailing clause will not fit at all."
	bounded, capped := EnforceResponseBudget(text, 25)
	if !capped {
		t.Fatal("text over budget should be capped")
	}
	if bounded != "This is a sentence. And." {
		t.Fatalf("boundary snap produced %q", bounded)
	}
}

func TestEnforceResponseBudgetHardCut(t *testing.T) {
	// No boundary exists before the limit, so the cut lands on the budget.
	bounded, capped := EnforceResponseBudget("Hello world", 5)
	if !capped {
		t.Fatal("expected cap")
	}
	if bounded != "Hello." {
		t.Fatalf("hard cut produced %q", bounded)
	}
}

func TestEnforceResponseBudgetMultibyteBoundary(t *testing.T) {
	// The only boundary is the space at rune index 10, short of 60% of the
	// 20-rune budget, so the cap must hard-cut even though the space sits at
	// byte offset 30 in UTF-8.
	text := "ありがとうございます ございますございます"
	bounded, capped := EnforceResponseBudget(text, 20)
	if !capped {
		t.Fatal("text over budget should be capped")
	}
	if bounded != "ありがとうございます ございますございま." {
		t.Fatalf("multibyte cap produced %q", bounded)
	}
}

func TestSplitFirstSentence(t *testing.T) {
	cases := []struct {
		input     string
		first     string
		remainder string
	}{
		{"Hi there. How are you?", "Hi there.", "How are you?"},
		{"no punctuation here", "no punctuation here", ""},
		{`"Quoted!" said the agent.`, `"Quoted!"`, "said the agent."},
		{"Ends with punctuation.", "Ends with punctuation.", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, remainder := SplitFirstSentence(tc.input)
		if first != tc.first || remainder != tc.remainder {
			t.Fatalf("SplitFirstSentence(%q) = (%q, %q), want (%q, %q)",
				tc.input, first, remainder, tc.first, tc.remainder)
		}
	}
}

func TestInspectModelOutput(t *testing.T) {
	raw := "<think>internal reasoning</think> Hello <b>world</b>!"
	inspection := InspectModelOutput(raw)

	if !inspection.HasThinkingTag || inspection.ThoughtTagCount != 2 {
		t.Fatalf("thought tags: %+v", inspection)
	}
	if !inspection.HasXMLTag {
		t.Fatalf("expected xml tags: %+v", inspection)
	}
	if inspection.Cleaned != "Hello world !" {
		t.Fatalf("cleaned excerpt = %q", inspection.Cleaned)
	}
}

func TestInspectModelOutputPlainText(t *testing.T) {
	inspection := InspectModelOutput("Just a plain response.")
	if inspection.HasThinkingTag || inspection.HasXMLTag ||
		inspection.ThoughtTagCount != 0 || inspection.XMLTagCount != 0 {
		t.Fatalf("plain text should report no tags: %+v", inspection)
	}
	if inspection.Cleaned != "Just a plain response." {
		t.Fatalf("cleaned = %q", inspection.Cleaned)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 280); got != "short" {
		t.Fatalf("Truncate should pass short text through, got %q", got)
	}
	got := Truncate("abcdefghij", 8)
	if got != "abcde..." {
		t.Fatalf("Truncate = %q, want %q", got, "abcde...")
	}
}
