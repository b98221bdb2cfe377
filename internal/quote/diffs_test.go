package quote

import (
	"strings"
	"testing"
)

func TestDiffWordRuns_SourceOmission(t *testing.T) {
	entries := diffWordRuns("the quick brown fox jumps", "the brown fox jumps", 10)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %v", entries)
	}
	if !strings.Contains(entries[0], `"quick"`) || !strings.Contains(entries[0], "omits") {
		t.Errorf("Expected an omission entry naming quick, got %q", entries[0])
	}
}

func TestDiffWordRuns_QuoteAddition(t *testing.T) {
	entries := diffWordRuns("the brown fox", "the very brown fox", 10)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %v", entries)
	}
	if !strings.Contains(entries[0], `"very"`) || !strings.Contains(entries[0], "adds") {
		t.Errorf("Expected an addition entry naming very, got %q", entries[0])
	}
}

func TestDiffWordRuns_RunsGrouped(t *testing.T) {
	entries := diffWordRuns("alpha beta gamma delta epsilon", "alpha epsilon", 10)

	if len(entries) != 1 {
		t.Fatalf("Expected one grouped run, got %v", entries)
	}
	if !strings.Contains(entries[0], `"beta gamma delta"`) {
		t.Errorf("Expected the omitted run grouped, got %q", entries[0])
	}
}

func TestDiffWordRuns_Identical(t *testing.T) {
	if entries := diffWordRuns("same words here", "same words here", 10); len(entries) != 0 {
		t.Errorf("Expected no entries for identical inputs, got %v", entries)
	}
}

func TestDiffWordRuns_Capped(t *testing.T) {
	source := "a1 x a2 x a3 x a4 x a5 x a6 x"
	quote := "a1 y a2 y a3 y a4 y a5 y a6 y"

	entries := diffWordRuns(source, quote, 3)

	if len(entries) != 3 {
		t.Errorf("Expected entries capped at 3, got %d", len(entries))
	}
}

func TestSuggestions_Ellipsis(t *testing.T) {
	source := "a very long source passage with many additional words beyond the quoted fragment"
	out := suggestions("quoted fragment", source)

	found := false
	for _, s := range out {
		if strings.Contains(s, "ellipsis") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an ellipsis suggestion, got %v", out)
	}
}

func TestSuggestions_BracketNotation(t *testing.T) {
	out := suggestions("laws of nature", "Laws of nature")

	found := false
	for _, s := range out {
		if strings.Contains(s, "[l]aws of nature") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a bracket-notation suggestion, got %v", out)
	}
}

func TestSuggestions_NoneWhenAligned(t *testing.T) {
	if out := suggestions("laws of nature", "laws of nature"); len(out) != 0 {
		t.Errorf("Expected no suggestions, got %v", out)
	}
}
