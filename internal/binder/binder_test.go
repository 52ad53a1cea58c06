package binder

import (
	"strings"
	"testing"

	"github.com/dwesley/courseforge/internal/doc"
	"github.com/dwesley/courseforge/internal/sidebar"
)

func chapters(titles ...string) []sidebar.Chapter {
	out := make([]sidebar.Chapter, 0, len(titles))
	for _, t := range titles {
		out = append(out, sidebar.Chapter{Title: t, Filename: strings.ReplaceAll(t, " ", "_")})
	}
	return out
}

func TestBind_ExactMatch(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "intro.md", ExtractedTitle: "Introduction", RawText: "intro body"},
		{SourceFilename: "design.md", ExtractedTitle: "Design", RawText: "design body"},
	}
	got := Cascade{}.Bind(chapters("Introduction"), blocks)
	if len(got) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(got))
	}
	if got[0].Tier != TierExact {
		t.Errorf("expected exact tier, got %s", got[0].Tier)
	}
	if got[0].Source != "intro.md" || got[0].Text != "intro body" {
		t.Errorf("bound wrong block: %+v", got[0])
	}
}

func TestBind_ExactIsWhitespaceNormalized(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "a.md", ExtractedTitle: "Software   Engineering\tBasics", RawText: "body"},
	}
	got := Cascade{}.Bind(chapters("Software Engineering Basics"), blocks)
	if got[0].Tier != TierExact {
		t.Errorf("expected exact tier after whitespace normalization, got %s", got[0].Tier)
	}
}

func TestBind_ExactIsCaseSensitive(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "a.md", ExtractedTitle: "introduction", RawText: "body"},
	}
	got := Cascade{}.Bind(chapters("Introduction"), blocks)
	if got[0].Tier == TierExact {
		t.Errorf("case difference must not satisfy the exact tier")
	}
	// It still resolves, one tier down.
	if got[0].Tier != TierSubstring {
		t.Errorf("expected substring tier, got %s", got[0].Tier)
	}
}

func TestBind_SubstringEitherDirection(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "x.md", ExtractedTitle: "Unrelated", RawText: "no"},
		{SourceFilename: "se.md", ExtractedTitle: "Introduction to SE", RawText: "se body"},
	}
	// Chapter title contains the block title.
	got := Cascade{}.Bind(chapters("1. Introduction to SE"), blocks)
	if got[0].Tier != TierSubstring || got[0].Source != "se.md" {
		t.Errorf("expected substring match on se.md, got %+v", got[0])
	}

	// Block title contains the chapter title.
	got = Cascade{}.Bind(chapters("introduction"), blocks)
	if got[0].Tier != TierSubstring || got[0].Source != "se.md" {
		t.Errorf("expected reverse containment match, got %+v", got[0])
	}
}

func TestBind_SubstringFirstCandidateWins(t *testing.T) {
	// Both blocks contain the chapter title; iteration order breaks the tie.
	blocks := []doc.SourceBlock{
		{SourceFilename: "first.md", ExtractedTitle: "Design Patterns Part 1", RawText: "one"},
		{SourceFilename: "second.md", ExtractedTitle: "Design Patterns Part 2", RawText: "two"},
	}
	got := Cascade{}.Bind(chapters("Design Patterns"), blocks)
	if got[0].Source != "first.md" {
		t.Errorf("expected first candidate to win the tie, got %q", got[0].Source)
	}
}

func TestBind_PositionalFallback(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "lec1.md", ExtractedTitle: "", RawText: "lecture one"},
		{SourceFilename: "lec2.md", ExtractedTitle: "", RawText: "lecture two"},
	}
	got := Cascade{}.Bind(chapters("Alpha", "Beta"), blocks)
	if got[0].Tier != TierPositional || got[0].Source != "lec1.md" {
		t.Errorf("chapter 0 should take block 0: %+v", got[0])
	}
	if got[1].Tier != TierPositional || got[1].Source != "lec2.md" {
		t.Errorf("chapter 1 should take block 1: %+v", got[1])
	}
}

func TestBind_ConcatWhenOutOfBlocks(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "only.md", ExtractedTitle: "", RawText: "part A"},
	}
	got := Cascade{}.Bind(chapters("First", "Second"), blocks)
	if got[1].Tier != TierConcat {
		t.Fatalf("expected concat tier for extra chapter, got %s", got[1].Tier)
	}
	if got[1].Source != "" {
		t.Errorf("concat binding should have no single source, got %q", got[1].Source)
	}
	if got[1].Text != "part A" {
		t.Errorf("concat text wrong: %q", got[1].Text)
	}
}

func TestBind_SameBlockMayServeTwoChapters(t *testing.T) {
	blocks := []doc.SourceBlock{
		{SourceFilename: "se.md", ExtractedTitle: "Software Engineering", RawText: "body"},
		{SourceFilename: "other.md", ExtractedTitle: "Databases", RawText: "db"},
	}
	got := Cascade{}.Bind(chapters("Software Engineering", "Intro to Software Engineering"), blocks)
	if got[0].Source != "se.md" || got[1].Source != "se.md" {
		t.Errorf("both chapters should resolve to the same block: %q, %q", got[0].Source, got[1].Source)
	}
	if got[0].Tier != TierExact || got[1].Tier != TierSubstring {
		t.Errorf("unexpected tiers: %s, %s", got[0].Tier, got[1].Tier)
	}
}

func TestTierString(t *testing.T) {
	for tier, want := range map[Tier]string{
		TierExact:      "exact",
		TierSubstring:  "substring",
		TierPositional: "positional",
		TierConcat:     "concat",
		Tier(0):        "unknown",
	} {
		if got := tier.String(); got != want {
			t.Errorf("Tier(%d).String() = %q, want %q", tier, got, want)
		}
	}
}
