// Package binder matches structural chapters against imported source
// documents. Matching is best effort: titles coming out of structure
// extraction rarely equal the raw document titles exactly, so a cascade of
// increasingly loose strategies is tried per chapter.
package binder

import (
	"strings"

	"github.com/dwesley/courseforge/internal/doc"
	"github.com/dwesley/courseforge/internal/sidebar"
)

// Tier identifies which cascade step produced a binding.
type Tier int

const (
	// TierExact: chapter title equals a block's extracted title after
	// whitespace normalization, case-sensitive.
	TierExact Tier = iota + 1
	// TierSubstring: case-insensitive bidirectional containment; the first
	// candidate in iteration order wins.
	TierSubstring
	// TierPositional: chapter i takes source block i.
	TierPositional
	// TierConcat: no positional candidate either; all blocks concatenated.
	TierConcat
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierPositional:
		return "positional"
	case TierConcat:
		return "concat"
	}
	return "unknown"
}

// Binding pairs a chapter with the source text chosen for it. Source is the
// filename of the chosen block, empty for a TierConcat binding.
type Binding struct {
	Chapter sidebar.Chapter
	Source  string
	Text    string
	Tier    Tier
}

// Binder binds every chapter of a tree to source content. Implementations
// must return exactly one Binding per chapter, in chapter order.
type Binder interface {
	Bind(chapters []sidebar.Chapter, blocks []doc.SourceBlock) []Binding
}

// Cascade is the default Binder. The zero value is ready to use.
type Cascade struct{}

// normalizeWS collapses runs of whitespace to single spaces.
func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Bind resolves each chapter through the cascade, stopping at the first tier
// that succeeds. The same block may serve several chapters; nothing here
// prevents that.
func (Cascade) Bind(chapters []sidebar.Chapter, blocks []doc.SourceBlock) []Binding {
	bindings := make([]Binding, 0, len(chapters))
	for i, ch := range chapters {
		bindings = append(bindings, bindOne(ch, i, blocks))
	}
	return bindings
}

func bindOne(ch sidebar.Chapter, idx int, blocks []doc.SourceBlock) Binding {
	title := normalizeWS(ch.Title)

	// Tier 1: exact title match.
	for _, b := range blocks {
		if b.ExtractedTitle != "" && normalizeWS(b.ExtractedTitle) == title {
			return Binding{Chapter: ch, Source: b.SourceFilename, Text: b.RawText, Tier: TierExact}
		}
	}

	// Tier 2: bidirectional substring, case-insensitive. First hit wins.
	lower := strings.ToLower(title)
	for _, b := range blocks {
		if b.ExtractedTitle == "" {
			continue
		}
		cand := strings.ToLower(normalizeWS(b.ExtractedTitle))
		if cand == "" {
			continue
		}
		if strings.Contains(lower, cand) || strings.Contains(cand, lower) {
			return Binding{Chapter: ch, Source: b.SourceFilename, Text: b.RawText, Tier: TierSubstring}
		}
	}

	// Tier 3: positional.
	if idx < len(blocks) {
		return Binding{Chapter: ch, Source: blocks[idx].SourceFilename, Text: blocks[idx].RawText, Tier: TierPositional}
	}

	// Tier 4: everything we have.
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		texts = append(texts, b.RawText)
	}
	return Binding{Chapter: ch, Text: strings.Join(texts, "\n\n"), Tier: TierConcat}
}
