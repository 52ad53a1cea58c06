package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwesley/courseforge/internal/doc"
	"github.com/dwesley/courseforge/internal/generate"
	"github.com/dwesley/courseforge/internal/importer"
	"github.com/dwesley/courseforge/internal/sidebar"
)

// RuleBasedTree derives the course structure straight from the imported
// sources: one chapter per document, level-2 headings as its sections.
func RuleBasedTree(blocks []doc.SourceBlock) sidebar.Tree {
	var tree sidebar.Tree
	for _, b := range blocks {
		title := b.ExtractedTitle
		if title == "" {
			title = fileStem(b.SourceFilename)
		}
		ch := sidebar.Chapter{
			Title:    title,
			Filename: fileStem(b.SourceFilename),
		}
		for _, sec := range importer.ExtractSections(b.RawText) {
			ch.Sections = append(ch.Sections, sidebar.NewSection(sec))
		}
		tree.Chapters = append(tree.Chapters, ch)
	}
	tree.DedupFilenames()
	return tree
}

// GeneratedTree asks the generation service for a whole-course sidebar and
// parses the response. Retryable service errors are retried with backoff.
func GeneratedTree(ctx context.Context, gen generate.Generator, courseName string, blocks []doc.SourceBlock) (sidebar.Tree, error) {
	var merged strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&merged, "## Source file: %s\n\n%s\n\n", b.SourceFilename, b.RawText)
	}
	prompt := generate.BuildStructurePrompt(courseName, merged.String())

	raw, err := generateWithRetry(ctx, gen, prompt)
	if err != nil {
		return sidebar.Tree{}, err
	}
	tree := sidebar.Parse(raw)
	if len(tree.Chapters) == 0 {
		return sidebar.Tree{}, fmt.Errorf("service returned no parseable chapters")
	}
	// The service may emit the same filename for two chapters; a shared
	// target would make the second chapter overwrite the first.
	tree.DedupFilenames()
	return tree, nil
}

// ExtractTree resolves the course structure. With a generator it asks the
// service first and falls back to the rule-based tree on failure; without
// one it goes rule-based directly.
func ExtractTree(ctx context.Context, gen generate.Generator, courseName string, blocks []doc.SourceBlock, log *slog.Logger) sidebar.Tree {
	if gen == nil {
		return RuleBasedTree(blocks)
	}
	tree, err := GeneratedTree(ctx, gen, courseName, blocks)
	if err != nil {
		log.Warn("structure generation failed, using rule-based structure", "error", err)
		return RuleBasedTree(blocks)
	}
	return tree
}

func generateWithRetry(ctx context.Context, gen generate.Generator, prompt string) (string, error) {
	var out string
	var lastErr error
	for attempt := range MaxRetries {
		out, lastErr = gen.Generate(ctx, prompt)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return out, lastErr
}

func fileStem(name string) string {
	return strings.TrimSuffix(name, ".md")
}
