// Package sidebar parses and renders the two-level chapter/section
// navigation tree used by the generated site. The on-disk form is
// line-oriented markdown:
//
//	* [Chapter Title](filename.md)
//	  * [Section Title](filename.md#anchor)
//
// Top-level entries have no indentation, sections exactly two spaces. A new
// top-level entry always closes the previous chapter's section list.
package sidebar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrChapterNotFound is returned by ReplaceChapterBlock when no top-level
// entry targets the requested filename.
var ErrChapterNotFound = errors.New("chapter not found in sidebar")

// Section is one second-level entry under a chapter.
type Section struct {
	Title  string
	Anchor string
}

// Chapter is one top-level entry. Filename is the content file stem without
// the .md extension.
type Chapter struct {
	Title    string
	Filename string
	Sections []Section
}

// Tree is the ordered navigation tree. Slice order is display order.
type Tree struct {
	Chapters []Chapter
}

// DedupFilenames renames chapters so no two entries target the same content
// file. The first holder keeps the name, later ones get a numeric suffix
// (Intro, Intro_2, Intro_3). Empty filenames fall back to "Chapter".
func (t *Tree) DedupFilenames() {
	used := make(map[string]bool, len(t.Chapters))
	for i := range t.Chapters {
		name := t.Chapters[i].Filename
		if name == "" {
			name = "Chapter"
		}
		if used[name] {
			n := 2
			for used[fmt.Sprintf("%s_%d", name, n)] {
				n++
			}
			name = fmt.Sprintf("%s_%d", name, n)
		}
		used[name] = true
		t.Chapters[i].Filename = name
	}
}

// NewSection builds a Section with its anchor derived from the title.
func NewSection(title string) Section {
	return Section{Title: title, Anchor: Anchor(title)}
}

var (
	anchorStripRe = regexp.MustCompile(`[^\w\s\x{4e00}-\x{9fff}-]`)
	anchorSpaceRe = regexp.MustCompile(`\s+`)
)

// Anchor derives the deterministic heading slug for a section title:
// lowercase, whitespace to hyphens, everything outside the word/hyphen/CJK
// set stripped. Runs of hyphens are kept as-is to match the slugs docsify
// renders for the headings. Anchors are only required to be unique within
// one chapter.
func Anchor(title string) string {
	a := strings.ToLower(title)
	a = anchorStripRe.ReplaceAllString(a, "")
	a = anchorSpaceRe.ReplaceAllString(a, "-")
	return strings.Trim(a, "-")
}

// renderChapter emits the lines for a single chapter, no trailing blank.
func renderChapter(ch Chapter, sb *strings.Builder) {
	fmt.Fprintf(sb, "* [%s](%s.md)\n", ch.Title, ch.Filename)
	for _, s := range ch.Sections {
		fmt.Fprintf(sb, "  * [%s](%s.md#%s)\n", s.Title, ch.Filename, s.Anchor)
	}
}

// Render serializes the whole tree. Chapters are separated by one blank line.
func Render(t Tree) string {
	var sb strings.Builder
	for i, ch := range t.Chapters {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderChapter(ch, &sb)
	}
	return sb.String()
}

var (
	chapterLineRe = regexp.MustCompile(`^\* \[(.*?)\]\((.*?)\)`)
	sectionLineRe = regexp.MustCompile(`^  \* \[(.*?)\]\((.*?)#(.*?)\)`)
)

// Parse scans sidebar text into a Tree. It is deliberately tolerant: blank
// lines, HTML comments, and lines matching neither grammar shape are skipped
// without error.
func Parse(text string) Tree {
	var t Tree
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || strings.HasPrefix(strings.TrimSpace(line), "<!--") {
			continue
		}
		if m := chapterLineRe.FindStringSubmatch(line); m != nil {
			t.Chapters = append(t.Chapters, Chapter{
				Title:    m[1],
				Filename: strings.TrimSuffix(m[2], ".md"),
			})
			continue
		}
		if m := sectionLineRe.FindStringSubmatch(line); m != nil {
			if len(t.Chapters) == 0 {
				continue // orphan section line, skip
			}
			last := &t.Chapters[len(t.Chapters)-1]
			last.Sections = append(last.Sections, Section{Title: m[1], Anchor: m[3]})
		}
	}
	return t
}

// isChapterLine reports whether a raw line opens a top-level entry.
func isChapterLine(line string) bool {
	return strings.HasPrefix(line, "* [")
}

// ReplaceChapterBlock rewrites exactly one chapter's block inside existing
// sidebar text. The block starts at the top-level line whose link target is
// ch.Filename+".md" and spans up to (excluding) the next top-level line or
// the end of text. Every line outside the block is preserved byte for byte.
// Returns ErrChapterNotFound, with the input unchanged, when no top-level
// line targets the filename.
func ReplaceChapterBlock(existing string, filename string, ch Chapter) (string, error) {
	lines := strings.Split(existing, "\n")

	start := -1
	for i, line := range lines {
		m := chapterLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if m[2] == filename+".md" {
			start = i
			break
		}
	}
	if start < 0 {
		return existing, fmt.Errorf("replace %q: %w", filename, ErrChapterNotFound)
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isChapterLine(lines[i]) {
			end = i
			break
		}
	}

	var block strings.Builder
	renderChapter(ch, &block)
	newLines := strings.Split(strings.TrimRight(block.String(), "\n"), "\n")
	if end < len(lines) {
		// A following chapter exists: re-insert the blank separator.
		newLines = append(newLines, "")
	} else if strings.HasSuffix(existing, "\n") {
		// The block ran to the end of a newline-terminated file; keep the
		// terminator, which lives in the split as a final empty element.
		newLines = append(newLines, "")
	}

	out := make([]string, 0, len(lines)-(end-start)+len(newLines))
	out = append(out, lines[:start]...)
	out = append(out, newLines...)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), nil
}
