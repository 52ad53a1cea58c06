package generate

import (
	"fmt"
	"strings"
)

// maxPromptContent caps the raw material embedded in one prompt. Large slide
// decks routinely exceed the service's input window otherwise.
const maxPromptContent = 60000

const structurePrompt = `You are a course documentation expert. Analyze the course content and generate a navigation sidebar in Markdown format.

## CRITICAL - Preserve Original Language

Keep ALL titles in their original language (English/Chinese/etc.). DO NOT translate any content.

## Output Format

Generate the sidebar in this exact format:

* [Lecture Title](Filename.md)
  * [Section 1](Filename.md#anchor-1)
  * [Section 2](Filename.md#anchor-2)

* [Next Lecture](Filename2.md)
  * [Section A](Filename2.md#anchor-a)

## Rules

1. File names: remove special characters (#, spaces, /, ?), replace spaces with underscores. "Lecture #1: Intro" becomes Lecture_1_Intro.md
2. Anchors: lowercase, spaces replaced with hyphens. "What is SE?" becomes #what-is-se
3. Top level entries are lectures/chapters; two-space indented entries are their sections. Skip page numbers and metadata.

## Course Content

`

const chapterPrompt = `You are a professional documentation expert. Generate a complete, well-formatted chapter from raw course material.

## CRITICAL CONSTRAINTS

1. One file = one chapter: generate EXACTLY ONE chapter for this input
2. Complete output: a full Markdown document with structure AND content, no placeholders
3. Preserve language: keep ALL content in the original language, do not translate

## INPUT INFORMATION

Source file: %s
Chapter title: %s

The chapter should contain these sections:
%s

## REQUIREMENTS

1. Top-level heading (#): the chapter title, once
2. Second-level headings (##): the sections listed above, in order
3. Keep code blocks with language tags, lists, tables and image references exactly as they appear in the source (do not change image paths)
4. Reorganize page-oriented slide text into topic-oriented documentation
5. If the source has no material for a section, write: *(Content to be added)*

## RAW CONTENT

%s

---

Now generate the complete chapter markdown, no explanation:`

// BuildStructurePrompt asks the service for a whole-course sidebar.
func BuildStructurePrompt(courseName, mergedContent string) string {
	var sb strings.Builder
	sb.WriteString(structurePrompt)
	fmt.Fprintf(&sb, "Course: %s\n\n", courseName)
	sb.WriteString(clip(mergedContent))
	sb.WriteString("\n\nNow generate ONLY the sidebar markdown, no explanation:\n")
	return sb.String()
}

// BuildChapterPrompt asks the service for one complete chapter document.
func BuildChapterPrompt(sourceFile, chapterTitle string, sections []string, rawContent string) string {
	lines := make([]string, 0, len(sections))
	for _, s := range sections {
		lines = append(lines, "- "+s)
	}
	return fmt.Sprintf(chapterPrompt, sourceFile, chapterTitle, strings.Join(lines, "\n"), clip(rawContent))
}

func clip(s string) string {
	if len(s) > maxPromptContent {
		return s[:maxPromptContent]
	}
	return s
}
