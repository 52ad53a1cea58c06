package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dwesley/courseforge/internal/binder"
	"github.com/dwesley/courseforge/internal/doc"
	"github.com/dwesley/courseforge/internal/generate"
	"github.com/dwesley/courseforge/internal/importer"
	"github.com/dwesley/courseforge/internal/sidebar"
	"github.com/dwesley/courseforge/internal/site"
)

// Placeholder fills a chapter the pipeline has no generated content for.
const Placeholder = "*(Content to be added)*"

// Runner executes one full course build: import sources, work out the
// structure, bind each chapter to source material, produce chapter files and
// render the site shell around them.
type Runner struct {
	imp      *importer.Importer
	scaffold *site.Scaffolder
	gen      generate.Generator // nil disables service generation
	bind     binder.Binder
	navbar   []site.NavItem
	log      *slog.Logger
}

func NewRunner(imp *importer.Importer, scaffold *site.Scaffolder, gen generate.Generator, navbar []site.NavItem, log *slog.Logger) *Runner {
	return &Runner{
		imp:      imp,
		scaffold: scaffold,
		gen:      gen,
		bind:     binder.Cascade{},
		navbar:   navbar,
		log:      log,
	}
}

// Run executes the build for a job, updating its status as phases complete.
func (r *Runner) Run(ctx context.Context, job *Job) {
	log := r.log.With("job_id", job.ID, "course", job.CourseName)

	// Phase 1: Import
	job.SetStatus(StatusImporting, "importing")
	blocks, err := r.importSources(job.SourceDir)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "importing")
		return
	}
	if len(blocks) == 0 {
		log.Warn("no source documents found")
		job.AddError("no source documents")
		job.SetStatus(StatusFailed, "importing")
		return
	}
	log.Info("sources imported", "documents", len(blocks))

	// Phase 2: Structure
	job.SetStatus(StatusExtracting, "structure")
	tree := ExtractTree(ctx, r.gen, job.CourseName, blocks, log)
	job.SetTotalChapters(len(tree.Chapters))
	log.Info("structure extracted", "chapters", len(tree.Chapters))

	// Phase 3: Bind
	job.SetStatus(StatusBinding, "binding")
	bindings := r.bind.Bind(tree.Chapters, blocks)
	for _, b := range bindings {
		log.Debug("chapter bound", "chapter", b.Chapter.Title, "source", b.Source, "tier", b.Tier.String())
	}

	// Phase 4: Generate chapter content.
	job.SetStatus(StatusGenerating, "generating")
	drafts := make([]doc.ChapterDraft, 0, len(bindings))
	hadErrors := false
	for _, b := range bindings {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "generating")
			return
		}
		draft, err := r.draftChapter(ctx, b)
		if err != nil {
			log.Error("chapter generation failed", "chapter", b.Chapter.Title, "error", err)
			job.AddError(fmt.Sprintf("chapter %s: %s", b.Chapter.Filename, err))
			hadErrors = true
			draft = fallbackDraft(b)
		}
		drafts = append(drafts, draft)
		job.IncrChaptersGenerated()
	}

	// Sections may have shifted during generation; rebuild the tree from the
	// drafts so the sidebar matches what the chapters actually contain.
	tree = treeFromDrafts(drafts)

	// Phase 5: Render
	job.SetStatus(StatusRendering, "rendering")
	renderErrors := false
	for _, d := range drafts {
		if err := r.scaffold.WriteChapter(d.Filename, d.Content); err != nil {
			log.Error("chapter write failed", "chapter", d.Filename, "error", err)
			job.AddError(fmt.Sprintf("write %s: %s", d.Filename, err))
			renderErrors = true
		}
	}
	if err := r.scaffold.Scaffold(job.CourseName, tree, r.navbar); err != nil {
		log.Error("scaffold failed", "error", err)
		job.AddError(fmt.Sprintf("scaffold: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	switch {
	case renderErrors:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("build finished", "status", job.Status, "chapters", len(drafts))
}

// importSources picks the import mode from the source layout: directories
// mean pre-converted documents (one subdir per document), plain files are
// handled per extension.
func (r *Runner) importSources(srcDir string) ([]doc.SourceBlock, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, err
	}
	hasDirs := false
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			hasDirs = true
		} else {
			files = append(files, filepath.Join(srcDir, e.Name()))
		}
	}
	if hasDirs {
		return r.imp.ImportConverted(srcDir)
	}
	return r.imp.ImportFiles(files)
}

// draftChapter produces the chapter markdown for one binding, through the
// generation service when one is configured, otherwise from the raw source.
func (r *Runner) draftChapter(ctx context.Context, b binder.Binding) (doc.ChapterDraft, error) {
	if r.gen == nil {
		return fallbackDraft(b), nil
	}

	secs := make([]string, 0, len(b.Chapter.Sections))
	for _, s := range b.Chapter.Sections {
		secs = append(secs, s.Title)
	}
	prompt := generate.BuildChapterPrompt(b.Source, b.Chapter.Title, secs, b.Text)
	content, err := generateWithRetry(ctx, r.gen, prompt)
	if err != nil {
		return doc.ChapterDraft{}, err
	}
	if content == "" {
		return doc.ChapterDraft{}, fmt.Errorf("empty chapter from service")
	}
	return draftFromContent(b.Chapter, content), nil
}

// fallbackDraft builds a chapter without the generation service: the raw
// source text under the chapter heading, or placeholder sections when the
// binding carries no text.
func fallbackDraft(b binder.Binding) doc.ChapterDraft {
	body := b.Text
	if body == "" {
		var sb strings.Builder
		for _, sec := range b.Chapter.Sections {
			fmt.Fprintf(&sb, "## %s\n\n%s\n\n", sec.Title, Placeholder)
		}
		if sb.Len() == 0 {
			sb.WriteString(Placeholder)
		}
		body = strings.TrimRight(sb.String(), "\n")
	}
	content := body
	if importer.ExtractTitle(content) == "" {
		content = fmt.Sprintf("# %s\n\n%s", b.Chapter.Title, body)
	}
	return draftFromContent(b.Chapter, content)
}

// draftFromContent re-reads section headings out of the final markdown so
// navigation reflects the content actually written.
func draftFromContent(ch sidebar.Chapter, content string) doc.ChapterDraft {
	return doc.ChapterDraft{
		Title:    ch.Title,
		Filename: ch.Filename,
		Content:  content,
		Sections: importer.ExtractSections(content),
	}
}

func treeFromDrafts(drafts []doc.ChapterDraft) sidebar.Tree {
	var tree sidebar.Tree
	for _, d := range drafts {
		ch := sidebar.Chapter{Title: d.Title, Filename: d.Filename}
		for _, s := range d.Sections {
			ch.Sections = append(ch.Sections, sidebar.NewSection(s))
		}
		tree.Chapters = append(tree.Chapters, ch)
	}
	return tree
}
