// Package importer brings externally converted course documents into the
// working tree. The primary input is a conversion-tool output directory with
// one folder per source document (a markdown file plus an images/ tree);
// bare .md, .pdf and .docx files are accepted as fallbacks.
package importer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dwesley/courseforge/internal/doc"
)

// Importer copies source markdown into rawDir and image files into the site
// assets tree, producing one SourceBlock per imported document.
type Importer struct {
	rawDir    string
	assetsDir string
	log       *slog.Logger

	// FallbackPdftotext enables shelling out to pdftotext when the Go PDF
	// reader cannot extract text.
	FallbackPdftotext bool
}

func New(rawDir, assetsDir string, log *slog.Logger) *Importer {
	return &Importer{rawDir: rawDir, assetsDir: assetsDir, log: log}
}

// ImportConverted walks a conversion-tool output directory. Every
// subdirectory is one document: its markdown is rewritten so image
// references point into the canonical assets tree, then stored under rawDir;
// its images/ tree is copied to assets/<doc>/images/.
func (im *Importer) ImportConverted(srcDir string) ([]doc.SourceBlock, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	var blocks []doc.SourceBlock
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		docName := sanitizeName(e.Name())
		docDir := filepath.Join(srcDir, e.Name())

		mdFiles, err := filepath.Glob(filepath.Join(docDir, "*.md"))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", docDir, err)
		}
		if len(mdFiles) == 0 {
			im.log.Warn("no markdown in converted document folder", "folder", e.Name())
			continue
		}

		for _, mdFile := range mdFiles {
			destName := docName + ".md"
			if stem := strings.TrimSuffix(filepath.Base(mdFile), ".md"); stem != "full" && len(mdFiles) > 1 {
				destName = docName + "_" + sanitizeName(stem) + ".md"
			}

			raw, err := os.ReadFile(mdFile)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", mdFile, err)
			}
			text := rewriteLocalImages(string(raw), docName)

			if err := os.MkdirAll(im.rawDir, 0o755); err != nil {
				return nil, fmt.Errorf("create raw dir: %w", err)
			}
			if err := os.WriteFile(filepath.Join(im.rawDir, destName), []byte(text), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", destName, err)
			}

			blocks = append(blocks, doc.SourceBlock{
				SourceFilename: destName,
				ExtractedTitle: ExtractTitle(text),
				RawText:        text,
			})
			im.log.Info("imported document", "source", filepath.Base(mdFile), "as", destName)
		}

		imagesDir := filepath.Join(docDir, "images")
		if info, err := os.Stat(imagesDir); err == nil && info.IsDir() {
			dest := filepath.Join(im.assetsDir, docName, "images")
			n, err := copyTree(imagesDir, dest)
			if err != nil {
				return nil, fmt.Errorf("copy images for %s: %w", docName, err)
			}
			im.log.Info("imported images", "document", docName, "count", n)
		}
	}
	return blocks, nil
}

// ImportFiles imports bare files without conversion-tool structure.
// Markdown is taken as-is; PDF and DOCX get a best-effort plain extraction.
func (im *Importer) ImportFiles(paths []string) ([]doc.SourceBlock, error) {
	var blocks []doc.SourceBlock
	for _, p := range paths {
		var (
			text string
			err  error
		)
		switch strings.ToLower(filepath.Ext(p)) {
		case ".md", ".markdown":
			var raw []byte
			raw, err = os.ReadFile(p)
			text = string(raw)
		case ".pdf":
			text, err = im.extractPDF(p)
		case ".docx":
			text, err = extractDOCX(p)
		default:
			im.log.Warn("skipping unsupported file", "path", p)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", p, err)
		}

		stem := sanitizeName(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		destName := stem + ".md"
		if err := os.MkdirAll(im.rawDir, 0o755); err != nil {
			return nil, fmt.Errorf("create raw dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(im.rawDir, destName), []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", destName, err)
		}
		blocks = append(blocks, doc.SourceBlock{
			SourceFilename: destName,
			ExtractedTitle: ExtractTitle(text),
			RawText:        text,
		})
	}
	return blocks, nil
}

// localImageRe matches markdown and HTML references to the conversion tool's
// document-local images/ folder.
var localImageRes = []*regexp.Regexp{
	regexp.MustCompile(`(!\[[^\]]*\]\()images/`),
	regexp.MustCompile(`(src=")images/`),
	regexp.MustCompile(`(src=')images/`),
}

// rewriteLocalImages repoints document-local images/... references at the
// canonical assets tree for this document.
func rewriteLocalImages(content, docName string) string {
	target := "${1}assets/" + docName + "/images/"
	for _, re := range localImageRes {
		content = re.ReplaceAllString(content, target)
	}
	return content
}

var (
	nameStripRe    = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)
	nameCollapseRe = regexp.MustCompile(`_+`)
)

// sanitizeName makes an arbitrary document name safe as a file stem.
func sanitizeName(name string) string {
	n := strings.ReplaceAll(name, " ", "_")
	n = nameStripRe.ReplaceAllString(n, "_")
	n = nameCollapseRe.ReplaceAllString(n, "_")
	return strings.Trim(n, "_")
}

func copyTree(src, dest string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
