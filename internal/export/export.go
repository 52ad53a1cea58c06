// Package export produces the final read-only site bundle: editor markup
// stripped from the shell page, and only the assets actually referenced by
// site content included.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/klauspost/compress/flate"

	"github.com/dwesley/courseforge/internal/assetpath"
	"github.com/dwesley/courseforge/internal/store"
)

// Result reports what an export run included and what it could not find.
type Result struct {
	Reachable []string `json:"reachable"`
	Missing   []string `json:"missing"`
	Chapters  int      `json:"chapters"`
}

// ReachableSet returns the union of canonical asset references across all
// content pages plus the entry page. Unreferenced assets are invisible to
// the exported site and get left behind.
func ReachableSet(contents []string, entry string) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, c := range contents {
		for p := range assetpath.Scan(c) {
			refs[p] = struct{}{}
		}
	}
	for p := range assetpath.Scan(entry) {
		refs[p] = struct{}{}
	}
	return refs
}

// Exporter bundles a site directory into a distributable archive.
type Exporter struct {
	store *store.SiteStore
	log   *slog.Logger
}

func NewExporter(st *store.SiteStore, log *slog.Logger) *Exporter {
	return &Exporter{store: st, log: log}
}

// Bundle writes a zip of the publishable site to w. The shell page is
// rewritten without editor plugin tags, chapter and sidebar files are copied
// as-is, and only reachable assets are packed. An asset referenced but absent
// on disk is recorded in Result.Missing and skipped, never fatal.
func (e *Exporter) Bundle(w io.Writer) (Result, error) {
	var res Result

	chapters, err := e.store.ListChapters()
	if err != nil {
		return res, fmt.Errorf("list chapters: %w", err)
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	contents := make([]string, 0, len(chapters))
	for _, name := range chapters {
		body, err := e.store.ReadChapter(name)
		if err != nil {
			return res, fmt.Errorf("read chapter %s: %w", name, err)
		}
		contents = append(contents, body)
		if err := addEntry(zw, name+".md", []byte(body)); err != nil {
			return res, err
		}
	}
	res.Chapters = len(chapters)

	entry, err := e.store.ReadSiteFile(store.ReadmeFile)
	if err == nil {
		if err := addEntry(zw, store.ReadmeFile, []byte(entry)); err != nil {
			return res, err
		}
	} else {
		e.log.Warn("entry page missing, exporting without it", "error", err)
	}

	for _, name := range []string{store.SidebarFile, store.NavbarFile} {
		body, err := e.store.ReadSiteFile(name)
		if err != nil {
			e.log.Warn("site file missing, skipped", "file", name, "error", err)
			continue
		}
		if err := addEntry(zw, name, []byte(body)); err != nil {
			return res, err
		}
	}

	if index, err := e.store.ReadSiteFile(store.IndexFile); err == nil {
		stripped, err := StripEditorMarkup(index)
		if err != nil {
			e.log.Warn("editor markup strip failed, exporting shell as-is", "error", err)
			stripped = index
		}
		if err := addEntry(zw, store.IndexFile, []byte(stripped)); err != nil {
			return res, err
		}
	} else {
		e.log.Warn("shell page missing, exporting without it", "error", err)
	}

	for _, canonical := range sortedRefs(ReachableSet(contents, entry)) {
		data, err := e.store.ReadAsset(canonical)
		if err != nil {
			e.log.Warn("referenced asset missing, skipped", "asset", canonical, "error", err)
			res.Missing = append(res.Missing, canonical)
			continue
		}
		if err := addEntry(zw, canonical, data); err != nil {
			return res, err
		}
		res.Reachable = append(res.Reachable, canonical)
	}

	if err := zw.Close(); err != nil {
		return res, fmt.Errorf("finalize archive: %w", err)
	}
	return res, nil
}

func addEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	return nil
}

func sortedRefs(refs map[string]struct{}) []string {
	out := make([]string, 0, len(refs))
	for p := range refs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
