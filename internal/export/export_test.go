package export

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/dwesley/courseforge/internal/site"
	"github.com/dwesley/courseforge/internal/store"
)

func newTestExporter(t *testing.T) (*Exporter, *store.SiteStore) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	st := store.NewSiteStore(t.TempDir(), 3, log)
	return NewExporter(st, log), st
}

func TestReachableSet_UnionAcrossPages(t *testing.T) {
	contents := []string{
		"![a](assets/L1/images/a.png)\n![dup](assets/L1/images/a.png)",
		`<img src="assets/L2/images/b.png">`,
	}
	entry := "background: url(assets/common/logo.svg)"

	refs := ReachableSet(contents, entry)
	want := []string{"assets/L1/images/a.png", "assets/L2/images/b.png", "assets/common/logo.svg"}
	if len(refs) != len(want) {
		t.Fatalf("got %d refs, want %d: %v", len(refs), len(want), refs)
	}
	for _, w := range want {
		if _, ok := refs[w]; !ok {
			t.Errorf("missing %s", w)
		}
	}
}

func TestReachableSet_IgnoresExternalAndNonAsset(t *testing.T) {
	refs := ReachableSet([]string{
		"![x](https://cdn.example.com/x.png)\n![y](notes/y.png)",
	}, "")
	if len(refs) != 0 {
		t.Errorf("expected empty set, got %v", refs)
	}
}

func TestBundle_IncludesOnlyReachableAssets(t *testing.T) {
	e, st := newTestExporter(t)

	if _, err := st.SaveAsset("L1/images", "used.png", []byte("png-bytes")); err != nil {
		t.Fatal(err)
	}
	if _, err := st.SaveAsset("L1/images", "orphan.png", []byte("unused")); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveChapter("Lecture_1", "# L1\n\n![d](assets/L1/images/used.png)\n"); err != nil {
		t.Fatal(err)
	}
	if err := st.WriteSidebar("* [L1](Lecture_1.md)\n"); err != nil {
		t.Fatal(err)
	}
	if err := st.WriteSiteFile(store.ReadmeFile, "# Course\n"); err != nil {
		t.Fatal(err)
	}
	if err := st.WriteSiteFile(store.IndexFile, site.IndexHTML("Course")); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	res, err := e.Bundle(&buf)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if len(res.Missing) != 0 {
		t.Errorf("unexpected missing: %v", res.Missing)
	}
	if res.Chapters != 1 {
		t.Errorf("chapters = %d", res.Chapters)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"Lecture_1.md", "README.md", "_sidebar.md", "index.html", "assets/L1/images/used.png"} {
		if !names[want] {
			t.Errorf("archive missing %s (have %v)", want, names)
		}
	}
	if names["assets/L1/images/orphan.png"] {
		t.Error("orphan asset must not be packed")
	}

	// The exported shell must not load the editor plugin.
	for _, f := range zr.File {
		if f.Name != "index.html" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(rc)
		rc.Close()
		if strings.Contains(string(body), "docsify-editor") {
			t.Error("editor markup survived export")
		}
		if !strings.Contains(string(body), "window.$docsify") {
			t.Error("docsify config lost during strip")
		}
	}
}

func TestBundle_MissingAssetSkippedNotFatal(t *testing.T) {
	e, st := newTestExporter(t)
	if err := st.SaveChapter("Ch", "![gone](assets/x/gone.png)"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	res, err := e.Bundle(&buf)
	if err != nil {
		t.Fatalf("bundle must tolerate missing assets: %v", err)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "assets/x/gone.png" {
		t.Errorf("missing = %v", res.Missing)
	}
	if len(res.Reachable) != 0 {
		t.Errorf("reachable = %v", res.Reachable)
	}
}

func TestStripEditorMarkup(t *testing.T) {
	in := `<html><head><link rel="stylesheet" href="docsify-editor.css"><link rel="stylesheet" href="theme.css"></head><body><script src="docsify-editor.js"></script><script src="app.js"></script></body></html>`
	out, err := StripEditorMarkup(in)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if strings.Contains(out, "docsify-editor") {
		t.Errorf("editor tags survived: %s", out)
	}
	for _, keep := range []string{"theme.css", "app.js"} {
		if !strings.Contains(out, keep) {
			t.Errorf("unrelated tag %s removed", keep)
		}
	}
}
