// Package store owns the on-disk site directory: chapter content files, the
// sidebar file, and the assets tree. Chapter and sidebar writes are
// read-modify-write sequences, so every mutating operation takes the store
// mutex; the store is the directory-scoped lock that serializes writers.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dwesley/courseforge/internal/sidebar"
)

const (
	SidebarFile = "_sidebar.md"
	NavbarFile  = "_navbar.md"
	ReadmeFile  = "README.md"
	IndexFile   = "index.html"
)

// reservedFiles are site files that are not chapter content.
var reservedFiles = map[string]bool{
	SidebarFile: true,
	NavbarFile:  true,
	ReadmeFile:  true,
}

// SiteStore reads and writes one generated site directory.
type SiteStore struct {
	root string
	keep int // backups retained per chapter
	log  *slog.Logger

	// now is replaceable in tests so backup names don't collide.
	now func() time.Time

	mu sync.Mutex
}

func NewSiteStore(root string, keep int, log *slog.Logger) *SiteStore {
	if keep <= 0 {
		keep = 3
	}
	return &SiteStore{
		root: root,
		keep: keep,
		log:  log,
		now:  time.Now,
	}
}

// Root returns the site directory path.
func (s *SiteStore) Root() string { return s.root }

// AssetsDir returns the directory every canonical asset path resolves under.
func (s *SiteStore) AssetsDir() string { return filepath.Join(s.root, "assets") }

func (s *SiteStore) chapterPath(name string) string {
	return filepath.Join(s.root, name+".md")
}

// ListChapters returns the stems of all chapter content files in the site
// directory, excluding the sidebar, navbar and entry page.
func (s *SiteStore) ListChapters() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read site dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") || reservedFiles[e.Name()] {
			continue
		}
		if strings.Contains(e.Name(), ".md.bak.") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	return names, nil
}

// ReadChapter returns a chapter's full markdown text.
func (s *SiteStore) ReadChapter(name string) (string, error) {
	b, err := os.ReadFile(s.chapterPath(name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveChapter overwrites a chapter's content. If the file already exists its
// previous bytes are snapshotted first and old snapshots pruned.
func (s *SiteStore) SaveChapter(name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.chapterPath(name), content)
}

// ReadSidebar returns the sidebar text, or empty when none exists yet.
func (s *SiteStore) ReadSidebar() (string, error) {
	b, err := os.ReadFile(filepath.Join(s.root, SidebarFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteSidebar replaces the whole sidebar file.
func (s *SiteStore) WriteSidebar(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFileLocked(filepath.Join(s.root, SidebarFile), text)
}

// SaveChapterAndSidebar saves chapter content and rewrites just that
// chapter's sidebar block in one locked sequence. The sidebar replace is
// validated first: when the chapter has no block in the sidebar, nothing is
// written and sidebar.ErrChapterNotFound is returned.
func (s *SiteStore) SaveChapterAndSidebar(name, content string, ch sidebar.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sidebarPath := filepath.Join(s.root, SidebarFile)
	existing, err := os.ReadFile(sidebarPath)
	if err != nil {
		return fmt.Errorf("read sidebar: %w", err)
	}
	updated, err := sidebar.ReplaceChapterBlock(string(existing), name, ch)
	if err != nil {
		return err
	}

	if err := s.saveLocked(s.chapterPath(name), content); err != nil {
		return err
	}
	if err := s.writeFileLocked(sidebarPath, updated); err != nil {
		return fmt.Errorf("write sidebar: %w", err)
	}
	return nil
}

// WriteSiteFile writes a non-chapter file (index.html, README.md, _navbar.md)
// relative to the site root.
func (s *SiteStore) WriteSiteFile(name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFileLocked(filepath.Join(s.root, name), content)
}

// ReadSiteFile reads a non-chapter file relative to the site root.
func (s *SiteStore) ReadSiteFile(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadAsset returns asset bytes by canonical path ("assets/...").
func (s *SiteStore) ReadAsset(canonical string) ([]byte, error) {
	rel := strings.TrimPrefix(canonical, "assets/")
	return os.ReadFile(filepath.Join(s.AssetsDir(), filepath.FromSlash(rel)))
}

// ListAssets walks the assets tree and returns every file as a canonical
// "assets/..." path.
func (s *SiteStore) ListAssets() ([]string, error) {
	var out []string
	root := s.AssetsDir()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, "assets/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk assets: %w", err)
	}
	return out, nil
}

// SaveAsset writes asset bytes under the assets tree and returns the
// canonical path. relDir and filename are slash-separated.
func (s *SiteStore) SaveAsset(relDir, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.AssetsDir(), filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	canonical := "assets/" + strings.Trim(relDir, "/") + "/" + filename
	return canonical, nil
}

func (s *SiteStore) writeFileLocked(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// saveLocked snapshots an existing file, prunes stale snapshots, then writes
// the new content. Callers hold s.mu.
func (s *SiteStore) saveLocked(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		if err := s.rotateBackups(path); err != nil {
			return err
		}
	}
	return s.writeFileLocked(path, content)
}
