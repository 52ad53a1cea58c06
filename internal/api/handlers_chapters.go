package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dwesley/courseforge/internal/assetpath"
	"github.com/dwesley/courseforge/internal/importer"
	"github.com/dwesley/courseforge/internal/sidebar"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.store.ListChapters()
	if err != nil {
		jsonError(w, "failed to list chapters: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if chapters == nil {
		chapters = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"chapters": chapters})
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	name := sanitizeChapterName(chi.URLParam(r, "name"))
	if name == "" {
		jsonError(w, "invalid chapter name", http.StatusBadRequest)
		return
	}
	content, err := s.store.ReadChapter(name)
	if err != nil {
		if os.IsNotExist(err) {
			jsonError(w, "chapter not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to read chapter: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"name": name, "content": content})
}

type saveChapterRequest struct {
	Content string `json:"content"`
}

// handleSaveChapter stores edited chapter content and refreshes just that
// chapter's sidebar block. A chapter absent from the sidebar is rejected
// whole: neither file is touched.
func (s *Server) handleSaveChapter(w http.ResponseWriter, r *http.Request) {
	name := sanitizeChapterName(chi.URLParam(r, "name"))
	if name == "" {
		jsonError(w, "invalid chapter name", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	var req saveChapterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	content := assetpath.Rewrite(req.Content)

	title := importer.ExtractTitle(content)
	if title == "" {
		title = name
	}
	ch := sidebar.Chapter{Title: title, Filename: name}
	for _, sec := range importer.ExtractSections(content) {
		ch.Sections = append(ch.Sections, sidebar.NewSection(sec))
	}

	if err := s.store.SaveChapterAndSidebar(name, content, ch); err != nil {
		if errors.Is(err, sidebar.ErrChapterNotFound) {
			jsonError(w, "chapter not present in sidebar", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to save chapter: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":     name,
		"title":    title,
		"sections": len(ch.Sections),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// sanitizeChapterName keeps chapter names to bare file stems.
func sanitizeChapterName(name string) string {
	name = strings.TrimSuffix(name, ".md")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || strings.HasPrefix(name, "_") {
		return ""
	}
	return name
}
