// Package site writes the static docsify shell around generated content:
// index.html, the entry README, the navbar and the sidebar.
package site

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwesley/courseforge/internal/assetpath"
	"github.com/dwesley/courseforge/internal/sidebar"
	"github.com/dwesley/courseforge/internal/store"
)

// NavItem is one navbar entry.
type NavItem struct {
	Name string
	Link string
}

// Scaffolder renders the non-chapter site files into a SiteStore.
type Scaffolder struct {
	store *store.SiteStore
	log   *slog.Logger
}

func NewScaffolder(st *store.SiteStore, log *slog.Logger) *Scaffolder {
	return &Scaffolder{store: st, log: log}
}

// Scaffold writes index.html, README.md, _navbar.md and _sidebar.md.
// Chapter files are written separately; Scaffold never touches them.
func (s *Scaffolder) Scaffold(courseName string, tree sidebar.Tree, navbar []NavItem) error {
	if err := s.store.WriteSiteFile(store.IndexFile, IndexHTML(courseName)); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := s.store.WriteSiteFile(store.ReadmeFile, readme(courseName)); err != nil {
		return fmt.Errorf("write readme: %w", err)
	}
	if err := s.store.WriteSiteFile(store.NavbarFile, renderNavbar(navbar)); err != nil {
		return fmt.Errorf("write navbar: %w", err)
	}
	if err := s.store.WriteSidebar(sidebar.Render(tree)); err != nil {
		return fmt.Errorf("write sidebar: %w", err)
	}
	s.log.Info("site scaffold written", "course", courseName, "chapters", len(tree.Chapters))
	return nil
}

// WriteChapter normalizes asset references in the chapter body and saves it.
func (s *Scaffolder) WriteChapter(name, content string) error {
	return s.store.SaveChapter(name, assetpath.Rewrite(content))
}

func renderNavbar(items []NavItem) string {
	if len(items) == 0 {
		items = []NavItem{{Name: "Home", Link: "/"}}
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("* [%s](%s)", it.Name, it.Link))
	}
	return strings.Join(lines, "\n") + "\n"
}

func readme(courseName string) string {
	return fmt.Sprintf(`# %s

Welcome to the %s documentation!

## Navigation

Use the sidebar on the left to navigate through different sections.

## About

This documentation is automatically generated from course materials.
`, courseName, courseName)
}

// IndexHTML returns the docsify shell page for a course. The editor plugin
// tags at the bottom are stripped again at export time.
func IndexHTML(courseName string) string {
	return strings.ReplaceAll(indexTemplate, "__COURSE_NAME__", courseName)
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>__COURSE_NAME__</title>
  <meta http-equiv="X-UA-Compatible" content="IE=edge,chrome=1" />
  <meta name="description" content="Description">
  <meta name="viewport" content="width=device-width, initial-scale=1.0, minimum-scale=1.0">
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/docsify@4/lib/themes/vue.css">
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/katex@latest/dist/katex.min.css"/>
  <style>
    .markdown-section img {
      max-width: 70%;
      max-height: 500px;
      display: block;
      margin: 20px auto;
      cursor: zoom-in;
    }
    .markdown-section img.medium-zoom-image--opened {
      cursor: zoom-out;
    }
  </style>
</head>
<body>
  <div id="app"></div>
  <script>
    window.$docsify = {
      name: '__COURSE_NAME__',
      repo: '',
      loadSidebar: true,
      loadNavbar: true,
      subMaxLevel: 0,
      auto2top: true,
      search: {
        maxAge: 86400000,
        paths: 'auto',
        placeholder: 'Search',
        noData: 'No Results!',
        depth: 6
      },
      copyCode: {
        buttonText: 'Copy',
        errorText: 'Error',
        successText: 'Copied!'
      },
      pagination: {
        previousText: 'Previous',
        nextText: 'Next',
        crossChapter: true,
        crossChapterText: true
      }
    }
  </script>

  <script src="//cdn.jsdelivr.net/npm/docsify@4"></script>

  <script src="//cdn.jsdelivr.net/npm/docsify/lib/plugins/search.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/docsify-copy-code@2"></script>
  <script src="//cdn.jsdelivr.net/npm/docsify/lib/plugins/zoom-image.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/docsify-pagination@2/dist/docsify-pagination.min.js"></script>

  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-bash.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-python.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-java.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-javascript.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-typescript.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-json.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-markdown.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-c.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/prismjs@1/components/prism-cpp.min.js"></script>

  <script src="//cdn.jsdelivr.net/npm/katex@latest/dist/katex.min.js"></script>
  <script src="//cdn.jsdelivr.net/npm/marked@4"></script>

  <script>
    window.$docsify.markdown = window.$docsify.markdown || {};
    window.$docsify.markdown.renderer = {
      code: function(code, lang) {
        if (lang === "latex" || lang === "tex") {
          return '<span class="tex">' + katex.renderToString(code, {
            throwOnError: false,
            displayMode: true
          }) + '</span>';
        }
        return this.origin.code.apply(this, arguments);
      }
    };

    window.$docsify.plugins = [].concat(window.$docsify.plugins || [], function(hook) {
      hook.doneEach(function() {
        document.querySelectorAll('p').forEach(function(el) {
          var html = el.innerHTML;
          html = html.replace(/\$\$([^\$]+)\$\$/g, function(match, tex) {
            try {
              return katex.renderToString(tex, { throwOnError: false, displayMode: true });
            } catch (e) {
              return match;
            }
          });
          html = html.replace(/\$([^\$]+)\$/g, function(match, tex) {
            try {
              return katex.renderToString(tex, { throwOnError: false, displayMode: false });
            } catch (e) {
              return match;
            }
          });
          el.innerHTML = html;
        });
      });
    });
  </script>

  <link rel="stylesheet" href="docsify-editor.css">
  <script src="docsify-editor.js"></script>
</body>
</html>
`
