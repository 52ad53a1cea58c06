package importer

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// extractPDF produces rough markdown from a PDF: a synthesized title heading
// followed by per-page text. It tries the Go library first, then pdftotext
// when enabled.
func (im *Importer) extractPDF(path string) (string, error) {
	text, err := extractPDFText(path)
	if err != nil && im.FallbackPdftotext {
		im.log.Warn("pdf library extraction failed, trying pdftotext", "path", path, "error", err)
		text, err = extractPdftotext(path)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", titleFromStem(stem))
	for _, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(page)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// titleFromStem turns a file stem like "Chapter1_Intro-to_SE" into a
// readable heading.
func titleFromStem(stem string) string {
	t := strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.Join(strings.Fields(t), " ")
}
