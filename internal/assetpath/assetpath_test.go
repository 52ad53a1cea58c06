package assetpath

import (
	"strings"
	"testing"
)

func TestCanonicalize_PrefixVariants(t *testing.T) {
	want := "assets/a/b.png"
	inputs := []string{
		"assets/a/b.png",
		"./assets/a/b.png",
		"../assets/a/b.png",
		"../../assets/a/b.png",
		"/assets/a/b.png",
		".././assets/a/b.png",
	}
	for _, in := range inputs {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []string{
		"assets/a/b.png",
		"../../assets/x/y/z.jpg",
		"/assets/doc/images/img.png",
		"https://example.com/logo.png",
		"other/thing.png",
		"",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Errorf("Canonicalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCanonicalize_NonAssetPassThrough(t *testing.T) {
	inputs := []string{
		"https://cdn.example.com/assets.png",
		"images/pic.png",
		"../other/assets.css",
		"../notes/assets2/pic.png",
	}
	for _, in := range inputs {
		if got := Canonicalize(in); got != in {
			t.Errorf("Canonicalize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestScan_ReferenceShapes(t *testing.T) {
	text := `# Chapter

![diagram](../assets/ch1/images/flow.png)
Some prose with <img class="wide" src="./assets/ch1/images/arch.png"> inline.
<img src='/assets/ch1/images/detail.png' alt='x'>
<div style="background: url(../../assets/bg/tile.png)"></div>
![external](https://example.com/pic.png)
[page link](chapter2.md)
`
	got := Scan(text)
	want := []string{
		"assets/ch1/images/flow.png",
		"assets/ch1/images/arch.png",
		"assets/ch1/images/detail.png",
		"assets/bg/tile.png",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d refs, got %d: %v", len(want), len(got), got)
	}
	for _, w := range want {
		if _, ok := got[w]; !ok {
			t.Errorf("missing expected ref %q", w)
		}
	}
}

func TestScan_Deduplicates(t *testing.T) {
	text := "![a](assets/x/p.png)\n![b](../assets/x/p.png)\n<img src=\"/assets/x/p.png\">"
	got := Scan(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 unique ref, got %d: %v", len(got), got)
	}
}

func TestScan_TolerantOfMalformedMarkup(t *testing.T) {
	text := "![broken](assets/ok.png <img src=\"assets/a/b.png\" ![no closing"
	got := Scan(text)
	if _, ok := got["assets/a/b.png"]; !ok {
		t.Errorf("expected src match to survive malformed surroundings, got %v", got)
	}
}

func TestRewrite_NormalizesAllSpellings(t *testing.T) {
	in := `![a](../assets/d/i.png) and <img src="./assets/d/i.png"> and <img src='/assets/d/j.png'>`
	out := Rewrite(in)
	if strings.Contains(out, "../assets") || strings.Contains(out, "./assets") || strings.Contains(out, "'/assets") {
		t.Errorf("relative prefixes survived rewrite: %q", out)
	}
	if !strings.Contains(out, `![a](assets/d/i.png)`) {
		t.Errorf("markdown image not canonicalized: %q", out)
	}
	if !strings.Contains(out, `src="assets/d/i.png"`) {
		t.Errorf("double-quoted src not canonicalized: %q", out)
	}
	if !strings.Contains(out, `src='assets/d/j.png'`) {
		t.Errorf("single-quoted src not canonicalized: %q", out)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	in := "![a](../assets/d/i.png)\n<img src=\"assets/k.png\">\nplain text"
	once := Rewrite(in)
	twice := Rewrite(once)
	if once != twice {
		t.Errorf("Rewrite not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestRewrite_AltTextMatchingPath(t *testing.T) {
	in := "![../assets/x.png](../assets/x.png)"
	want := "![../assets/x.png](assets/x.png)"
	once := Rewrite(in)
	if once != want {
		t.Errorf("Rewrite(%q) = %q, want %q", in, once, want)
	}
	if twice := Rewrite(once); twice != once {
		t.Errorf("Rewrite not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestRewrite_LeavesExternalURLs(t *testing.T) {
	in := `<img src="https://example.com/a.png"> ![x](http://h/p.png)`
	if out := Rewrite(in); out != in {
		t.Errorf("external URLs changed: %q", out)
	}
}
