package checker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type occurrence struct {
	line int
	raw  string
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func collectLinks(t *testing.T, e Extractor, path string) []occurrence {
	t.Helper()
	var got []occurrence
	err := e.Links(path, func(line int, raw string) bool {
		got = append(got, occurrence{line: line, raw: raw})
		return true
	})
	if err != nil {
		t.Fatalf("Links(%s) error: %v", path, err)
	}
	return got
}

func assertOccurrences(t *testing.T, got, want []occurrence) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("extracted %d links, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("link[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMarkdownExtraction(t *testing.T) {
	path := writeFixture(t, "doc.md", `# Title

See [guide](docs/guide.md) and [api](https://api.example.com/v1).
Plain text line.
![logo](img/logo.png)
`)

	md := MatchCategory(Builtins(), path)
	if md == nil || md.Name != "markdown" {
		t.Fatalf("expected markdown category for %s, got %v", path, md)
	}

	assertOccurrences(t, collectLinks(t, md, path), []occurrence{
		{line: 3, raw: "docs/guide.md"},
		{line: 3, raw: "https://api.example.com/v1"},
		{line: 5, raw: "img/logo.png"},
	})
}

func TestGoCommentExtraction(t *testing.T) {
	path := writeFixture(t, "demo.go", `package demo

// Overview: [docs](https://example.com/docs)
var x = "[not a comment](nope.md)"
	// [indented](other.md)
`)

	goCat := MatchCategory(Builtins(), path)
	if goCat == nil || goCat.Name != "go" {
		t.Fatalf("expected go category for %s, got %v", path, goCat)
	}

	assertOccurrences(t, collectLinks(t, goCat, path), []occurrence{
		{line: 3, raw: "https://example.com/docs"},
		{line: 5, raw: "other.md"},
	})
}

func TestPatternExtractorCaptureGroup(t *testing.T) {
	c, err := NewCategory("custom", []string{"*.txt"}, `(ref):(\S+)`, 2)
	if err != nil {
		t.Fatalf("NewCategory() error: %v", err)
	}
	path := writeFixture(t, "notes.txt", "ref:one.md then ref:two.md\n")

	assertOccurrences(t, collectLinks(t, c, path), []occurrence{
		{line: 1, raw: "one.md"},
		{line: 1, raw: "two.md"},
	})
}

func TestPatternExtractorStopsWhenEmitReturnsFalse(t *testing.T) {
	path := writeFixture(t, "doc.md", "[a](1.md)\n[b](2.md)\n[c](3.md)\n")
	md := Builtins()[1]

	var got []string
	err := md.Links(path, func(line int, raw string) bool {
		got = append(got, raw)
		return len(got) < 2
	})
	if err != nil {
		t.Fatalf("Links() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("collected %d links after early stop, want 2", len(got))
	}
}

func TestPatternExtractorMissingFile(t *testing.T) {
	md := Builtins()[1]
	err := md.Links(filepath.Join(t.TempDir(), "absent.md"), func(int, string) bool { return true })
	if err == nil {
		t.Fatal("Links() returned nil error for a missing file")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("error %q does not mention the failed open", err)
	}
}

func TestHTMLExtraction(t *testing.T) {
	path := writeFixture(t, "index.html", `<html>
<body>
  <a href="https://example.com/one">One</a>
  <img src="img/two.png"
       srcset="img/three.png 1x, img/four.png 2x">
  <a href="mailto:x@example.com">Mail</a>
  <link rel="stylesheet" href="style.css">
  <script src="app.js"></script>
  <a href="">empty</a>
</body>
</html>
`)

	htmlCat := MatchCategory(Builtins(), path)
	if htmlCat == nil || htmlCat.Name != "html" {
		t.Fatalf("expected html category for %s, got %v", path, htmlCat)
	}

	assertOccurrences(t, collectLinks(t, htmlCat, path), []occurrence{
		{line: 3, raw: "https://example.com/one"},
		{line: 4, raw: "img/two.png"},
		{line: 4, raw: "img/three.png"},
		{line: 4, raw: "img/four.png"},
		{line: 7, raw: "style.css"},
		{line: 8, raw: "app.js"},
	})
}

func TestHTMLExtractionSkipsUncheckableSchemes(t *testing.T) {
	path := writeFixture(t, "schemes.html", `<body>
<a href="mailto:a@b.c">mail</a>
<a href="tel:+123">tel</a>
<a href="javascript:void(0)">js</a>
<a href="data:text/plain,hi">data</a>
<a href="/real">real</a>
</body>
`)

	htmlCat := Builtins()[2]
	assertOccurrences(t, collectLinks(t, htmlCat, path), []occurrence{
		{line: 6, raw: "/real"},
	})
}

func TestSrcsetURLs(t *testing.T) {
	got := srcsetURLs("img/a.png 1x, img/b.png 2x,img/c.png")
	want := []string{"img/a.png", "img/b.png", "img/c.png"}
	if len(got) != len(want) {
		t.Fatalf("srcsetURLs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("srcsetURLs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
