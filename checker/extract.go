package checker

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// maxLineBytes caps the scanner token size so a pathological line is
// reported as a scan failure instead of aborting the process.
const maxLineBytes = 1024 * 1024

// patternExtractor scans a file line by line and yields the configured
// capture group of every pattern match.
type patternExtractor struct {
	re    *regexp.Regexp
	group int
}

func (e *patternExtractor) Links(path string, emit func(line int, raw string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, m := range e.re.FindAllStringSubmatchIndex(text, -1) {
			lo, hi := m[2*e.group], m[2*e.group+1]
			if lo < 0 {
				continue
			}
			if !emit(line, text[lo:hi]) {
				return nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}

// linkAttrs lists the reference-carrying attributes probed per element.
var linkAttrs = map[string][]string{
	"a":      {"href"},
	"link":   {"href"},
	"img":    {"src", "srcset"},
	"script": {"src"},
	"source": {"src", "srcset"},
}

// skipSchemes are schemes that can be neither resolved as files nor
// probed over HTTP, so extracting them would only produce noise.
var skipSchemes = []string{"mailto:", "tel:", "javascript:", "data:"}

// htmlExtractor tokenizes an HTML document and yields href/src/srcset
// targets with the line number of the owning tag.
type htmlExtractor struct{}

func (e *htmlExtractor) Links(path string, emit func(line int, raw string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	tokenizer := html.NewTokenizer(f)
	line := 1
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			if err := tokenizer.Err(); err != io.EOF {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			return nil
		}

		// A token may span lines; links are reported at the line the
		// token starts on.
		tokenLine := line
		line += bytes.Count(tokenizer.Raw(), []byte("\n"))

		if tokenType != html.StartTagToken && tokenType != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		attrs, ok := linkAttrs[token.Data]
		if !ok {
			continue
		}
		for _, attr := range token.Attr {
			if !slices.Contains(attrs, attr.Key) {
				continue
			}
			if attr.Key == "srcset" {
				for _, candidate := range srcsetURLs(attr.Val) {
					if !emit(tokenLine, candidate) {
						return nil
					}
				}
				continue
			}
			if !verifiable(attr.Val) {
				continue
			}
			if !emit(tokenLine, attr.Val) {
				return nil
			}
		}
	}
}

// srcsetURLs extracts the URL of each srcset candidate, dropping the
// width/density descriptor.
func srcsetURLs(val string) []string {
	var urls []string
	for _, candidate := range strings.Split(val, ",") {
		fields := strings.Fields(candidate)
		if len(fields) == 0 {
			continue
		}
		if verifiable(fields[0]) {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

func verifiable(raw string) bool {
	if raw == "" {
		return false
	}
	lower := strings.ToLower(raw)
	for _, scheme := range skipSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
