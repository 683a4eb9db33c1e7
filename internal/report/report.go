// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report holds the markdown contract between the synthesizer and
// the clients: the references heading, how a report splits into a body
// and a list of references, and how reference links are displayed.
package report

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/web-scout/pkg/types"
)

// Marker is the heading that starts the references section. The
// synthesizer emits it and Parse splits on it.
const Marker = "## 📚 References"

var referenceLine = regexp.MustCompile(`^\d+\.\s+\[(.*?)\]\((.*?)\)`)

// Parsed is a report split into its body and its references.
type Parsed struct {
	Content    string            `json:"content" yaml:"content"`
	References []types.Reference `json:"references" yaml:"references"`
}

// Parse splits report on the first Marker. The body is the trimmed text
// before it. Each non-blank line after it that looks like
// "N. [title](url)" becomes a Reference; other lines are skipped. Without
// a marker the whole report is the body and there are no references.
func Parse(report string) Parsed {
	idx := strings.Index(report, Marker)
	if idx < 0 {
		return Parsed{Content: report, References: []types.Reference{}}
	}

	refs := []types.Reference{}
	for _, line := range strings.Split(report[idx+len(Marker):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := referenceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		refs = append(refs, types.Reference{Title: m[1], URL: m[2]})
	}

	return Parsed{
		Content:    strings.TrimSpace(report[:idx]),
		References: refs,
	}
}

// Render writes references back as a Marker section, one numbered link per line.
func Render(refs []types.Reference) string {
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString("\n\n")
	for i, r := range refs {
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, r.Title, r.URL)
	}
	return b.String()
}

// Hostname returns the lowercased host of rawURL without a leading "www.". When the
// URL cannot be parsed or has no host, rawURL is returned unchanged.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Print writes a parsed report for terminal display: the body, then a
// numbered reference list with hostnames.
func Print(w io.Writer, p Parsed) {
	fmt.Fprintln(w, p.Content)
	if len(p.References) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "References")
	fmt.Fprintln(w, strings.Repeat("-", 10))
	for i, r := range p.References {
		fmt.Fprintf(w, "%2d. %s (%s)\n    %s\n", i+1, r.Title, Hostname(r.URL), r.URL)
	}
}
