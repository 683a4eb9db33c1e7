// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/web-scout/pkg/types"
)

const sampleReport = `# Advances in Battery Technology

Solid-state cells are nearing production [1], while sodium-ion chemistry
is gaining ground in grid storage [2].

## 📚 References

1. [Solid-state breakthrough](https://www.nature.com/articles/x)
2. [Sodium-ion goes commercial](https://techcrunch.com/sodium)

Notes that are not references.
3. Not a link
`

func TestParse(t *testing.T) {
	p := Parse(sampleReport)

	assert.Equal(t, "# Advances in Battery Technology\n\nSolid-state cells are nearing production [1], while sodium-ion chemistry\nis gaining ground in grid storage [2].", p.Content)
	assert.Equal(t, []types.Reference{
		{Title: "Solid-state breakthrough", URL: "https://www.nature.com/articles/x"},
		{Title: "Sodium-ion goes commercial", URL: "https://techcrunch.com/sodium"},
	}, p.References)
}

func TestParse_NoMarker(t *testing.T) {
	in := "# Title\n\nJust a body.\n"
	p := Parse(in)
	assert.Equal(t, in, p.Content)
	assert.Empty(t, p.References)
}

func TestParse_PlainReferencesHeadingIsNotTheMarker(t *testing.T) {
	in := "Body\n\n## References\n\n1. [A](https://a.example)\n"
	p := Parse(in)
	assert.Equal(t, in, p.Content)
	assert.Empty(t, p.References)
}

func TestParse_SplitsOnFirstMarker(t *testing.T) {
	in := "Body\n" + Marker + "\n1. [A](https://a.example)\n" + Marker + "\n2. [B](https://b.example)\n"
	p := Parse(in)
	assert.Equal(t, "Body", p.Content)
	assert.Equal(t, []types.Reference{
		{Title: "A", URL: "https://a.example"},
		{Title: "B", URL: "https://b.example"},
	}, p.References)
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse(sampleReport)
	second := Parse(first.Content)
	assert.Equal(t, first.Content, second.Content)
	assert.Empty(t, second.References)
}

func TestParse_RoundTrip(t *testing.T) {
	refs := []types.Reference{
		{Title: "One", URL: "https://one.example/a"},
		{Title: "Two", URL: "https://www.two.example/b?c=d"},
		{Title: "Three", URL: "http://three.example"},
	}
	in := "Body text [1][2][3].\n\n" + Render(refs)

	p := Parse(in)
	assert.Equal(t, "Body text [1][2][3].", p.Content)
	assert.Equal(t, refs, p.References)
}

func TestHostname(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.nature.com/articles/x", "nature.com"},
		{"https://techcrunch.com/2024/01/01/a", "techcrunch.com"},
		{"http://www.example.org:8080/p", "example.org"},
		{"https://sub.www.example.com", "sub.www.example.com"},
		{"https://WWW.Example.com/x", "example.com"},
		{"HTTPS://Docs.Example.COM", "docs.example.com"},
		{"not a url", "not a url"},
		{"%zz", "%zz"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Hostname(tt.in))
		})
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, Parse(sampleReport))
	out := buf.String()
	require.Contains(t, out, "Solid-state cells")
	assert.Contains(t, out, " 1. Solid-state breakthrough (nature.com)")
	assert.Contains(t, out, " 2. Sodium-ion goes commercial (techcrunch.com)")

	buf.Reset()
	Print(&buf, Parse("no refs"))
	assert.Equal(t, "no refs\n", buf.String())
}
