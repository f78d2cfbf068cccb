package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		contains    []string
		notContains []string
	}{
		{
			name:        "script removed",
			in:          `<p>hi</p><script>alert(1)</script>`,
			contains:    []string{"<p>hi</p>"},
			notContains: []string{"script", "alert"},
		},
		{
			name:        "event handler removed",
			in:          `<img src="/uploads/a.png" onerror="steal()">`,
			contains:    []string{`src="/uploads/a.png"`},
			notContains: []string{"onerror"},
		},
		{
			name:        "javascript url dropped",
			in:          `<a href="javascript:alert(1)">x</a>`,
			notContains: []string{"javascript:"},
		},
		{
			name:     "formatting kept",
			in:       `<h2>Title</h2><pre class="ql-syntax">code</pre><strong>b</strong>`,
			contains: []string{"<h2>Title</h2>", `class="ql-syntax"`, "<strong>b</strong>"},
		},
		{
			name: "empty",
			in:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(tt.in)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestOutlineHeadings(t *testing.T) {
	html := `<h1>Intro</h1><p>text</p><h2> Details </h2><h3>skip</h3><h1>End</h1>`

	_, headings := Outline(html)
	require.Len(t, headings, 3)
	assert.Equal(t, Heading{ID: "heading_0", Text: "Intro", Level: 1}, headings[0])
	assert.Equal(t, Heading{ID: "heading_1", Text: "Details", Level: 2}, headings[1])
	assert.Equal(t, Heading{ID: "heading_2", Text: "End", Level: 1}, headings[2])

	_, headings = Outline("<p>no headings</p>")
	assert.Empty(t, headings)
	_, headings = Outline("")
	assert.NotNil(t, headings)
	assert.Empty(t, headings)
}

func TestOutlineAddsAnchors(t *testing.T) {
	body, headings := Outline(`<h1>Intro</h1><p>a</p><h2>More</h2>`)

	require.Len(t, headings, 2)
	assert.Contains(t, body, `<h1 id="heading_0">Intro</h1>`)
	assert.Contains(t, body, `<h2 id="heading_1">More</h2>`)
	assert.NotContains(t, body, "<body>")

	plain := `<p>plain</p>`
	body, headings = Outline(plain)
	assert.Equal(t, plain, body)
	assert.Empty(t, headings)
}

func TestExcerpt(t *testing.T) {
	html := `<p>The quick   brown fox</p><p>jumps over the lazy dog</p>`

	assert.Equal(t, "The quick brown fox jumps over the lazy dog", Excerpt(html, 200))
	assert.Equal(t, "The quick brown...", Excerpt(html, 17))
	assert.Equal(t, "", Excerpt(html, 0))
	assert.Equal(t, "", Excerpt("", 10))
	assert.Equal(t, "a & b", Excerpt("<p>a &amp; b</p>", 10))
}
