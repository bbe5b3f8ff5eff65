package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "title tag",
			content:  "<html><head><title>My Document</title></head><body></body></html>",
			expected: "My Document",
		},
		{
			name:     "title with extra spaces",
			content:  "<title>   Spaced Title   </title>",
			expected: "Spaced Title",
		},
		{
			name:     "title with HTML entities",
			content:  "<title>Tom &amp; Jerry</title>",
			expected: "Tom & Jerry",
		},
		{
			name:     "title spanning lines",
			content:  "<title>\n  Wrapped Title\n</title>",
			expected: "Wrapped Title",
		},
		{
			name:     "title with attributes",
			content:  `<title data-page="home">Home</title>`,
			expected: "Home",
		},
		{
			name:     "no title",
			content:  "<html><body>Just content</body></html>",
			expected: "",
		},
		{
			name:     "empty document",
			content:  "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Title(tc.content))
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple paragraph",
			input:    "<p>Hello World</p>",
			expected: "Hello World",
		},
		{
			name:     "nested tags",
			input:    "<div><p><strong>Bold</strong> text</p></div>",
			expected: "Bold text",
		},
		{
			name:     "script removed",
			input:    "<p>Before</p><script>alert('evil');</script><p>After</p>",
			expected: "Before\nAfter",
		},
		{
			name:     "style removed",
			input:    "<style>.foo { color: red; }</style><p>Content</p>",
			expected: "Content",
		},
		{
			name:     "noscript removed",
			input:    "<p>Content</p><noscript>No JS fallback</noscript>",
			expected: "Content",
		},
		{
			name:     "head removed",
			input:    "<head><meta charset='utf-8'><title>Title</title></head><body>Content</body>",
			expected: "Content",
		},
		{
			name:     "nav removed",
			input:    `<nav><a href="/home">Home</a><a href="/about">About</a></nav><p>Body</p>`,
			expected: "Body",
		},
		{
			name:     "footer removed",
			input:    "<p>Main</p><footer>Imprint and legal</footer>",
			expected: "Main",
		},
		{
			name:     "svg removed",
			input:    `<p>Before</p><svg width="100"><circle cx="50"/></svg><p>After</p>`,
			expected: "Before\nAfter",
		},
		{
			name:     "comments removed",
			input:    "<p>Before</p><!-- comment --><p>After</p>",
			expected: "Before\nAfter",
		},
		{
			name:     "br to newline",
			input:    "Line 1<br>Line 2<br/>Line 3",
			expected: "Line 1\nLine 2\nLine 3",
		},
		{
			name:     "block elements create newlines",
			input:    "<div>Block 1</div><div>Block 2</div>",
			expected: "Block 1\nBlock 2",
		},
		{
			name:     "list items",
			input:    "<ul><li>Item 1</li><li>Item 2</li></ul>",
			expected: "Item 1\nItem 2",
		},
		{
			name:     "headings",
			input:    "<h1>Title</h1><h2>Subtitle</h2><p>Content</p>",
			expected: "Title\nSubtitle\nContent",
		},
		{
			name:     "links keep their text",
			input:    `<a href="https://example.com">Click here</a>`,
			expected: "Click here",
		},
		{
			name:     "images removed",
			input:    `<p>See <img src="image.png" alt="Image"> here</p>`,
			expected: "See here",
		},
		{
			name:     "HTML entities decoded",
			input:    "<p>&lt;tag&gt; &amp; &quot;quotes&quot;</p>",
			expected: "<tag> & \"quotes\"",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripTags(tc.input))
		})
	}
}

func TestStripTags_FullPage(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Complex Page</title>
    <style>
        body { font-family: Arial; }
    </style>
</head>
<body>
    <header>
        <h1>Main Title</h1>
        <nav>
            <a href="/home">Home</a>
            <a href="/about">About</a>
        </nav>
    </header>

    <main>
        <article>
            <h2>Article Title</h2>
            <p>This is a <strong>paragraph</strong> with <em>emphasis</em>.</p>

            <ul>
                <li>First item</li>
                <li>Second item</li>
            </ul>
        </article>
    </main>

    <script>
        console.log('This should be removed');
    </script>

    <!-- This is a comment that should be removed -->

    <footer>
        <p>&copy; 2024 Example Corp</p>
    </footer>
</body>
</html>`

	result := StripTags(page)

	assert.NotContains(t, result, "<strong>")
	assert.NotContains(t, result, "console.log")
	assert.NotContains(t, result, "font-family")
	assert.NotContains(t, result, "<!--")
	assert.NotContains(t, result, "Home", "navigation chrome should be dropped")
	assert.NotContains(t, result, "Example Corp", "footer chrome should be dropped")
	assert.Contains(t, result, "Main Title")
	assert.Contains(t, result, "paragraph")
	assert.Contains(t, result, "First item")
	assert.Contains(t, result, "Second item")
}
