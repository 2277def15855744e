package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_Passthrough(t *testing.T) {
	tests := []struct {
		name     string
		renderer *Renderer
	}{
		{"nil renderer", nil},
		{"zero renderer", &Renderer{}},
		{"markdown and color disabled", NewRenderer(false, false, "", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := "# Title\n\n```go\nfmt.Println(1)\n```"
			assert.Equal(t, md, tt.renderer.Markdown(md))
			assert.Equal(t, "x := 1", tt.renderer.Code("x := 1", "go"))
		})
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r := NewRenderer(true, false, "", 40)

	out := r.Markdown("# Hello\n\nSome **bold** text.")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "bold")
	assert.NotEqual(t, "# Hello\n\nSome **bold** text.", out)
}

func TestRenderer_Code(t *testing.T) {
	r := NewRenderer(false, true, "monokai", 0)

	out := r.Code("def main():\n    return 1\n", "python")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, stripANSI(out), "def main():")
}

func TestChromaLexer(t *testing.T) {
	tests := map[string]string{
		"":            "plaintext",
		"text":        "plaintext",
		"shellscript": "bash",
		"Python":      "python",
		"ts":          "typescript",
		"go":          "go",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, chromaLexer(in), in)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
