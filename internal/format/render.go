// Package format renders assistant replies and code for the terminal.
package format

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

const (
	DefaultStyle = "monokai"
	DefaultWidth = 80
)

// Renderer turns markdown and source code into terminal output. A zero
// Renderer passes text through unchanged.
type Renderer struct {
	markdown *glamour.TermRenderer
	style    string
	color    bool
}

// NewRenderer builds a renderer; markdown enables glamour, color enables
// chroma highlighting. Glamour setup failures fall back to plain text.
func NewRenderer(markdown, color bool, style string, width int) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r := &Renderer{style: style, color: color}
	if markdown {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			r.markdown = tr
		}
	}
	return r
}

// Markdown renders content, returning it unchanged on failure
func (r *Renderer) Markdown(content string) string {
	if r == nil || r.markdown == nil {
		return content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Code highlights source in the given language; unknown languages are
// guessed by chroma
func (r *Renderer) Code(code, language string) string {
	if r == nil || !r.color {
		return code
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, code, chromaLexer(language), "terminal256", r.style); err != nil {
		return code
	}
	return buf.String()
}

// chromaLexer maps editor language ids onto chroma lexer names
func chromaLexer(language string) string {
	switch strings.ToLower(language) {
	case "", "text", "plaintext":
		return "plaintext"
	case "shellscript", "sh", "shell":
		return "bash"
	case "javascriptreact":
		return "jsx"
	case "typescriptreact":
		return "tsx"
	case "py":
		return "python"
	case "js":
		return "javascript"
	case "ts":
		return "typescript"
	}
	return strings.ToLower(language)
}
