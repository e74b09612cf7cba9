package reservations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders JSON with terminal colours in a named chroma style.
type Highlighter struct {
	style     *chroma.Style
	lexer     chroma.Lexer
	formatter chroma.Formatter
}

// NewHighlighter creates a Highlighter for the chroma style name. Unknown
// names use chroma's fallback style.
func NewHighlighter(styleName string) *Highlighter {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Highlighter{
		style:     styles.Get(styleName),
		lexer:     chroma.Coalesce(lexer),
		formatter: formatter,
	}
}

// StyleName returns the resolved chroma style name.
func (h *Highlighter) StyleName() string {
	if h == nil || h.style == nil {
		return ""
	}
	return h.style.Name
}

// Highlight colours src. Errors are returned, never panicked.
func (h *Highlighter) Highlight(src string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("highlight: %v", r)
		}
	}()
	if h == nil {
		return "", fmt.Errorf("highlight: no highlighter")
	}
	it, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenise: %w", err)
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", fmt.Errorf("highlight: format: %w", err)
	}
	return buf.String(), nil
}

// Pretty indents a raw JSON value by two spaces, keeping member order.
func Pretty(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Plain makes text safe to print on a terminal: control characters other
// than newline and tab are replaced so server data can't inject escape
// sequences.
func Plain(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return '�'
		}
		return r
	}, s)
}
