package source

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// PreviewLines is how many lines a code preview shows before truncating.
const PreviewLines = 20

// HighlightedLine represents a line with syntax-highlighted tokens.
type HighlightedLine struct {
	Number int
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex colour, empty for default
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Preview is the head of a file prepared for display.
type Preview struct {
	Lines     []HighlightedLine
	Total     int // total line count of the file
	Remaining int // lines not shown
}

// NewPreview highlights the first n lines of f.
func NewPreview(f File, n int) Preview {
	all := f.Lines()
	shown := all
	if n > 0 && len(shown) > n {
		shown = shown[:n]
	}
	return Preview{
		Lines:     HighlightLines(f.Name, shown),
		Total:     len(all),
		Remaining: len(all) - len(shown),
	}
}

// HighlightLines applies syntax highlighting to source lines for a given filename.
// Returns one HighlightedLine per input line.
func HighlightLines(filename string, lines []string) []HighlightedLine {
	lexer := lexerForFile(filename)
	if lexer == nil {
		return plainLines(lines)
	}

	source := strings.Join(lines, "\n")
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{Number: 1}

	for _, token := range iterator.Tokens() {
		// Tokens may span several lines.
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{Number: len(result) + 1}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	// Lexers may append a trailing newline token; keep one line per input line.
	if len(result) > len(lines) {
		result = result[:len(lines)]
	}
	for len(result) < len(lines) {
		result = append(result, HighlightedLine{Number: len(result) + 1})
	}

	return result
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Number: i + 1, Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + strings.ToLower(ext))
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
