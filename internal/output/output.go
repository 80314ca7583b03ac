// Package output renders a completed review as text, JSON, Markdown or HTML.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

// Options controls rendering.
type Options struct {
	// Color enables ANSI styling for text and terminal-rendered Markdown.
	Color bool
	// Preview includes the first source.PreviewLines lines of the file.
	Preview bool
	// Width is the wrap width for terminal Markdown. Zero means 80.
	Width int
}

// Render writes rev to w in the named format.
func Render(w io.Writer, format string, rev model.Review, opts Options) error {
	if rev.Report == nil {
		return fmt.Errorf("review %s has no report (status %s)", rev.Request.ID, rev.Request.Status)
	}
	switch format {
	case "", "text":
		return Text(w, rev, opts)
	case "json":
		return JSON(w, rev)
	case "markdown", "md":
		return MarkdownTo(w, rev, opts)
	case "html":
		return HTML(w, rev)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func preview(rev model.Review) source.Preview {
	return source.NewPreview(source.File{
		Name:      rev.Request.Filename,
		SizeBytes: rev.Request.SizeBytes,
		Content:   rev.Request.Content,
	}, source.PreviewLines)
}

func lineRef(s model.Suggestion) string {
	if s.LineNumber > 0 {
		return fmt.Sprintf("line %d", s.LineNumber)
	}
	return ""
}
