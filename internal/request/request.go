// Package request builds review requests from uploaded files.
//
// Building never fails: every filename resolves to a language tag, empty and
// binary content are accepted, and the size is taken from the upload metadata
// rather than recomputed from the decoded text.
package request

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/source"
)

// FallbackLanguage is the tag for unmapped or missing extensions.
const FallbackLanguage = "plaintext"

// languages maps lower-case extensions to language tags.
var languages = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".py":    "python",
	".java":  "java",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".cs":    "csharp",
	".rb":    "ruby",
	".go":    "go",
	".rs":    "rust",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".html":  "html",
	".css":   "css",
	".sql":   "sql",
	".sh":    "shell",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".diff":  "diff",
	".patch": "diff",
}

// DetectLanguage maps a filename's extension to a language tag,
// case-insensitively. It returns FallbackLanguage when nothing matches.
func DetectLanguage(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return FallbackLanguage
}

// Extension pairs an extension with its language tag.
type Extension struct {
	Ext      string `json:"ext"`
	Language string `json:"language"`
}

// Extensions returns the extension table sorted by extension.
func Extensions() []Extension {
	out := make([]Extension, 0, len(languages))
	for ext, lang := range languages {
		out = append(out, Extension{Ext: ext, Language: lang})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ext < out[j].Ext })
	return out
}

// Builder creates review requests. The zero value is ready to use.
type Builder struct {
	// Now returns the creation time; defaults to time.Now.
	Now func() time.Time
	// NewID returns a unique identifier; defaults to uuid.NewString.
	NewID func() string
}

// Build returns a pending request for f.
func (b Builder) Build(f source.File) model.ReviewRequest {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	newID := uuid.NewString
	if b.NewID != nil {
		newID = b.NewID
	}

	size := f.SizeBytes
	if size < 0 {
		size = 0
	}

	return model.ReviewRequest{
		ID:        newID(),
		Filename:  f.Name,
		Content:   f.Content,
		Language:  DetectLanguage(f.Name),
		SizeBytes: size,
		Status:    model.StatusPending,
		CreatedAt: now(),
	}
}

// New builds a pending request for f with default identifiers and clock.
func New(f source.File) model.ReviewRequest {
	return Builder{}.Build(f)
}
