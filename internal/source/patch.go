package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ErrNotSingleFile is returned when a patch does not describe exactly one file.
var ErrNotSingleFile = errors.New("patch must change exactly one file")

// IsPatch reports whether name looks like a unified diff upload.
func IsPatch(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".diff", ".patch":
		return true
	}
	return false
}

// FromPatch turns a unified diff for a single file into a File holding the
// post-image lines present in the patch (context and added lines). For a new
// file this is the whole file. Deleted and binary files are rejected.
func FromPatch(raw string) (File, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return File{}, fmt.Errorf("parsing patch: %w", err)
	}
	if len(parsed) != 1 {
		return File{}, fmt.Errorf("%w (found %d)", ErrNotSingleFile, len(parsed))
	}

	f := parsed[0]
	switch {
	case f.IsDelete:
		return File{}, fmt.Errorf("patch deletes %s; nothing to review", f.OldName)
	case f.IsBinary:
		return File{}, fmt.Errorf("patch for %s is binary", f.NewName)
	}

	var b strings.Builder
	for _, frag := range f.TextFragments {
		for _, line := range frag.Lines {
			if line.Op == gitdiff.OpAdd || line.Op == gitdiff.OpContext {
				b.WriteString(line.Line)
			}
		}
	}

	name := f.NewName
	if name == "" {
		name = f.OldName
	}
	content := b.String()

	return File{
		Name:      filepath.Base(name),
		SizeBytes: int64(len(content)),
		Content:   content,
	}, nil
}
