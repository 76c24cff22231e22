// Package vault reads and writes game notes inside a markdown vault.
package vault

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/paths"
	"github.com/tessadover/gamelog/pkg/fileutil"
	"github.com/tessadover/gamelog/pkg/frontmatter"
)

// notePerm is the permission for note files; vaults are user documents.
const notePerm = 0644

// Vault is a folder of markdown game notes rooted inside a larger vault.
type Vault struct {
	root   string
	folder string
	logger *slog.Logger
}

// New creates a Vault for the games folder inside root.
func New(root, folder string, logger *slog.Logger) *Vault {
	if logger == nil {
		logger = slog.Default()
	}
	return &Vault{root: root, folder: folder, logger: logger}
}

// Dir returns the absolute path of the games folder.
func (v *Vault) Dir() string {
	return filepath.Join(v.root, v.folder)
}

// NotePath resolves a note name (with or without the .md extension) to its
// absolute path inside the games folder.
func (v *Vault) NotePath(name string) string {
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return filepath.Join(v.Dir(), name)
}

// Notes lists the markdown notes under the games folder as paths relative
// to it, sorted. Hidden directories (like .obsidian or .trash) are skipped.
func (v *Vault) Notes() ([]string, error) {
	dir := v.Dir()
	var notes []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		notes = append(notes, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing notes")
	}

	sort.Strings(notes)
	return notes, nil
}

// ReadNote parses the named note.
func (v *Vault) ReadNote(name string) (*frontmatter.Document, error) {
	data, err := fileutil.ReadFileWithLimit(v.NotePath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(errors.ErrNotFound, "note %q", name)
		}
		return nil, err
	}
	return frontmatter.Parse(string(data)), nil
}

// UpdateNote reads the named note, applies mutate to its parsed document,
// and writes the result back atomically. The write is skipped when the
// serialized note is identical to what is on disk, so a no-op mutation
// never touches the file. Returns whether the note was rewritten.
//
// The read-modify-write is not transactional; concurrent edits of the same
// note are the caller's problem.
func (v *Vault) UpdateNote(name string, mutate func(*frontmatter.Document) error) (bool, error) {
	path := v.NotePath(name)

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, errors.Wrapf(errors.ErrNotFound, "note %q", name)
		}
		return false, err
	}
	original := string(data)

	doc := frontmatter.Parse(original)
	if err := mutate(doc); err != nil {
		return false, err
	}

	updated := doc.Serialize()
	if updated == original {
		v.logger.Debug("note unchanged, skipping write", "note", name)
		return false, nil
	}

	if err := fileutil.AtomicWriteFile(path, []byte(updated), notePerm); err != nil {
		return false, errors.Wrapf(err, "writing note %q", name)
	}
	v.logger.Debug("note updated", "note", name)
	return true, nil
}

// CreateNote writes a new note and returns its path. The games folder is
// created if needed. Fails with ErrNoteExists when the note is already
// present.
func (v *Vault) CreateNote(name string, doc *frontmatter.Document) (string, error) {
	path := v.NotePath(name)

	if _, err := os.Stat(path); err == nil {
		return "", errors.Wrapf(errors.ErrNoteExists, "%s", path)
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrap(err, "creating games folder")
	}

	if err := fileutil.AtomicWriteFile(path, []byte(doc.Serialize()), notePerm); err != nil {
		return "", errors.Wrapf(err, "writing note %q", name)
	}
	v.logger.Info("note created", "note", path)
	return path, nil
}

// NoteName converts a game title to a safe note file name: characters that
// are unsafe in file names are dropped and whitespace is collapsed.
func NoteName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '#', '^', '[', ']':
			return -1
		}
		return r
	}, title)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Stem returns the note's display name: the base name without extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, ".md")
}
