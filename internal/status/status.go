// Package status defines the play-status vocabulary written into game notes.
package status

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/tessadover/gamelog/internal/errors"
)

// Key is the frontmatter key the status is stored under.
const Key = "status"

// defaultStatuses is the built-in vocabulary, in display order.
// The first entry is the default for newly created notes.
var defaultStatuses = []string{
	"backlog",
	"wishlist",
	"playing",
	"paused",
	"completed",
	"dropped",
	"shelved",
}

// Schema is the set of statuses a vault accepts.
type Schema struct {
	Statuses []string `toml:"statuses"`
}

// Default returns the built-in schema.
func Default() Schema {
	statuses := make([]string, len(defaultStatuses))
	copy(statuses, defaultStatuses)
	return Schema{Statuses: statuses}
}

// Load reads a schema override from a TOML file:
//
//	statuses = ["backlog", "playing", "done"]
//
// The file replaces the built-in vocabulary entirely.
func Load(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, errors.Wrap(err, "reading statuses file")
	}

	var schema Schema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return Schema{}, errors.Wrap(err, "parsing statuses file")
	}

	if err := schema.Validate(); err != nil {
		return Schema{}, err
	}
	return schema, nil
}

// Validate checks that the schema is non-empty with unique, non-blank entries.
func (s Schema) Validate() error {
	if err := validation.Validate(s.Statuses,
		validation.Required,
		validation.Each(validation.Required, validation.Length(1, 64)),
	); err != nil {
		return errors.Wrap(err, "statuses")
	}

	seen := make(map[string]bool, len(s.Statuses))
	for _, v := range s.Statuses {
		if seen[v] {
			return errors.Newf("statuses: duplicate entry %q", v)
		}
		seen[v] = true
	}
	return nil
}

// Contains reports whether v is part of the schema.
func (s Schema) Contains(v string) bool {
	for _, status := range s.Statuses {
		if status == v {
			return true
		}
	}
	return false
}

// DefaultStatus returns the status assigned to newly created notes.
func (s Schema) DefaultStatus() string {
	if len(s.Statuses) == 0 {
		return ""
	}
	return s.Statuses[0]
}
