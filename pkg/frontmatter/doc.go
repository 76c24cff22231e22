// Package frontmatter parses and re-serializes the YAML metadata block at
// the top of a markdown note without destroying its formatting.
//
// The usual parse/dump cycle through plain maps loses comments, key order,
// and quoting style. This package instead keeps the yaml.v3 parse tree of
// the original block alongside a plain, ordered snapshot of its values.
// Callers mutate the snapshot; Serialize diffs it against the tree and
// rewrites only the affected nodes, so everything the caller did not touch
// comes back byte-identical.
//
//	doc := frontmatter.Parse(content)
//	doc.Fields.Set("status", "playing")
//	updated := doc.Serialize()
//
// A Document is built fresh per read and its parse tree is owned by that
// Document alone; do not cache one across reads of the same file.
package frontmatter
