package frontmatter

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tessadover/gamelog/internal/errors"
)

const delim = "---"

// Document is the result of splitting a note into a metadata block and body.
//
// Fields is a plain snapshot of the metadata; mutate it and call Serialize
// to write the changes back. When the original note carried a parseable
// metadata block, the document keeps the live yaml parse tree and Serialize
// re-renders through it, preserving the original comments, key order, and
// scalar styles for everything that was not changed.
type Document struct {
	Fields *Fields
	Body   string

	// handle is the original mapping node, nil when the note had no metadata
	// block or the block failed to parse. It is owned by this Document and
	// must not be shared.
	handle *yaml.Node

	// block is the original text between the delimiters and orig the field
	// snapshot taken at parse time. Serialize emits block verbatim while
	// Fields still equals orig, and splices against its lines once mutated.
	block string
	orig  *Fields
}

// New returns an empty document. Fields set on it serialize in default
// style since there is no original block to preserve.
func New() *Document {
	return &Document{Fields: NewFields()}
}

// Parse splits document into metadata and body.
//
// A metadata block is "---\n" at offset 0 followed by YAML and a closing
// "---" on its own line. Without a valid block, or when the block is not
// parseable YAML or not a mapping, the whole input is returned as Body,
// unmodified, with empty Fields. Parse never fails; malformed metadata is
// logged and ignored.
func Parse(document string) *Document {
	doc := &Document{Fields: NewFields(), Body: document}

	if !strings.HasPrefix(document, delim+"\n") {
		return doc
	}

	// rest starts at the newline that ends the opening delimiter line, so a
	// closing delimiter is always preceded by "\n".
	rest := document[len(delim):]
	end := strings.Index(rest, "\n"+delim+"\n")
	bodyStart := end + len(delim) + 2
	if end < 0 {
		// Accept a closing delimiter at the very end of the input.
		if strings.HasSuffix(rest, "\n"+delim) {
			end = len(rest) - len(delim) - 1
			bodyStart = len(rest)
		} else {
			return doc
		}
	}

	block := rest[1 : end+1]

	mapping, err := parseBlock(block)
	if err != nil {
		slog.Warn("ignoring malformed metadata block", "error", err)
		return doc
	}

	fields, err := snapshot(mapping)
	if err != nil {
		slog.Warn("ignoring malformed metadata block", "error", err)
		return doc
	}

	doc.Fields = fields
	doc.Body = strings.TrimSpace(rest[bodyStart:])
	doc.handle = mapping
	doc.block = block
	doc.orig, _ = snapshot(mapping)
	return doc
}

// Serialize renders the document back to text.
//
// With empty Fields the body is returned verbatim: a note whose metadata
// keys were all removed loses its block entirely. Otherwise the metadata is
// rendered between "---" delimiters followed by a blank line and the body.
// While Fields still equals the parse-time snapshot the original block text
// is emitted unmodified, blank lines and indentation included. Once mutated,
// the block is spliced line by line so untouched entries keep their original
// text and only changed, added, or removed entries are re-rendered. Without
// an original block the metadata is emitted in default style.
func (d *Document) Serialize() string {
	if d.Fields == nil || d.Fields.Len() == 0 {
		return d.Body
	}

	if d.handle != nil {
		if d.orig != nil && d.Fields.Equal(d.orig) {
			return delim + "\n" + d.block + delim + "\n\n" + d.Body
		}
		if block, ok := d.spliceBlock(); ok {
			return delim + "\n" + block + delim + "\n\n" + d.Body
		}
	}

	mapping := d.handle
	if mapping == nil {
		mapping = emptyMapping()
	}
	applyFields(mapping, d.Fields)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		// Fields holds plain decoded values, so this is unreachable in
		// practice; degrade to the bare body rather than fail.
		slog.Error("encoding metadata block", "error", err)
		return d.Body
	}
	if err := enc.Close(); err != nil {
		slog.Error("encoding metadata block", "error", err)
		return d.Body
	}

	return delim + "\n" + buf.String() + delim + "\n\n" + d.Body
}

// spliceBlock rebuilds the metadata block from the original text: each
// top-level entry owns the line span from its head comment through the line
// before the next entry's head comment, so unchanged entries are copied
// verbatim together with their comments and adjacent blank lines. Changed
// entries are re-rendered in place, removed entries are skipped, and new
// keys are appended. Reports false when the block does not split into one
// span per entry, as with flow mappings, in which case the caller falls back
// to re-encoding the whole block.
func (d *Document) spliceBlock() (string, bool) {
	lines := strings.Split(d.block, "\n")
	if lines[len(lines)-1] != "" {
		return "", false
	}
	total := len(lines) - 1

	type span struct {
		key        string
		start, end int
		keyNode    *yaml.Node
		valNode    *yaml.Node
	}
	pairs := d.handle.Content
	spans := make([]span, 0, len(pairs)/2)
	prevLine := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		keyNode := pairs[i]
		if keyNode.Line <= prevLine || keyNode.Line > total {
			return "", false
		}
		start := keyNode.Line - commentLineCount(keyNode.HeadComment)
		if start <= prevLine || start < 1 {
			return "", false
		}
		if len(spans) > 0 {
			spans[len(spans)-1].end = start - 1
		}
		spans = append(spans, span{key: keyNode.Value, start: start, keyNode: keyNode, valNode: pairs[i+1]})
		prevLine = keyNode.Line
	}
	if len(spans) > 0 {
		spans[len(spans)-1].end = total
	}

	var b strings.Builder
	copyLines := func(start, end int) {
		for n := start; n <= end; n++ {
			b.WriteString(lines[n-1])
			b.WriteByte('\n')
		}
	}
	if len(spans) > 0 {
		copyLines(1, spans[0].start-1)
	} else {
		copyLines(1, total)
	}

	seen := make(map[string]bool, len(spans))
	for _, sp := range spans {
		if seen[sp.key] {
			continue
		}
		want, ok := d.Fields.Get(sp.key)
		if !ok {
			continue
		}
		seen[sp.key] = true

		var current any
		if err := sp.valNode.Decode(&current); err == nil && reflect.DeepEqual(current, want) {
			copyLines(sp.start, sp.end)
			continue
		}
		entry, err := renderEntry(sp.keyNode, encodeValue(want, sp.valNode))
		if err != nil {
			return "", false
		}
		b.WriteString(entry)
	}

	for _, key := range d.Fields.Keys() {
		if seen[key] {
			continue
		}
		value, _ := d.Fields.Get(key)
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			return "", false
		}
		entry, err := renderEntry(keyNode, encodeValue(value, nil))
		if err != nil {
			return "", false
		}
		b.WriteString(entry)
	}

	return b.String(), true
}

// renderEntry encodes a single key/value pair as its own block-style
// mapping, used for changed and appended entries.
func renderEntry(keyNode, valNode *yaml.Node) (string, error) {
	pair := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{keyNode, valNode}}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(pair); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func commentLineCount(comment string) int {
	if comment == "" {
		return 0
	}
	return strings.Count(comment, "\n") + 1
}

// parseBlock parses the text between the delimiters into a mapping node.
// An empty or null block yields an empty mapping so the handle survives
// round-trips of "---\n---\n" headers.
func parseBlock(block string) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return nil, err
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return emptyMapping(), nil
	}

	node := root.Content[0]
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return emptyMapping(), nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	return node, nil
}

var errNotMapping = errors.New("metadata block is not a mapping")

func emptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// snapshot decodes a mapping node into an ordered plain-value field set.
func snapshot(mapping *yaml.Node) (*Fields, error) {
	fields := NewFields()
	content := mapping.Content
	for i := 0; i+1 < len(content); i += 2 {
		var key string
		if err := content[i].Decode(&key); err != nil {
			return nil, errors.Wrap(err, "decoding metadata key")
		}
		var value any
		if err := content[i+1].Decode(&value); err != nil {
			return nil, errors.Wrapf(err, "decoding metadata value for %q", key)
		}
		fields.Set(key, value)
	}
	return fields, nil
}

// applyFields diffs fields against the mapping node and rewrites only the
// affected entries: removed keys are dropped, changed values are re-encoded
// (carrying the old entry's comments across), untouched entries keep their
// original nodes, and new keys are appended in default style.
func applyFields(mapping *yaml.Node, fields *Fields) {
	pairs := mapping.Content
	kept := make([]*yaml.Node, 0, len(pairs))
	seen := make(map[string]bool, len(pairs)/2)

	for i := 0; i+1 < len(pairs); i += 2 {
		keyNode, valNode := pairs[i], pairs[i+1]
		key := keyNode.Value
		// Duplicate keys are invalid metadata but the node parser accepts
		// them; only the first pair survives.
		if seen[key] {
			continue
		}
		want, ok := fields.Get(key)
		if !ok {
			continue
		}
		seen[key] = true

		var current any
		if err := valNode.Decode(&current); err != nil || !reflect.DeepEqual(current, want) {
			valNode = encodeValue(want, valNode)
		}
		kept = append(kept, keyNode, valNode)
	}

	for _, key := range fields.Keys() {
		if seen[key] {
			continue
		}
		value, _ := fields.Get(key)
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			continue
		}
		kept = append(kept, keyNode, encodeValue(value, nil))
	}

	mapping.Content = kept
	if mapping.Tag == "" {
		mapping.Tag = "!!map"
	}
}

// encodeValue builds a node for value. When replacing an existing entry the
// old node's comments move to the new one so an edit does not eat the
// author's annotations.
func encodeValue(value any, old *yaml.Node) *yaml.Node {
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		// Keep the previous node rather than emit a broken one.
		if old != nil {
			return old
		}
		node.Kind = yaml.ScalarNode
		node.Tag = "!!null"
		node.Value = "null"
		return node
	}
	if old != nil {
		node.HeadComment = old.HeadComment
		node.LineComment = old.LineComment
		node.FootComment = old.FootComment
	}
	return node
}
