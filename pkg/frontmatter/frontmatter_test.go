package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain text", "Just text"},
		{"delimiter not at offset zero", "\n---\nfoo: 1\n---\nBody"},
		{"unclosed block", "---\nfoo: 1\nBody without closing"},
		{"delimiter with trailing chars", "----\nfoo: 1\n---\nBody"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input)

			assert.Equal(t, 0, doc.Fields.Len())
			assert.Equal(t, tt.input, doc.Body, "body must be the unmodified input")
			assert.Nil(t, doc.handle)
		})
	}
}

func TestParseMalformedBlock(t *testing.T) {
	input := "---\nfoo: [unclosed\n  broken: yes\n---\nBody"

	doc := Parse(input)

	assert.Equal(t, 0, doc.Fields.Len())
	assert.Equal(t, input, doc.Body)
	assert.Nil(t, doc.handle)
}

func TestParseNonMappingBlock(t *testing.T) {
	input := "---\n- a\n- b\n---\nBody"

	doc := Parse(input)

	assert.Equal(t, 0, doc.Fields.Len())
	assert.Equal(t, input, doc.Body)
	assert.Nil(t, doc.handle)
}

func TestParseValues(t *testing.T) {
	doc := Parse("---\ntitle: Hades\nrating: 9.5\nfinished: true\nplaythroughs: 2\ntags:\n  - roguelike\n  - indie\nmeta:\n  platform: pc\n---\nBody text")

	require.NotNil(t, doc.handle)
	assert.Equal(t, []string{"title", "rating", "finished", "playthroughs", "tags", "meta"}, doc.Fields.Keys())
	assert.Equal(t, "Hades", doc.Fields.GetString("title"))

	rating, _ := doc.Fields.Get("rating")
	assert.Equal(t, 9.5, rating)

	finished, _ := doc.Fields.Get("finished")
	assert.Equal(t, true, finished)

	playthroughs, _ := doc.Fields.Get("playthroughs")
	assert.Equal(t, 2, playthroughs)

	tags, _ := doc.Fields.Get("tags")
	assert.Equal(t, []any{"roguelike", "indie"}, tags)

	meta, _ := doc.Fields.Get("meta")
	assert.Equal(t, map[string]any{"platform": "pc"}, meta)

	assert.Equal(t, "Body text", doc.Body)
}

func TestParseTrimsBody(t *testing.T) {
	doc := Parse("---\nfoo: 1\n---\n\n\n  Body text\n\n")
	assert.Equal(t, "Body text", doc.Body)
}

func TestParseEmptyBlock(t *testing.T) {
	doc := Parse("---\n---\nBody")

	assert.Equal(t, 0, doc.Fields.Len())
	assert.Equal(t, "Body", doc.Body)
	assert.NotNil(t, doc.handle, "empty block still yields a live handle")
}

func TestParseClosingDelimiterAtEOF(t *testing.T) {
	doc := Parse("---\nfoo: 1\n---")

	assert.Equal(t, 1, doc.Fields.Len())
	assert.Equal(t, "", doc.Body)
}

func TestRoundTripUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"comment and plain scalar",
			"---\nfoo: 1 # comment\n---\n\nHello",
		},
		{
			"key order and mixed styles",
			"---\ntitle: \"Outer Wilds\"\nstatus: playing\ntags: [space, mystery]\nrating: 9.5\n---\n\nNotes here",
		},
		{
			"nested mapping and sequence",
			"---\ntitle: Celeste\nmeta:\n  platform: switch\n  year: 2018\nsessions:\n  - 2h\n  - 45m\n---\n\nBody",
		},
		{
			"head comments",
			"---\n# game metadata\ntitle: Hades\n# progress\nstatus: completed\n---\n\nBody",
		},
		{
			"single quoted scalar",
			"---\ntitle: 'It''s quoted'\n---\n\nBody",
		},
		{
			"blank lines between entries",
			"---\n# head\ntitle: Hades\n\nstatus: done\n---\n\nBody",
		},
		{
			"four space nested indentation",
			"---\nmeta:\n    platform: pc\n    year: 2020\n---\n\nBody",
		},
		{
			"unindented sequence",
			"---\ntags:\n- roguelike\n- indie\n---\n\nBody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input)
			require.NotNil(t, doc.handle)

			assert.Equal(t, tt.input, doc.Serialize())
		})
	}
}

func TestSerializeNoMetadataPassthrough(t *testing.T) {
	doc := Parse("Just text")
	assert.Equal(t, "Just text", doc.Serialize())
}

func TestSerializeBlockRemovedWhenFieldsCleared(t *testing.T) {
	doc := Parse("---\nfoo: 1\nbar: 2\n---\n\nHello")
	doc.Fields.Clear()

	assert.Equal(t, "Hello", doc.Serialize())
}

func TestSerializeEmptyBlockDropped(t *testing.T) {
	doc := Parse("---\n---\nHello")
	assert.Equal(t, "Hello", doc.Serialize())
}

func TestSerializeValueChangeKeepsNeighbors(t *testing.T) {
	doc := Parse("---\ntitle: \"Hades\" # keep quotes\nstatus: backlog\n---\n\nBody")
	doc.Fields.Set("status", "playing")

	got := doc.Serialize()

	assert.Equal(t, "---\ntitle: \"Hades\" # keep quotes\nstatus: playing\n---\n\nBody", got)
}

func TestSerializeValueChangeKeepsBlankLinesAndIndent(t *testing.T) {
	doc := Parse("---\ntitle: Hades\n\nmeta:\n    platform: pc\nstatus: backlog\n---\n\nBody")
	doc.Fields.Set("status", "playing")

	got := doc.Serialize()

	assert.Equal(t, "---\ntitle: Hades\n\nmeta:\n    platform: pc\nstatus: playing\n---\n\nBody", got)
}

func TestSerializeDuplicateKeyCollapsesOnChange(t *testing.T) {
	doc := Parse("---\nstatus: backlog\nstatus: playing\ntitle: Hades\n---\n\nBody")
	doc.Fields.Set("status", "completed")

	got := doc.Serialize()

	assert.Equal(t, "---\nstatus: completed\ntitle: Hades\n---\n\nBody", got)
}

func TestSerializeValueChangeCarriesComment(t *testing.T) {
	doc := Parse("---\nstatus: backlog # set by hand\n---\n\nBody")
	doc.Fields.Set("status", "completed")

	got := doc.Serialize()

	assert.Contains(t, got, "status: completed")
	assert.Contains(t, got, "# set by hand")
}

func TestSerializeKeyRemoval(t *testing.T) {
	doc := Parse("---\ntitle: Hades\ncover: old.jpg\nstatus: playing\n---\n\nBody")
	doc.Fields.Delete("cover")

	assert.Equal(t, "---\ntitle: Hades\nstatus: playing\n---\n\nBody", doc.Serialize())
}

func TestSerializeNewKeyAppended(t *testing.T) {
	doc := Parse("---\ntitle: Hades # roguelike\n---\n\nBody")
	doc.Fields.Set("status", "playing")

	assert.Equal(t, "---\ntitle: Hades # roguelike\nstatus: playing\n---\n\nBody", doc.Serialize())
}

func TestSerializeWithoutHandle(t *testing.T) {
	doc := Parse("Plain body")
	doc.Fields.Set("title", "Hades")
	doc.Fields.Set("status", "backlog")

	assert.Equal(t, "---\ntitle: Hades\nstatus: backlog\n---\n\nPlain body", doc.Serialize())
}

func TestSerializeAfterParseFailureUsesDefaultStyle(t *testing.T) {
	doc := Parse("---\nfoo: [broken\n---\nBody")
	require.Nil(t, doc.handle)

	doc.Fields.Set("status", "backlog")
	got := doc.Serialize()

	// The malformed original block is part of the body and stays untouched;
	// the new metadata is emitted in default style in front of it.
	assert.Equal(t, "---\nstatus: backlog\n---\n\n---\nfoo: [broken\n---\nBody", got)
}

func TestSerializeNestedMutation(t *testing.T) {
	doc := Parse("---\ntitle: Celeste\nmeta:\n  platform: pc\n---\n\nBody")
	doc.Fields.Set("meta", map[string]any{"platform": "switch"})

	got := doc.Serialize()

	assert.Contains(t, got, "platform: switch")
	assert.Contains(t, got, "title: Celeste")
}

func TestFieldsOrdering(t *testing.T) {
	f := NewFields()
	f.Set("a", 1)
	f.Set("b", 2)
	f.Set("a", 3) // update keeps position
	f.Set("c", 4)

	assert.Equal(t, []string{"a", "b", "c"}, f.Keys())

	v, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	f.Delete("b")
	assert.Equal(t, []string{"a", "c"}, f.Keys())
	assert.False(t, f.Has("b"))
	assert.Equal(t, 2, f.Len())
}
