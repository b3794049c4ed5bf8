package snapshot

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Describable is implemented by values that can render themselves as a
// Description tree for the Dump strategy. There is no reflection fallback:
// a type either describes itself or is snapshotted with another strategy.
type Describable interface {
	Describe() Description
}

// Description is one node of a dump tree.
type Description struct {
	// Summary is the one-line rendering of the node, e.g. `"Blob"` or `User`.
	Summary string
	// Children are rendered below the node, one indent level deeper.
	Children []Field
}

// Describe returns d itself, so prebuilt trees can be dumped directly.
func (d Description) Describe() Description {
	return d
}

// Field is a named child of a Description. An empty Name renders the
// value's summary alone, as list elements do.
type Field struct {
	Name  string
	Value Description
}

// Leaf returns a childless node.
func Leaf(summary string) Description {
	return Description{Summary: summary}
}

// Quoted returns a leaf for a string value, quoted with Go syntax.
func Quoted(s string) Description {
	return Leaf(strconv.Quote(s))
}

// Struct returns a node summarized by its type name.
func Struct(name string, fields ...Field) Description {
	return Description{Summary: name, Children: fields}
}

// Time returns a leaf for t in UTC, e.g. 2026-01-02T03:04:05Z.
func Time(t time.Time) Description {
	return Leaf(t.UTC().Format(time.RFC3339))
}

// List returns a node summarized by its element count.
func List(items ...Description) Description {
	return Description{Summary: count(len(items), "element", "elements"), Children: unnamed(items)}
}

// Pair is one entry of a Map.
type Pair struct {
	Key   Description
	Value Description
}

// Map returns a node summarized by its entry count. Entries are ordered by
// key summary, so Go's map iteration order never reaches the artifact.
func Map(pairs ...Pair) Description {
	sorted := slices.Clone(pairs)
	slices.SortStableFunc(sorted, func(a, b Pair) int {
		return cmp.Compare(a.Key.Summary, b.Key.Summary)
	})
	fields := make([]Field, len(sorted))
	for i, p := range sorted {
		fields[i] = Field{Value: Description{
			Summary:  "(2 elements)",
			Children: []Field{{Name: "key", Value: p.Key}, {Name: "value", Value: p.Value}},
		}}
	}
	return Description{Summary: count(len(pairs), "key/value pair", "key/value pairs"), Children: fields}
}

// Set returns a node summarized by its member count, members ordered by
// summary.
func Set(members ...Description) Description {
	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b Description) int {
		return cmp.Compare(a.Summary, b.Summary)
	})
	return Description{Summary: count(len(members), "member", "members"), Children: unnamed(sorted)}
}

func count(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}

func unnamed(items []Description) []Field {
	fields := make([]Field, len(items))
	for i, it := range items {
		fields[i] = Field{Value: it}
	}
	return fields
}

// Dump snapshots a Describable as an indented tree in a .txt artifact:
//
//	▿ User
//	  - id: 1
//	  - name: "Blob"
func Dump[V Describable]() Strategy[V, string] {
	return Precompose(Lines, func(v V) string {
		var b strings.Builder
		writeDescription(&b, 0, "", v.Describe())
		return b.String()
	})
}

func writeDescription(b *strings.Builder, depth int, name string, d Description) {
	b.WriteString(strings.Repeat("  ", depth))
	if len(d.Children) > 0 {
		b.WriteString("▿ ")
	} else {
		b.WriteString("- ")
	}
	if name != "" {
		b.WriteString(name)
		b.WriteString(": ")
	}
	b.WriteString(d.Summary)
	b.WriteByte('\n')
	for _, f := range d.Children {
		writeDescription(b, depth+1, f.Name, f.Value)
	}
}
