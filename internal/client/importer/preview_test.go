package importer

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

func TestBadge(t *testing.T) {
	assert.Equal(t, BadgeUpdate, Badge(&wikisdk.ImportRecord{PageExists: true}))
	assert.Equal(t, BadgeNew, Badge(&wikisdk.ImportRecord{PageExists: false}))
}

func TestFilterRecords(t *testing.T) {
	records := []wikisdk.ImportRecord{
		{Identifier: "a"},
		{Identifier: "b", ValidationErrors: []string{"bad"}},
		{Identifier: "c"},
		{Identifier: "d", ValidationErrors: []string{"bad"}},
		{Identifier: "e", ValidationErrors: []string{"bad"}},
	}

	all := FilterRecords(records, false)
	assert.Len(t, all, 5)

	errored := FilterRecords(records, true)
	require.Len(t, errored, 3)
	assert.Equal(t, "b", errored[0].Identifier)
	assert.Equal(t, "d", errored[1].Identifier)
	assert.Equal(t, "e", errored[2].Identifier)
}

func TestFlattenRecord_SortedByKey(t *testing.T) {
	r := &wikisdk.ImportRecord{
		Identifier: "alpha",
		Frontmatter: map[string]any{
			"zeta":  "last",
			"owner": map[string]any{"name": "alice", "email": "a@example.com"},
			"count": float64(3),
		},
		FieldsToDelete: []string{"beta", "aaa"},
		ArrayOps: []wikisdk.ArrayOp{
			{FieldPath: "tags", Operation: wikisdk.ArrayOpEnsureExists, Value: "wiki"},
			{FieldPath: "tags", Operation: wikisdk.ArrayOpRemove, Value: "draft"},
		},
	}

	entries := FlattenRecord(r)
	require.Len(t, entries, 7)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	// entries from all three sources are merged and sorted ascending by key
	assert.True(t, sort.StringsAreSorted(keys), "keys not sorted: %v", keys)
	assert.Equal(t, []string{"aaa", "beta", "count", "owner.email", "owner.name", "tags[]", "tags[]"}, keys)

	byKey := map[string]FieldEntry{}
	for _, e := range entries {
		if e.Key != "tags[]" {
			byKey[e.Key] = e
		}
	}
	assert.Equal(t, FieldDelete, byKey["aaa"].Kind)
	assert.Equal(t, FieldDelete, byKey["beta"].Kind)
	assert.Equal(t, "3", byKey["count"].Value)
	assert.Equal(t, FieldSet, byKey["owner.name"].Kind)

	// array op order is preserved among equal keys
	assert.Equal(t, FieldArrayAdd, entries[5].Kind)
	assert.Equal(t, "wiki", entries[5].Value)
	assert.Equal(t, FieldArrayRemove, entries[6].Kind)
	assert.Equal(t, "draft", entries[6].Value)
}

func TestFlattenRecord_Deterministic(t *testing.T) {
	r := &wikisdk.ImportRecord{
		Frontmatter: map[string]any{
			"b": "2", "a": "1", "c": "3", "d": "4", "e": "5",
		},
	}

	first := FlattenRecord(r)
	for range 20 {
		assert.Equal(t, first, FlattenRecord(r))
	}
}

func TestFlattenRecord_Stringify(t *testing.T) {
	r := &wikisdk.ImportRecord{
		Frontmatter: map[string]any{
			"tags":   []any{"a", "b"},
			"nil":    nil,
			"truthy": true,
			"pi":     3.5,
		},
	}
	entries := FlattenRecord(r)
	byKey := map[string]string{}
	for _, e := range entries {
		byKey[e.Key] = e.Value
	}
	assert.Equal(t, "a, b", byKey["tags"])
	assert.Equal(t, "", byKey["nil"])
	assert.Equal(t, "true", byKey["truthy"])
	assert.Equal(t, "3.5", byKey["pi"])
}

func TestSummaryLine(t *testing.T) {
	line := SummaryLine(wikisdk.ImportStats{Total: 5, Errors: 1, Creates: 2, Updates: 2})
	assert.Equal(t, "5 total, 2 new, 2 update, 1 err", line)
}
