package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

// FieldEntryKind tags the source of a field-diff entry.
type FieldEntryKind string

const (
	FieldSet         FieldEntryKind = "set"
	FieldDelete      FieldEntryKind = "delete"
	FieldArrayAdd    FieldEntryKind = "array-add"
	FieldArrayRemove FieldEntryKind = "array-remove"
)

// FieldEntry is one line of a record's field-diff view.
type FieldEntry struct {
	Key   string
	Value string
	Kind  FieldEntryKind
}

// Badge values for a record.
const (
	BadgeUpdate = "update"
	BadgeNew    = "new"
)

// Badge classifies a record for display.
func Badge(r *wikisdk.ImportRecord) string {
	if r.PageExists {
		return BadgeUpdate
	}
	return BadgeNew
}

// FilterRecords returns the errors-only subset, or all records.
func FilterRecords(records []wikisdk.ImportRecord, errorsOnly bool) []wikisdk.ImportRecord {
	if !errorsOnly {
		return records
	}
	var out []wikisdk.ImportRecord
	for _, r := range records {
		if len(r.ValidationErrors) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// FlattenRecord merges a record's frontmatter scalars, field deletions and
// array ops into one list sorted ascending by key string. The ordering is
// deterministic regardless of map iteration or source order.
func FlattenRecord(r *wikisdk.ImportRecord) []FieldEntry {
	var entries []FieldEntry

	flattenValue("", r.Frontmatter, &entries)

	for _, path := range r.FieldsToDelete {
		entries = append(entries, FieldEntry{Key: path, Kind: FieldDelete})
	}

	for _, op := range r.ArrayOps {
		kind := FieldArrayAdd
		if op.Operation == wikisdk.ArrayOpRemove {
			kind = FieldArrayRemove
		}
		entries = append(entries, FieldEntry{
			Key:   op.FieldPath + "[]",
			Value: op.Value,
			Kind:  kind,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// flattenValue walks the frontmatter tree. Maps recurse with dotted paths,
// everything else is a leaf stringified for display.
func flattenValue(prefix string, v any, out *[]FieldEntry) {
	m, ok := v.(map[string]any)
	if !ok {
		if prefix != "" {
			*out = append(*out, FieldEntry{Key: prefix, Value: stringify(v), Kind: FieldSet})
		}
		return
	}

	for key, val := range m {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		flattenValue(path, val, out)
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ", ")
	case float64:
		// JSON numbers decode as float64; render integers without a fraction
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// SummaryLine renders the stats banner, e.g. "5 total, 2 new, 2 update, 1 err".
func SummaryLine(stats wikisdk.ImportStats) string {
	return fmt.Sprintf("%d total, %d new, %d update, %d err",
		stats.Total, stats.Creates, stats.Updates, stats.Errors)
}
