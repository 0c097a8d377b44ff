// Package csvsvc parses bulk-edit CSV files into validated import records.
//
// Column conventions:
//
//	title       identifier column, required, must be first
//	template    page template name
//	a.b.c       frontmatter field, dotted paths nest
//	-field      delete the field when the cell is non-empty
//	field[]+    ensure the cell's value exists in the list field
//	field[]-    remove the cell's value from the list field
//
// Empty cells are skipped except in the title column, where they fail the row.
package csvsvc

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lorekeep/lorekeep/internal/server/pages"
)

const (
	colIdentifier = "title"
	colTemplate   = "template"

	previewCacheSize = 64
)

var (
	ErrEmptyFile = errors.New("file has no header row")
	ErrNoTitle   = errors.New("first column must be \"title\"")
)

// Service parses CSV content against the page index. Previews are cached by
// content hash so the submit path reuses the validation pass.
type Service struct {
	pages *pages.Store
	cache *lru.Cache[string, *Preview]
}

func New(pageStore *pages.Store) (*Service, error) {
	cache, err := lru.New[string, *Preview](previewCacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{pages: pageStore, cache: cache}, nil
}

func contentKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ParsePreview parses and validates content. The returned Preview is shared
// with the cache and must not be mutated.
func (s *Service) ParsePreview(content string) (*Preview, error) {
	key := contentKey(content)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	preview, err := s.parse(content)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, preview)
	return preview, nil
}

func (s *Service) parse(content string) (*Preview, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]column, len(header))
	for i, name := range header {
		cols[i] = parseColumn(name)
	}
	if len(cols) == 0 || cols[0].kind != kindIdentifier {
		return nil, ErrNoTitle
	}

	preview := &Preview{}
	seen := mapset.NewThreadUnsafeSet[string]()
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			preview.ParsingErrors = append(preview.ParsingErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		record := s.buildRecord(cols, row)
		if record.Valid() && !seen.Add(record.Identifier) {
			record.Warnings = append(record.Warnings, fmt.Sprintf("duplicate title %q, later rows win", record.Identifier))
		}
		preview.Records = append(preview.Records, record)
	}

	preview.TotalRecords = len(preview.Records)
	for _, r := range preview.Records {
		switch {
		case !r.Valid():
			preview.ErrorCount++
		case r.PageExists:
			preview.UpdateCount++
		default:
			preview.CreateCount++
		}
	}
	return preview, nil
}

type columnKind int

const (
	kindIdentifier columnKind = iota
	kindTemplate
	kindField
	kindDelete
	kindArrayAdd
	kindArrayRemove
	kindIgnored
)

type column struct {
	kind columnKind
	path string
}

func parseColumn(name string) column {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return column{kind: kindIgnored}
	case strings.EqualFold(name, colIdentifier):
		return column{kind: kindIdentifier}
	case strings.EqualFold(name, colTemplate):
		return column{kind: kindTemplate}
	case strings.HasPrefix(name, "-"):
		return column{kind: kindDelete, path: strings.TrimPrefix(name, "-")}
	case strings.HasSuffix(name, "[]+"):
		return column{kind: kindArrayAdd, path: strings.TrimSuffix(name, "[]+")}
	case strings.HasSuffix(name, "[]-"):
		return column{kind: kindArrayRemove, path: strings.TrimSuffix(name, "[]-")}
	default:
		return column{kind: kindField, path: name}
	}
}

func (s *Service) buildRecord(cols []column, row []string) Record {
	record := Record{}
	for i, col := range cols {
		var cell string
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		switch col.kind {
		case kindIdentifier:
			record.Identifier = cell
		case kindTemplate:
			if cell != "" {
				record.Template = cell
			}
		case kindField:
			if cell != "" {
				setField(&record, col.path, parseValue(cell))
			}
		case kindDelete:
			if cell != "" {
				record.FieldsToDelete = append(record.FieldsToDelete, col.path)
			}
		case kindArrayAdd:
			if cell != "" {
				record.ArrayOps = append(record.ArrayOps, ArrayOp{
					FieldPath: col.path, Operation: ArrayOpEnsureExists, Value: cell,
				})
			}
		case kindArrayRemove:
			if cell != "" {
				record.ArrayOps = append(record.ArrayOps, ArrayOp{
					FieldPath: col.path, Operation: ArrayOpRemove, Value: cell,
				})
			}
		}
	}

	if record.Identifier == "" {
		record.ValidationErrors = append(record.ValidationErrors, "title is required")
	} else {
		record.PageExists = s.pages.Exists(record.Identifier)
	}
	return record
}

// setField writes value into the record's frontmatter, nesting on dots.
func setField(record *Record, path string, value any) {
	if record.Frontmatter == nil {
		record.Frontmatter = make(map[string]any)
	}
	node := record.Frontmatter
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

// parseValue keeps CSV cells typed: bools and numbers become JSON-native
// values, everything else stays a string.
func parseValue(cell string) any {
	switch strings.ToLower(cell) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	return cell
}
