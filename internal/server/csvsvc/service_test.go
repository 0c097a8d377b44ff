package csvsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/server/pages"
)

func newService(t *testing.T, seed ...string) *Service {
	t.Helper()
	svc, err := New(pages.NewStore(seed...))
	require.NoError(t, err)
	return svc
}

func TestParsePreviewColumns(t *testing.T) {
	svc := newService(t, "Dragons")

	content := "title,template,owner.name,pop,-old_field,tags[]+,tags[]-\n" +
		"Dragons,creature,Ela,1200,x,mythic,draft\n" +
		"Gryphons,creature,,,,,\n"

	preview, err := svc.ParsePreview(content)
	require.NoError(t, err)
	require.Len(t, preview.Records, 2)
	assert.Empty(t, preview.ParsingErrors)

	r := preview.Records[0]
	assert.Equal(t, "Dragons", r.Identifier)
	assert.True(t, r.PageExists)
	assert.Equal(t, "creature", r.Template)
	assert.Equal(t, map[string]any{
		"owner": map[string]any{"name": "Ela"},
		"pop":   float64(1200),
	}, r.Frontmatter)
	assert.Equal(t, []string{"old_field"}, r.FieldsToDelete)
	assert.Equal(t, []ArrayOp{
		{FieldPath: "tags", Operation: ArrayOpEnsureExists, Value: "mythic"},
		{FieldPath: "tags", Operation: ArrayOpRemove, Value: "draft"},
	}, r.ArrayOps)

	r = preview.Records[1]
	assert.Equal(t, "Gryphons", r.Identifier)
	assert.False(t, r.PageExists)
	assert.Empty(t, r.Frontmatter)
	assert.Empty(t, r.FieldsToDelete)
	assert.Empty(t, r.ArrayOps)

	assert.Equal(t, 2, preview.TotalRecords)
	assert.Equal(t, 0, preview.ErrorCount)
	assert.Equal(t, 1, preview.UpdateCount)
	assert.Equal(t, 1, preview.CreateCount)
}

func TestParsePreviewValidation(t *testing.T) {
	svc := newService(t)

	content := "title,rank\n" +
		",captain\n" +
		"Mara,first\n" +
		"Mara,second\n"

	preview, err := svc.ParsePreview(content)
	require.NoError(t, err)
	require.Len(t, preview.Records, 3)

	assert.Equal(t, []string{"title is required"}, preview.Records[0].ValidationErrors)
	assert.Empty(t, preview.Records[1].Warnings)
	assert.NotEmpty(t, preview.Records[2].Warnings, "duplicate title warns")
	assert.True(t, preview.Records[2].Valid(), "warnings do not invalidate")

	assert.Equal(t, 3, preview.TotalRecords)
	assert.Equal(t, 1, preview.ErrorCount)
	assert.Equal(t, 0, preview.UpdateCount)
	assert.Equal(t, 2, preview.CreateCount)
	assert.Len(t, preview.ValidRecords(), 2)
}

func TestParsePreviewTypedValues(t *testing.T) {
	svc := newService(t)

	preview, err := svc.ParsePreview("title,active,count,name\nHome,true,3,3rd Era\n")
	require.NoError(t, err)

	fm := preview.Records[0].Frontmatter
	assert.Equal(t, true, fm["active"])
	assert.Equal(t, float64(3), fm["count"])
	assert.Equal(t, "3rd Era", fm["name"])
}

func TestParsePreviewHeaderErrors(t *testing.T) {
	svc := newService(t)

	_, err := svc.ParsePreview("")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svc.ParsePreview("name,rank\nMara,captain\n")
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestParsePreviewRowErrorsAreNonFatal(t *testing.T) {
	svc := newService(t)

	content := "title,note\n" +
		"Mara,\"unterminated\n" // bad quoting fails the row, not the file

	preview, err := svc.ParsePreview(content)
	require.NoError(t, err)
	assert.NotEmpty(t, preview.ParsingErrors)
}

func TestParsePreviewCachesByContent(t *testing.T) {
	svc := newService(t)

	first, err := svc.ParsePreview("title\nMara\n")
	require.NoError(t, err)
	second, err := svc.ParsePreview("title\nMara\n")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
