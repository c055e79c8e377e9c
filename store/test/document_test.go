package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/store"
)

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	doc, err := ts.SaveDocument(ctx, &store.Document{ID: "doc-1", Reference: "2023-06-14", Timezone: "UTC", CreatedTs: 100},
		[]*store.Annotation{
			{Seq: 0, Text: "next Friday", TID: "t1", Type: "DATE", Value: "2023-06-16", Expression: `{"op":"NEXT"}`},
			{Seq: 1, Text: "three days", TID: "t2", Type: "DURATION", Value: "P3D", Grounded: true},
			{Seq: 2, Text: "blue moon", Error: "unknown constant"},
		})
	require.NoError(t, err)
	assert.Equal(t, int64(100), doc.CreatedTs)

	_, err = ts.CreateDocument(ctx, &store.Document{ID: "doc-2", Reference: "2023-06-15", CreatedTs: 200})
	require.NoError(t, err)

	got, err := ts.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2023-06-14", got.Reference)

	missing, err := ts.GetDocument(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	docs, err := ts.ListDocuments(ctx, &store.FindDocument{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].ID, "most recent first")

	limit := 1
	docs, err = ts.ListDocuments(ctx, &store.FindDocument{Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docID := "doc-1"
	annotations, err := ts.ListAnnotations(ctx, &store.FindAnnotation{DocumentID: &docID})
	require.NoError(t, err)
	require.Len(t, annotations, 3)
	assert.Equal(t, "t1", annotations[0].TID)
	assert.Equal(t, `{"op":"NEXT"}`, annotations[0].Expression)
	assert.False(t, annotations[0].Grounded)
	assert.True(t, annotations[1].Grounded)
	assert.Equal(t, "unknown constant", annotations[2].Error)

	dateType := "DATE"
	annotations, err = ts.ListAnnotations(ctx, &store.FindAnnotation{Type: &dateType})
	require.NoError(t, err)
	assert.Len(t, annotations, 1)

	grounded := true
	annotations, err = ts.ListAnnotations(ctx, &store.FindAnnotation{Grounded: &grounded})
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, "P3D", annotations[0].Value)

	require.NoError(t, ts.DeleteDocument(ctx, &store.DeleteDocument{ID: "doc-1"}))
	got, err = ts.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	annotations, err = ts.ListAnnotations(ctx, &store.FindAnnotation{DocumentID: &docID})
	require.NoError(t, err)
	assert.Empty(t, annotations)
}

func TestSaveDocumentRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	_, err := ts.CreateDocument(ctx, &store.Document{ID: "dup", Reference: "2023-06-14"})
	require.NoError(t, err)
	_, err = ts.SaveDocument(ctx, &store.Document{ID: "dup", Reference: "2023-06-15"}, nil)
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	initialized, err := ts.GetDriver().IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
	require.NoError(t, ts.Migrate(ctx))
}
