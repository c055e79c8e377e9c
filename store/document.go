package store

import (
	"context"

	"github.com/pkg/errors"
)

// Document is a normalized document: the reference time its mentions were
// resolved against.
type Document struct {
	ID        string
	Reference string
	Timezone  string
	CreatedTs int64
}

// FindDocument is the find condition for documents.
type FindDocument struct {
	ID *string

	// Pagination
	Limit  *int
	Offset *int
}

// DeleteDocument is the delete request for a document and its annotations.
type DeleteDocument struct {
	ID string
}

// CreateDocument creates a document.
func (s *Store) CreateDocument(ctx context.Context, create *Document) (*Document, error) {
	doc, err := s.driver.CreateDocument(ctx, create)
	if err != nil {
		return nil, err
	}
	s.documentCache.Set(doc.ID, doc)
	return doc, nil
}

// SaveDocument stores a document together with its annotations. A failed
// annotation removes the document again.
func (s *Store) SaveDocument(ctx context.Context, doc *Document, annotations []*Annotation) (*Document, error) {
	doc, err := s.CreateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	for _, a := range annotations {
		a.DocumentID = doc.ID
		if _, err := s.driver.CreateAnnotation(ctx, a); err != nil {
			if derr := s.DeleteDocument(ctx, &DeleteDocument{ID: doc.ID}); derr != nil {
				return nil, errors.Wrapf(err, "failed to roll back document %s: %v", doc.ID, derr)
			}
			return nil, err
		}
	}
	return doc, nil
}

// ListDocuments lists documents, most recent first.
func (s *Store) ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error) {
	return s.driver.ListDocuments(ctx, find)
}

// GetDocument gets a document by id. It returns nil when there is none.
func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	if doc, ok := s.documentCache.Get(id); ok {
		return doc, nil
	}
	list, err := s.driver.ListDocuments(ctx, &FindDocument{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	s.documentCache.Set(id, list[0])
	return list[0], nil
}

// DeleteDocument deletes a document and its annotations.
func (s *Store) DeleteDocument(ctx context.Context, delete *DeleteDocument) error {
	s.documentCache.Delete(delete.ID)
	return s.driver.DeleteDocument(ctx, delete)
}
