package store

import (
	"context"
)

// Annotation is one TIMEX3 annotation of a document.
type Annotation struct {
	ID         int32
	DocumentID string
	CreatedTs  int64

	// Position of the mention in its document.
	Seq  int
	Text string
	TID  string
	Type string
	// Value is the TIMEX3 value attribute.
	Value    string
	AltValue string
	Mod      string
	Grounded bool
	// Expression is the construction tree as JSON.
	Expression string
	// Element is the rendered TIMEX3 element.
	Element string
	Error   string
}

// FindAnnotation is the find condition for annotations.
type FindAnnotation struct {
	DocumentID *string
	Type       *string
	Grounded   *bool
}

// CreateAnnotation creates an annotation.
func (s *Store) CreateAnnotation(ctx context.Context, create *Annotation) (*Annotation, error) {
	return s.driver.CreateAnnotation(ctx, create)
}

// ListAnnotations lists annotations in document order.
func (s *Store) ListAnnotations(ctx context.Context, find *FindAnnotation) ([]*Annotation, error) {
	return s.driver.ListAnnotations(ctx, find)
}
