package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Document model related methods.
	CreateDocument(ctx context.Context, create *Document) (*Document, error)
	ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error)
	DeleteDocument(ctx context.Context, delete *DeleteDocument) error

	// Annotation model related methods.
	CreateAnnotation(ctx context.Context, create *Annotation) (*Annotation, error)
	ListAnnotations(ctx context.Context, find *FindAnnotation) ([]*Annotation, error)
}
