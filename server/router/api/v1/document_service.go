package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/store"
)

// Document is a stored document.
type Document struct {
	ID          string        `json:"id"`
	Reference   string        `json:"reference"`
	Timezone    string        `json:"timezone,omitempty"`
	CreatedTs   int64         `json:"created_ts"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

// Annotation is a stored annotation.
type Annotation struct {
	Seq        int    `json:"seq"`
	Text       string `json:"text"`
	TID        string `json:"tid,omitempty"`
	Type       string `json:"type,omitempty"`
	Value      string `json:"value,omitempty"`
	AltValue   string `json:"alt_value,omitempty"`
	Mod        string `json:"mod,omitempty"`
	Grounded   bool   `json:"grounded"`
	Expression string `json:"expression,omitempty"`
	Element    string `json:"element,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ListDocuments lists stored documents, most recent first.
// GET /api/v1/documents?limit=&offset=
func (s *APIV1Service) ListDocuments(c echo.Context) error {
	if err := s.requireStore(); err != nil {
		return s.respondError(c, err)
	}
	find := &store.FindDocument{}
	for param, dst := range map[string]**int{"limit": &find.Limit, "offset": &find.Offset} {
		if v := c.QueryParam(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return s.respondError(c, apierrors.InvalidArgument("invalid "+param, err))
			}
			*dst = &n
		}
	}
	docs, err := s.Store.ListDocuments(c.Request().Context(), find)
	if err != nil {
		return s.respondError(c, err)
	}
	out := make([]*Document, len(docs))
	for i, doc := range docs {
		out[i] = convertDocument(doc)
	}
	return c.JSON(http.StatusOK, out)
}

// GetDocument returns a document with its annotations.
// GET /api/v1/documents/:id
func (s *APIV1Service) GetDocument(c echo.Context) error {
	doc, err := s.getDocument(c)
	if err != nil {
		return s.respondError(c, err)
	}
	annotations, err := s.Store.ListAnnotations(c.Request().Context(), &store.FindAnnotation{DocumentID: &doc.ID})
	if err != nil {
		return s.respondError(c, err)
	}
	out := convertDocument(doc)
	for _, a := range annotations {
		out.Annotations = append(out.Annotations, convertAnnotation(a))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteDocument deletes a document and its annotations.
// DELETE /api/v1/documents/:id
func (s *APIV1Service) DeleteDocument(c echo.Context) error {
	doc, err := s.getDocument(c)
	if err != nil {
		return s.respondError(c, err)
	}
	if err := s.Store.DeleteDocument(c.Request().Context(), &store.DeleteDocument{ID: doc.ID}); err != nil {
		return s.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAnnotations lists the annotations of a document, optionally filtered
// by a CEL expression over the annotation, e.g.
// annotation.type == "DATE" && annotation.grounded.
// GET /api/v1/documents/:id/annotations?filter=
func (s *APIV1Service) ListAnnotations(c echo.Context) error {
	doc, err := s.getDocument(c)
	if err != nil {
		return s.respondError(c, err)
	}
	var filter *annotationFilter
	if expr := c.QueryParam("filter"); expr != "" {
		if filter, err = s.filters.compile(expr); err != nil {
			return s.respondError(c, err)
		}
	}
	annotations, err := s.Store.ListAnnotations(c.Request().Context(), &store.FindAnnotation{DocumentID: &doc.ID})
	if err != nil {
		return s.respondError(c, err)
	}
	out := make([]*Annotation, 0, len(annotations))
	for _, a := range annotations {
		converted := convertAnnotation(a)
		if filter != nil {
			ok, err := filter.match(converted)
			if err != nil {
				return s.respondError(c, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, converted)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *APIV1Service) getDocument(c echo.Context) (*store.Document, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	id := c.Param("id")
	doc, err := s.Store.GetDocument(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apierrors.NotFound("document not found: " + id)
	}
	return doc, nil
}

func convertDocument(doc *store.Document) *Document {
	return &Document{
		ID:        doc.ID,
		Reference: doc.Reference,
		Timezone:  doc.Timezone,
		CreatedTs: doc.CreatedTs,
	}
}

func convertAnnotation(a *store.Annotation) *Annotation {
	return &Annotation{
		Seq:        a.Seq,
		Text:       a.Text,
		TID:        a.TID,
		Type:       a.Type,
		Value:      a.Value,
		AltValue:   a.AltValue,
		Mod:        a.Mod,
		Grounded:   a.Grounded,
		Expression: a.Expression,
		Element:    a.Element,
		Error:      a.Error,
	}
}
