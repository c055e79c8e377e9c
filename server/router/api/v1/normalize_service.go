package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/timenorm/plugin/normalizer"
	"github.com/hrygo/timenorm/plugin/timex"
	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/server/internal/observability"
	"github.com/hrygo/timenorm/server/internal/timeout"
	"github.com/hrygo/timenorm/store"
)

// NormalizeRequest is the body of POST /api/v1/normalize.
type NormalizeRequest struct {
	DocumentID string               `json:"document_id"`
	Reference  string               `json:"reference"`
	Timezone   string               `json:"timezone"`
	Mentions   []normalizer.Mention `json:"mentions"`
	// Persist stores the document and its annotations.
	Persist bool `json:"persist"`
}

// BatchNormalizeRequest is the body of POST /api/v1/normalize/batch.
type BatchNormalizeRequest struct {
	Documents []NormalizeRequest `json:"documents"`
	Persist   bool               `json:"persist"`
}

// BatchNormalizeResponse lists documents in request order.
type BatchNormalizeResponse struct {
	Documents []*normalizer.Document `json:"documents"`
}

// Normalize normalizes the mentions of one document.
// POST /api/v1/normalize
func (s *APIV1Service) Normalize(c echo.Context) error {
	var body NormalizeRequest
	if err := c.Bind(&body); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("invalid request body", err))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout.NormalizeTimeout)
	defer cancel()
	req, err := s.toRequest(&body)
	if err != nil {
		return s.respondError(c, err)
	}
	doc, err := s.Normalizer.Normalize(ctx, req)
	if err != nil {
		return s.respondError(c, err)
	}
	s.recordMentions(ctx, doc)
	if body.Persist {
		if err := s.persist(ctx, doc); err != nil {
			return s.respondError(c, err)
		}
	}
	return c.JSON(http.StatusOK, doc)
}

// NormalizeBatch normalizes several documents concurrently.
// POST /api/v1/normalize/batch
func (s *APIV1Service) NormalizeBatch(c echo.Context) error {
	var body BatchNormalizeRequest
	if err := c.Bind(&body); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("invalid request body", err))
	}
	if len(body.Documents) == 0 {
		return s.respondError(c, apierrors.InvalidArgument("no documents", nil))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout.BatchTimeout)
	defer cancel()
	reqs := make([]*normalizer.Request, len(body.Documents))
	for i := range body.Documents {
		req, err := s.toRequest(&body.Documents[i])
		if err != nil {
			return s.respondError(c, apierrors.InvalidArgument("invalid document", err).WithContext("index", i))
		}
		reqs[i] = req
	}
	docs, err := s.Normalizer.NormalizeBatch(ctx, reqs)
	if err != nil {
		return s.respondError(c, err)
	}
	for i, doc := range docs {
		s.recordMentions(ctx, doc)
		if body.Persist || body.Documents[i].Persist {
			if err := s.persist(ctx, doc); err != nil {
				return s.respondError(c, err)
			}
		}
	}
	return c.JSON(http.StatusOK, BatchNormalizeResponse{Documents: docs})
}

func (s *APIV1Service) toRequest(body *NormalizeRequest) (*normalizer.Request, error) {
	loc, name, err := s.location(body.Timezone)
	if err != nil {
		return nil, err
	}
	return &normalizer.Request{
		DocumentID: body.DocumentID,
		Reference:  body.Reference,
		Timezone:   name,
		Location:   loc,
		Mentions:   body.Mentions,
	}, nil
}

func (s *APIV1Service) recordMentions(ctx context.Context, doc *normalizer.Document) {
	failed := 0
	for _, a := range doc.Annotations {
		if a.Error != "" {
			failed++
		}
	}
	s.Metrics.RecordMentions(len(doc.Annotations), failed)
	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Debug(ctx, "document normalized",
			slog.String(observability.LogFieldDocumentID, doc.ID),
			slog.Int(observability.LogFieldMentions, len(doc.Annotations)),
			slog.Int("unresolved", failed),
		)
	}
}

func (s *APIV1Service) persist(ctx context.Context, doc *normalizer.Document) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	annotations := make([]*store.Annotation, len(doc.Annotations))
	for i, a := range doc.Annotations {
		annotations[i] = &store.Annotation{
			Seq:        i,
			Text:       a.Text,
			TID:        a.TID,
			Type:       a.Type,
			Value:      a.Value,
			AltValue:   a.Attributes[timex.AttrAltValue],
			Mod:        a.Attributes[timex.AttrMod],
			Grounded:   a.Grounded,
			Expression: string(a.Expression),
			Element:    a.Element,
			Error:      a.Error,
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout.StoreTimeout)
	defer cancel()
	_, err := s.Store.SaveDocument(ctx, &store.Document{
		ID:        doc.ID,
		Reference: doc.Reference,
		Timezone:  doc.Timezone,
	}, annotations)
	if err != nil {
		return apierrors.Internal("failed to save document", err)
	}
	return nil
}
