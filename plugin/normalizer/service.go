package normalizer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/timenorm/plugin/temporal"
	"github.com/hrygo/timenorm/plugin/timex"
)

// DefaultWorkers bounds NormalizeBatch when no worker count is configured.
const DefaultWorkers = 4

// ErrNoValue marks a mention whose expression denotes nothing.
var ErrNoValue = errors.New("expression has no value")

// Mention is one temporal expression of a document together with its
// source text.
type Mention struct {
	Text string `json:"text"`
	Expr *Expr  `json:"expr"`
	// Direction overrides the service default: past, future, closest or this.
	Direction string `json:"direction,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Request asks for the mentions of one document to be normalized.
type Request struct {
	// DocumentID is generated when empty.
	DocumentID string `json:"document_id,omitempty"`
	// Reference is the document date as an ISO literal. It defaults to the
	// current time.
	Reference string `json:"reference,omitempty"`
	// Timezone is the IANA name of Location, kept for the response.
	Timezone string         `json:"timezone,omitempty"`
	Location *time.Location `json:"-"`
	Mentions []Mention      `json:"mentions"`
}

// Annotation is the normalized form of one mention. Mentions that fail keep
// their text and carry the error.
type Annotation struct {
	Text       string            `json:"text"`
	TID        string            `json:"tid,omitempty"`
	Type       string            `json:"type,omitempty"`
	Value      string            `json:"value,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Element    string            `json:"element,omitempty"`
	Grounded   bool              `json:"grounded"`
	Expression json.RawMessage   `json:"expression,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Document is a normalized document.
type Document struct {
	ID          string        `json:"id"`
	Reference   string        `json:"reference"`
	Timezone    string        `json:"timezone,omitempty"`
	Annotations []*Annotation `json:"annotations"`
}

// Config configures a Service.
type Config struct {
	// Direction is the default resolution direction.
	Direction string
	MaxDepth  int
	Workers   int
	Logger    *slog.Logger
}

// Service normalizes documents. It is safe for concurrent use; every
// document gets a TimeIndex of its own.
type Service struct {
	resolver     temporal.Resolver
	defaultFlags int
	workers      int
	logger       *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a normalization service.
func NewService(cfg Config) (*Service, error) {
	flags, err := ParseDirection(cfg.Direction)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Service{
		resolver:     temporal.Resolver{MaxDepth: cfg.MaxDepth, Logger: logger},
		defaultFlags: flags,
		workers:      workers,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}, nil
}

// Normalize resolves every mention of req against its reference time.
func (s *Service) Normalize(ctx context.Context, req *Request) (*Document, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	ref, err := s.reference(req)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		ID:          req.DocumentID,
		Reference:   temporal.ISO(ref),
		Timezone:    req.Timezone,
		Annotations: make([]*Annotation, 0, len(req.Mentions)),
	}
	if doc.ID == "" {
		doc.ID = s.newID()
	}

	idx := timex.NewTimeIndex()
	for i := range req.Mentions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Annotations = append(doc.Annotations, s.annotate(idx, ref, &req.Mentions[i]))
	}

	s.logger.DebugContext(ctx, "document normalized",
		slog.String("document_id", doc.ID),
		slog.String("reference", doc.Reference),
		slog.Int("mentions", len(doc.Annotations)),
	)
	return doc, nil
}

// NormalizeBatch normalizes documents concurrently. Results are in request
// order. The first failing document cancels the rest.
func (s *Service) NormalizeBatch(ctx context.Context, reqs []*Request) ([]*Document, error) {
	docs := make([]*Document, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			doc, err := s.Normalize(gctx, req)
			if err != nil {
				return errors.Wrapf(err, "document %d", i)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// reference builds the reference time of a request.
func (s *Service) reference(req *Request) (temporal.Time, error) {
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	if req.Reference == "" {
		return temporal.NewGroundedTime(s.now().In(loc)), nil
	}
	ref, err := temporal.ParseDateTime(req.Reference)
	if err != nil {
		return nil, errors.Wrap(err, "reference time")
	}
	if loc != time.UTC {
		ref = ref.WithZone(loc)
	}
	return ref, nil
}

func (s *Service) annotate(idx *timex.TimeIndex, ref temporal.Time, m *Mention) *Annotation {
	a := &Annotation{Text: m.Text}
	if m.Expr != nil {
		if raw, err := json.Marshal(m.Expr); err == nil {
			a.Expression = raw
		}
	}
	expr, err := Build(m.Expr)
	if err != nil {
		a.Error = err.Error()
		return a
	}
	if expr == nil {
		a.Error = ErrNoValue.Error()
		return a
	}

	flags, err := ParseDirection(m.Direction)
	if err != nil {
		a.Error = err.Error()
		return a
	}
	if flags == 0 {
		flags = s.defaultFlags
	}
	if flags == 0 {
		flags = temporal.DetermineRelFlags(expr)
	}

	resolved, err := s.resolver.Resolve(expr, ref, flags)
	if err != nil {
		var ue *temporal.UnresolvedError
		if !errors.As(err, &ue) {
			a.Error = err.Error()
			return a
		}
		// keep the furthest form reached
		s.logger.Debug("expression left unresolved",
			slog.String("text", m.Text),
			slog.Int("depth", ue.Depth),
		)
		a.Error = err.Error()
	}
	if resolved == nil {
		a.Error = ErrNoValue.Error()
		return a
	}

	opts := timex.Options{Comment: m.Comment}
	if resolved != expr {
		opts.ResolvedFrom = expr
	}
	attrs, err := timex.Attributes(resolved, idx, opts)
	if err != nil {
		a.Error = err.Error()
		return a
	}
	a.Attributes = attrs
	a.TID = attrs[timex.AttrTID]
	a.Type = attrs[timex.AttrType]
	a.Value = attrs[timex.AttrValue]
	a.Element = timex.Element(attrs, m.Text)
	a.Grounded = temporal.IsDefinite(resolved)
	return a
}
