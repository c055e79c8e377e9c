package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/plugin/normalizer"
	"github.com/hrygo/timenorm/plugin/temporal"
	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/server/internal/observability"
	"github.com/hrygo/timenorm/server/stats"
	ratelimit "github.com/hrygo/timenorm/server/middleware"
	"github.com/hrygo/timenorm/server/timezone"
	"github.com/hrygo/timenorm/store"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

type APIV1Service struct {
	Profile    *profile.Profile
	Store      *store.Store
	Normalizer *normalizer.Service
	Metrics    *observability.Metrics
	// Stats is nil without a store.
	Stats  *stats.Collector
	Logger *slog.Logger

	filters *filterEnv
}

// NewAPIV1Service creates the API service. A nil store disables the document
// endpoints and persistence.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, normalizer *normalizer.Service) (*APIV1Service, error) {
	filters, err := newFilterEnv()
	if err != nil {
		return nil, err
	}
	return &APIV1Service{
		Profile:    profile,
		Store:      store,
		Normalizer: normalizer,
		Metrics:    observability.NewMetrics(),
		Stats:      newCollector(store),
		Logger:     slog.Default(),
		filters:    filters,
	}, nil
}

// RegisterRoutes registers the API under /api/v1.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")
	g.Use(middleware.CORS())
	g.Use(s.requestContextMiddleware)
	if s.Profile != nil && s.Profile.RateLimit > 0 {
		g.Use(ratelimit.NewRateLimiter(s.Profile.RateLimit, s.Profile.RateBurst).Middleware())
	}

	g.POST("/normalize", s.Normalize)
	g.POST("/normalize/batch", s.NormalizeBatch)
	g.GET("/documents", s.ListDocuments)
	g.GET("/documents/:id", s.GetDocument)
	g.DELETE("/documents/:id", s.DeleteDocument)
	g.GET("/documents/:id/annotations", s.ListAnnotations)
	g.POST("/expand", s.Expand)
	g.GET("/constants", s.ListConstants)
	g.GET("/system/metrics/overview", s.GetMetricsOverview)
	g.GET("/system/stats", s.GetStats)
}

// requestContextMiddleware attaches a RequestContext, echoes the request id
// and records the request in the metrics.
func (s *APIV1Service) requestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var reqCtx *observability.RequestContext
		if id := req.Header.Get(HeaderRequestID); id != "" {
			reqCtx = observability.NewRequestContextWithID(s.Logger, id, c.Path())
		} else {
			reqCtx = observability.NewRequestContext(s.Logger, c.Path())
		}
		c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))
		c.Response().Header().Set(HeaderRequestID, reqCtx.RequestID)

		err := next(c)
		if err != nil {
			c.Error(err)
		}
		status := c.Response().Status
		s.Metrics.RecordRequest(c.Path(), reqCtx.Duration(), status >= http.StatusBadRequest)
		reqCtx.Debug(req.Context(), "request completed",
			slog.Int(observability.LogFieldStatus, status),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		)
		return nil
	}
}

// respondError writes err as a coded JSON error.
func (s *APIV1Service) respondError(c echo.Context, err error) error {
	apiErr := toAPIError(err)
	if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
		level := slog.LevelWarn
		if apiErr.Code == apierrors.ErrCodeInternal {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String(observability.LogFieldRequestID, reqCtx.RequestID),
			slog.String(observability.LogFieldErrorCode, string(apiErr.Code)),
			slog.String("error", apiErr.Error()),
		}
		if len(apiErr.Context) > 0 {
			attrs = append(attrs, slog.Any("context", apiErr.Context))
		}
		reqCtx.Logger.LogAttrs(c.Request().Context(), level, "request failed", attrs...)
	}
	return c.JSON(apiErr.HTTPStatus(), ErrorResponse{Code: string(apiErr.Code), Message: apiErr.Error()})
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toAPIError(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, normalizer.ErrMalformedExpr),
		errors.Is(err, temporal.ErrMalformedLiteral),
		errors.Is(err, temporal.ErrUnsupportedOperation),
		errors.Is(err, temporal.ErrOperatorMisuse):
		return apierrors.InvalidArgument("invalid request", err)
	default:
		return apierrors.Wrap(err, apierrors.ErrCodeInternal, "internal error")
	}
}

// location resolves a request time zone, defaulting to the profile's.
func (s *APIV1Service) location(name string) (*time.Location, string, error) {
	if name == "" && s.Profile != nil {
		name = s.Profile.DefaultTimezone
	}
	loc, err := timezone.ParseTimezone(name)
	if err != nil {
		return nil, "", apierrors.InvalidArgument("invalid timezone", err)
	}
	return loc, loc.String(), nil
}

func (s *APIV1Service) requireStore() error {
	if s.Store == nil {
		return apierrors.ServiceUnavailable("document storage is not configured")
	}
	return nil
}
