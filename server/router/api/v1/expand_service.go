package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/timenorm/plugin/normalizer"
	"github.com/hrygo/timenorm/plugin/temporal"
	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/server/scheduler/rrule"
)

const (
	defaultMaxOccurrences = 100
	maxOccurrencesLimit   = 1000
)

// ExpandRequest is the body of POST /api/v1/expand.
type ExpandRequest struct {
	Expr     *normalizer.Expr `json:"expr"`
	From     string           `json:"from"`
	Until    string           `json:"until"`
	Timezone string           `json:"timezone"`
	Max      int              `json:"max"`
}

// ExpandResponse carries the recurrence rule of a set and, when it has a
// start, its occurrences.
type ExpandResponse struct {
	RRule       string      `json:"rrule"`
	Occurrences []time.Time `json:"occurrences"`
}

// Expand renders a recurring set as an RRULE and lists its occurrences.
// POST /api/v1/expand
func (s *APIV1Service) Expand(c echo.Context) error {
	var body ExpandRequest
	if err := c.Bind(&body); err != nil {
		return s.respondError(c, apierrors.InvalidArgument("invalid request body", err))
	}
	loc, _, err := s.location(body.Timezone)
	if err != nil {
		return s.respondError(c, err)
	}
	limit := body.Max
	if limit <= 0 {
		limit = defaultMaxOccurrences
	}
	if limit > maxOccurrencesLimit {
		return s.respondError(c, apierrors.InvalidArgument("max exceeds limit", nil).WithContext("limit", maxOccurrencesLimit))
	}

	t, err := normalizer.Build(body.Expr)
	if err != nil {
		return s.respondError(c, err)
	}
	set, ok := t.(*temporal.PeriodicTemporalSet)
	if !ok {
		return s.respondError(c, apierrors.InvalidArgument("expression is not a recurring set", nil))
	}
	set, err = rrule.Bound(set, body.From, body.Until)
	if err != nil {
		return s.respondError(c, err)
	}
	rule, err := rrule.FromSet(set)
	if err != nil {
		return s.respondError(c, apierrors.InvalidArgument("set has no recurrence rule", err))
	}

	resp := ExpandResponse{RRule: rule.String(), Occurrences: []time.Time{}}
	if body.From != "" {
		occurrences, err := rrule.Expand(set, loc, limit)
		if err != nil {
			return s.respondError(c, apierrors.InvalidArgument("failed to expand set", err))
		}
		resp.Occurrences = append(resp.Occurrences, occurrences...)
	}
	return c.JSON(http.StatusOK, resp)
}
