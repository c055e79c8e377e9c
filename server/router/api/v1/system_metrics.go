package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/server/internal/observability"
)

// MetricsOverviewResponse represents the overview response of system metrics.
type MetricsOverviewResponse struct {
	TotalRequests     int64                                 `json:"total_requests"`
	SuccessRate       float64                               `json:"success_rate"`
	ErrorCount        int64                                 `json:"error_count"`
	MentionTotal      int64                                 `json:"mention_total"`
	MentionUnresolved int64                                 `json:"mention_unresolved"`
	Routes            []*observability.RouteMetricsSnapshot `json:"routes"`
	TimeRange         string                                `json:"time_range"`
	Since             time.Time                             `json:"since"`
}

// GetMetricsOverview returns the counters collected since the server started.
// The range parameter is validated and echoed; counters are not windowed.
// GET /api/v1/system/metrics/overview
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	timeRange := c.QueryParam("range")
	if timeRange == "" {
		timeRange = "24h"
	}
	since, err := parseTimeRange(timeRange, time.Now())
	if err != nil {
		return s.respondError(c, apierrors.InvalidArgument("invalid time range", err))
	}

	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsOverviewResponse{
		TotalRequests:     snapshot.RequestTotal,
		SuccessRate:       snapshot.SuccessRate(),
		ErrorCount:        snapshot.RequestFailed,
		MentionTotal:      snapshot.MentionTotal,
		MentionUnresolved: snapshot.MentionUnresolved,
		Routes:            snapshot.Routes,
		TimeRange:         timeRange,
		Since:             since,
	})
}

// parseTimeRange parses a time range string and returns its start.
func parseTimeRange(timeRange string, now time.Time) (time.Time, error) {
	switch timeRange {
	case "1h":
		return now.Add(-1 * time.Hour), nil
	case "24h":
		return now.Add(-24 * time.Hour), nil
	case "7d":
		return now.Add(-7 * 24 * time.Hour), nil
	case "30d":
		return now.Add(-30 * 24 * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("invalid time range: %s (valid: 1h, 24h, 7d, 30d)", timeRange)
	}
}
