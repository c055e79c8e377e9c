package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/server/stats"
	"github.com/hrygo/timenorm/store"
)

func newCollector(st *store.Store) *stats.Collector {
	if st == nil {
		return nil
	}
	return stats.NewCollector(st, 0)
}

// GetStats returns statistics over the stored annotations.
// GET /api/v1/system/stats?refresh=true
func (s *APIV1Service) GetStats(c echo.Context) error {
	if s.Stats == nil {
		return s.respondError(c, apierrors.ServiceUnavailable("document storage is not configured"))
	}
	if c.QueryParam("refresh") == "true" {
		if err := s.Stats.Refresh(c.Request().Context()); err != nil {
			return s.respondError(c, apierrors.Internal("failed to collect stats", err))
		}
	}
	return c.JSON(http.StatusOK, s.Stats.GetStats())
}
