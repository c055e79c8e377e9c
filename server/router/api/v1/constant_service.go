package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/timenorm/plugin/temporal"
)

// Constant is a named temporal value usable in {"const": NAME} expressions.
type Constant struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ListConstants lists the named constants in name order.
// GET /api/v1/constants?prefix=
func (s *APIV1Service) ListConstants(c echo.Context) error {
	prefix := strings.ToUpper(c.QueryParam("prefix"))
	out := []*Constant{}
	for _, name := range temporal.Constants() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		t, _ := temporal.Constant(name)
		out = append(out, &Constant{
			Name:  name,
			Type:  string(t.TimexType()),
			Value: temporal.TimexValue(t),
		})
	}
	return c.JSON(http.StatusOK, out)
}
