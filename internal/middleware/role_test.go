package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleContext(role interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	return c, rec
}

func TestRequireRole(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	tests := []struct {
		name       string
		role       interface{}
		allowed    []string
		wantStatus int
	}{
		{name: "allowed role", role: "AGENT", allowed: []string{"AGENT", "ADMIN"}, wantStatus: http.StatusOK},
		{name: "second allowed role", role: "ADMIN", allowed: []string{"AGENT", "ADMIN"}, wantStatus: http.StatusOK},
		{name: "wrong role", role: "CUSTOMER", allowed: []string{"AGENT", "ADMIN"}, wantStatus: http.StatusForbidden},
		{name: "missing role", role: nil, allowed: []string{"CUSTOMER"}, wantStatus: http.StatusForbidden},
		{name: "non-string role", role: 7, allowed: []string{"CUSTOMER"}, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := roleContext(tt.role)
			err := RequireRole(tt.allowed...)(next)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "FORBIDDEN")
			}
		})
	}
}
