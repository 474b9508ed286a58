package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(path string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    uint64
		wantErr bool
	}{
		{name: "uint64", value: uint64(7), want: 7},
		{name: "float64 from jwt claims", value: float64(42), want: 42},
		{name: "int", value: 3, want: 3},
		{name: "numeric string", value: "19", want: 19},
		{name: "garbage string", value: "abc", wantErr: true},
		{name: "missing", value: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext("/")
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, err := getUserID(c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	c := testContext("/")
	c.SetParamNames("id")
	c.SetParamValues("15")
	id, ok := parseIDParam(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint64(15), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		c.SetParamValues(bad)
		_, ok := parseIDParam(c, "id")
		assert.False(t, ok, "value %q", bad)
	}
}

func TestParseDate(t *testing.T) {
	d, ok := parseDate("2026-09-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"15-09-2026", "2026/09/15", "2026-13-01", "yesterday", ""} {
		_, ok := parseDate(bad)
		assert.False(t, ok, "value %q", bad)
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, jsonError(c, http.StatusBadRequest, CodeInsufficientCapacity, "insufficient capacity"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"code":"INSUFFICIENT_CAPACITY","error":"insufficient capacity"}`, rec.Body.String())
}
