package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cycletrack/config"
	deliverycontext "cycletrack/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mw := NewRequestIDMiddleware(logger)

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "client-id")
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)

		err := mw.Process(func(c echo.Context) error {
			assert.Equal(t, "client-id", deliverycontext.GetRequestIDFromContext(c.Request().Context()))
			deliverycontext.GetLogger(c.Request().Context()).Info("inside")

			return nil
		})(c)

		require.NoError(t, err)
		assert.Equal(t, "client-id", rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Contains(t, buf.String(), `"request_id":"client-id"`)
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, mw.Process(func(echo.Context) error { return nil })(c))
		assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
	})
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc", want: "abc"},
		{header: "Basic dXNlcjpwYXNz", want: ""},
		{header: "Bearer", want: ""},
		{header: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			c := echo.New().NewContext(req, httptest.NewRecorder())

			var got string
			err := BearerToken(func(c echo.Context) error {
				got = deliverycontext.GetBearerToken(c)

				return nil
			})(c)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoggerMiddleware_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	mw := NewLoggerMiddleware(logger, &config.Config{})

	run := func(status int) {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api", nil), httptest.NewRecorder())
		deliverycontext.SetOperation(c, "signin")
		_ = mw.Handle(func(c echo.Context) error {
			return c.NoContent(status)
		})(c)
	}

	run(http.StatusOK)
	assert.Empty(t, buf.String(), "successful requests are debug level outside debug mode")

	run(http.StatusUnauthorized)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "signin", entry["operation"])
	assert.EqualValues(t, http.StatusUnauthorized, entry["status"])
}

func TestLoggerMiddleware_DebugMode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cfg := &config.Config{}
	cfg.Env.Debug = true
	mw := NewLoggerMiddleware(logger, cfg)

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())
	require.NoError(t, mw.Handle(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))

	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"uri":"/health"`)
}
