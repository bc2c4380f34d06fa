package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/go-api-template/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "root",
			method:         http.MethodGet,
			target:         "/",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Welcome to Go API Template"}`,
		},
		{
			name:           "hello",
			method:         http.MethodGet,
			target:         "/hello?name=World",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Hello, World!"}`,
		},
		{
			name:           "sum",
			method:         http.MethodGet,
			target:         "/sum?a=40&b=2",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"sum":42}`,
		},
		{
			name:           "sum with repeated operand",
			method:         http.MethodGet,
			target:         "/sum?a=1&a=5&b=1",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"sum":6}`,
		},
		{
			name:           "sum list",
			method:         http.MethodPost,
			target:         "/sum-list",
			body:           `{"nums":[1,2,3,4]}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"sum":10}`,
		},
		{
			name:           "empty sum list",
			method:         http.MethodPost,
			target:         "/sum-list",
			body:           `{"nums":[]}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"sum":0}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `go_api_template_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestErrorResponsesCarryRequestID(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		requestID := w.Header().Get("X-Request-ID")
		require.NotEmpty(t, requestID)

		var body struct {
			Detail  map[string]any `json:"detail"`
			TraceID string         `json:"trace_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{"code": "RESOURCE_NOT_FOUND", "message": "Not Found"}, body.Detail)
		assert.Equal(t, requestID, body.TraceID)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sum", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Contains(t, w.Body.String(), `"detail":"Method Not Allowed"`)
	})

	t.Run("validation failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sum?a=1", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Validation failed", body["message"])
		assert.Equal(t, float64(422), body["status_code"])
	})

	t.Run("body over the size limit", func(t *testing.T) {
		payload := `{"nums":[` + strings.Repeat("1,", 1024) + `1]}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sum-list", strings.NewReader(payload)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestCORSPreflight(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/sum-list", nil)
	req.Header.Set("Origin", "https://client.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://client.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestLogEntries(t *testing.T) {
	app, logBuf := newTestApplication(t)
	router := app.setupRouter()

	for i := 0; i < 5; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sum?a=1&b=2", nil))
	}

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)

	incoming := make(map[any]int)
	sent := 0
	for i, entry := range entries {
		switch entry[logger.KeyMessage] {
		case "Incoming request":
			// Payload keys sit at the top level of the entry.
			assert.Equal(t, "/sum", entry["url.path"])
			assert.Equal(t, map[string]any{"a": "1", "b": "2"}, entry["url.query"])
			assert.Equal(t, "api.access", entry[logger.KeyLoggerName])
			incoming[entry["trace.id"]] = i
		case "Response sent":
			at, ok := incoming[entry["trace.id"]]
			require.True(t, ok)
			assert.Less(t, at, i)
			assert.Equal(t, float64(http.StatusOK), entry["http.response.status_code"])
			sent++
		case "Summing 1 and 2":
			_, ok := incoming[entry["trace.id"]]
			assert.True(t, ok, "handler entries carry the trace id of their request")
		}
	}
	assert.Len(t, incoming, 5)
	assert.Equal(t, 5, sent)
}
