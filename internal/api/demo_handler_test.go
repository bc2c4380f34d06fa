package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/phrazzld/go-api-template/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDemoHandler(t *testing.T) (*DemoHandler, *logger.TestLogBuffer) {
	t.Helper()
	reg, logBuf := logger.NewTestRegistry(t)
	return NewDemoHandler(reg.Get("api.demo"), NewValidationErrorHandler(reg.Get("api.validation"))), logBuf
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) ValidationErrorResponse {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgValidationFailed, body.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, body.StatusCode)
	return body
}

func TestRoot(t *testing.T) {
	h, _ := newTestDemoHandler(t)

	w := httptest.NewRecorder()
	h.Root(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to Go API Template"}`, w.Body.String())
}

func TestHello(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected string
	}{
		{name: "plain name", target: "/hello?name=Ada", expected: "Hello, Ada!"},
		{name: "empty name", target: "/hello?name=", expected: "Hello, !"},
		{name: "escaped characters", target: "/hello?name=%3Cb%3E%26", expected: "Hello, <b>&!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, logBuf := newTestDemoHandler(t)

			w := httptest.NewRecorder()
			h.Hello(w, httptest.NewRequest(http.MethodGet, tc.target, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body MessageResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.expected, body.Message)

			entries, err := logBuf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.True(t, strings.HasPrefix(entries[0][logger.KeyMessage].(string), "Received input: "))
			assert.Equal(t, "api.demo", entries[0][logger.KeyLoggerName])
		})
	}

	t.Run("missing name", func(t *testing.T) {
		h, _ := newTestDemoHandler(t)

		w := httptest.NewRecorder()
		h.Hello(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

		body := decodeValidation(t, w)
		require.Len(t, body.Detail, 1)
		assert.Equal(t, "missing", body.Detail[0].Type)
		assert.Equal(t, []any{"query", "name"}, body.Detail[0].Loc)
	})
}

func TestSum(t *testing.T) {
	t.Run("valid operands", func(t *testing.T) {
		h, logBuf := newTestDemoHandler(t)

		w := httptest.NewRecorder()
		h.Sum(w, httptest.NewRequest(http.MethodGet, "/sum?a=2&b=-5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sum":-3}`, w.Body.String())
		logger.AssertLogContains(t, logBuf, "Summing 2 and -5")
	})

	t.Run("missing operand", func(t *testing.T) {
		h, _ := newTestDemoHandler(t)

		w := httptest.NewRecorder()
		h.Sum(w, httptest.NewRequest(http.MethodGet, "/sum?a=1", nil))

		body := decodeValidation(t, w)
		require.Len(t, body.Detail, 1)
		assert.Equal(t, "missing", body.Detail[0].Type)
		assert.Equal(t, []any{"query", "b"}, body.Detail[0].Loc)
	})

	t.Run("all problems reported together", func(t *testing.T) {
		h, _ := newTestDemoHandler(t)

		w := httptest.NewRecorder()
		h.Sum(w, httptest.NewRequest(http.MethodGet, "/sum?a=x", nil))

		body := decodeValidation(t, w)
		require.Len(t, body.Detail, 2)
		assert.Equal(t, "int_parsing", body.Detail[0].Type)
		assert.Equal(t, "x", body.Detail[0].Input)
		assert.Equal(t, "missing", body.Detail[1].Type)
	})
}

func TestSumProperty(t *testing.T) {
	h, _ := newTestDemoHandler(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("GET /sum returns a+b", prop.ForAll(
		func(a, b int64) bool {
			w := httptest.NewRecorder()
			h.Sum(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/sum?a=%d&b=%d", a, b), nil))
			if w.Code != http.StatusOK {
				return false
			}
			var body SumResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				return false
			}
			return body.Sum == a+b
		},
		gen.Int64Range(-1<<40, 1<<40), gen.Int64Range(-1<<40, 1<<40),
	))

	properties.Property("POST /sum-list returns the sum of nums", prop.ForAll(
		func(nums []int64) bool {
			if nums == nil {
				nums = []int64{}
			}
			payload, err := json.Marshal(map[string][]int64{"nums": nums})
			if err != nil {
				return false
			}
			w := httptest.NewRecorder()
			h.SumList(w, httptest.NewRequest(http.MethodPost, "/sum-list", strings.NewReader(string(payload))))
			if w.Code != http.StatusOK {
				return false
			}
			var body SumResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				return false
			}
			var expected int64
			for _, n := range nums {
				expected += n
			}
			return body.Sum == expected
		},
		gen.SliceOf(gen.Int64Range(-1<<40, 1<<40)),
	))

	properties.TestingRun(t)
}

func TestSumList(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int64
	}{
		{name: "integers", body: `{"nums": [1, 2, 3]}`, expected: 6},
		{name: "empty list", body: `{"nums": []}`, expected: 0},
		{name: "coerced items", body: `{"nums": [1, "2", 3.0]}`, expected: 6},
		{name: "unknown fields are ignored", body: `{"nums": [4], "extra": true}`, expected: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestDemoHandler(t)

			w := httptest.NewRecorder()
			h.SumList(w, httptest.NewRequest(http.MethodPost, "/sum-list", strings.NewReader(tc.body)))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var body SumResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.expected, body.Sum)
		})
	}
}

func TestSumListValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		errType string
		loc     []any
	}{
		{name: "empty body", body: ``, errType: "missing", loc: []any{"body"}},
		{name: "missing nums", body: `{}`, errType: "missing", loc: []any{"body", "nums"}},
		{name: "null body", body: `null`, errType: "missing", loc: []any{"body", "nums"}},
		{name: "nums not a list", body: `{"nums": 3}`, errType: "list_type", loc: []any{"body", "nums"}},
		{name: "nums is null", body: `{"nums": null}`, errType: "list_type", loc: []any{"body", "nums"}},
		{name: "trailing data", body: `{"nums": [1, 2]} garbage`, errType: "json_invalid", loc: []any{"body", float64(16)}},
		{name: "body not an object", body: `[1, 2]`, errType: "model_attributes_type", loc: []any{"body"}},
		{name: "word item", body: `{"nums": [1, "two"]}`, errType: "int_parsing", loc: []any{"body", "nums", float64(1)}},
		{name: "fractional item", body: `{"nums": [1.5]}`, errType: "int_from_float", loc: []any{"body", "nums", float64(0)}},
		{name: "null item", body: `{"nums": [null]}`, errType: "int_type", loc: []any{"body", "nums", float64(0)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, logBuf := newTestDemoHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/sum-list", strings.NewReader(tc.body))
			req.Header.Set("X-Forwarded-For", "198.51.100.2")
			w := httptest.NewRecorder()
			h.SumList(w, req)

			body := decodeValidation(t, w)
			require.Len(t, body.Detail, 1)
			assert.Equal(t, tc.errType, body.Detail[0].Type)
			assert.Equal(t, tc.loc, body.Detail[0].Loc)

			warnings := logBuf.EntriesWithMessage(t, "Validation failed for POST /sum-list from 198.51.100.2")
			require.Len(t, warnings, 1)
			assert.Equal(t, "warn", warnings[0][logger.KeyLevel])
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		h, _ := newTestDemoHandler(t)

		w := httptest.NewRecorder()
		h.SumList(w, httptest.NewRequest(http.MethodPost, "/sum-list", strings.NewReader(`{"nums": [1,}`)))

		body := decodeValidation(t, w)
		require.Len(t, body.Detail, 1)
		assert.Equal(t, "json_invalid", body.Detail[0].Type)
		assert.Equal(t, "body", body.Detail[0].Loc[0])
	})
}

func TestSumListTooLarge(t *testing.T) {
	h, _ := newTestDemoHandler(t)

	payload := `{"nums": [` + strings.Repeat("1,", 100) + `1]}`
	req := httptest.NewRequest(http.MethodPost, "/sum-list", strings.NewReader(payload))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 16)

	h.SumList(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"detail":"Request body too large"}`, w.Body.String())
}
