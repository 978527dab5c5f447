package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/swiftblocks/internal/config"
	"github.com/jonathan/swiftblocks/internal/export"
	"github.com/jonathan/swiftblocks/internal/server/ratelimit"
	"github.com/jonathan/swiftblocks/internal/store"
	"github.com/jonathan/swiftblocks/internal/transpile"
	"github.com/jonathan/swiftblocks/internal/xcodeproj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer wraps Server for handler tests.
type testServer struct {
	*Server
	t *testing.T
}

func newTestServer(t *testing.T, opts ...func(*Config)) *testServer {
	t.Helper()

	seq := 0
	svc, err := export.NewService(store.NewMemoryStore(),
		export.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("export-%d", seq)
		}),
		export.WithClock(func() time.Time {
			return time.Date(2024, 1, 1, 0, 0, seq, 0, time.UTC)
		}),
		export.WithProjectOptions(xcodeproj.WithIDSource(xcodeproj.SeededIDs(1))),
	)
	require.NoError(t, err)

	cfg := Config{
		Port:      0,
		Exports:   svc,
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return &testServer{Server: s, t: t}
}

func (ts *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestNew_RequiresExportService(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_Addr(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Port = 8080 })
	assert.Equal(t, ":8080", ts.Addr())
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeJSON(t, w)["status"])
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodOptions, "/exports", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestTranslateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/translate", `{"javascript":"const x = 1;"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, transpile.Header+"let x = 1", decodeJSON(t, w)["swift"])
}

func TestTranslateEndpoint_InvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/translate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeJSON(t, w)["error"], "Invalid request body")
}

func TestCreateExport_Swift(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/exports", `{"project_name":"Demo","swift":"Text(\"hi\")"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/exports/export-1", w.Header().Get("Location"))

	var rec store.Record
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	assert.Equal(t, "export-1", rec.ID)
	assert.Equal(t, "Demo", rec.ProjectName)
	assert.Equal(t, "Demo.zip", rec.FileName)
	assert.Equal(t, 13, rec.Entries)
	assert.Positive(t, rec.Size)
	assert.Len(t, rec.SHA256, 64)
}

func TestCreateExport_JavaScript(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/exports", `{"project_name":"Demo","javascript":"console.log('hi');"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodGet, "/exports/export-1/download", "")
	require.Equal(t, http.StatusOK, w.Code)

	tree, _, err := xcodeproj.ReadArchive(w.Body.Bytes())
	require.NoError(t, err)
	assert.Contains(t, tree["Demo/ContentView.swift"], `print("hi")`)
}

func TestCreateExport_SchemaViolation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing project name", `{"swift":"let x = 1"}`},
		{"unknown field", `{"project_name":"Demo","swift":"let x = 1","extra":true}`},
		{"wrong type", `{"project_name":42,"swift":"let x = 1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/exports", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeJSON(t, w)["fields"])
		})
	}
}

func TestCreateExport_InvalidRequest(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"both bodies", `{"project_name":"Demo","swift":"a","javascript":"b"}`},
		{"no body", `{"project_name":"Demo"}`},
		{"bad project name", `{"project_name":"My App","swift":"a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/exports", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeJSON(t, w)["fields"])
		})
	}
}

func TestCreateExport_EmptyBody(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/exports", `{"project_name":"Demo","swift":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateExport_MalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/exports", `{"project_name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetExport(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/exports", `{"project_name":"Demo","swift":"a"}`).Code)

	w := ts.do(http.MethodGet, "/exports/export-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Demo", decodeJSON(t, w)["project_name"])

	w = ts.do(http.MethodGet, "/exports/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "export not found: missing", decodeJSON(t, w)["error"])
}

func TestDownloadExport(t *testing.T) {
	ts := newTestServer(t)
	created := ts.do(http.MethodPost, "/exports", `{"project_name":"Demo","swift":"a"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var rec store.Record
	require.NoError(t, json.NewDecoder(created.Body).Decode(&rec))

	w := ts.do(http.MethodGet, "/exports/export-1/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Demo.zip"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, fmt.Sprint(rec.Size), w.Header().Get("Content-Length"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = ts.do(http.MethodGet, "/exports/missing/download", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListExports(t *testing.T) {
	ts := newTestServer(t)
	for _, name := range []string{"One", "Two", "Three"} {
		require.Equal(t, http.StatusCreated,
			ts.do(http.MethodPost, "/exports", fmt.Sprintf(`{"project_name":%q,"swift":"a"}`, name)).Code)
	}

	w := ts.do(http.MethodGet, "/exports", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		Exports []store.Record `json:"exports"`
		Count   int            `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	require.Equal(t, 3, all.Count)
	assert.Equal(t, "Three", all.Exports[0].ProjectName)
	assert.Equal(t, "One", all.Exports[2].ProjectName)

	w = ts.do(http.MethodGet, "/exports?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeJSON(t, w)["count"])
}

func TestListExports_InvalidLimit(t *testing.T) {
	ts := newTestServer(t)

	for _, limit := range []string{"abc", "0", "-3"} {
		w := ts.do(http.MethodGet, "/exports?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, limit)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/projects", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, ts.do(http.MethodDelete, "/exports/export-1", "").Code)
}

func withJWT(c *Config) {
	c.JWT = &config.JWTConfig{Secret: testSecret, ExpirationHours: 1}
}

func TestExports_RequireTokenWhenConfigured(t *testing.T) {
	ts := newTestServer(t, withJWT)

	w := ts.do(http.MethodGet, "/exports", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer realm="swiftblocks"`, w.Header().Get("WWW-Authenticate"))

	w = ts.do(http.MethodGet, "/exports", "", "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := ts.jwtService.GenerateToken("ci-runner")
	require.NoError(t, err)
	w = ts.do(http.MethodGet, "/exports", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicRoutes_IgnoreToken(t *testing.T) {
	ts := newTestServer(t, withJWT)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/translate", `{"javascript":"let a = 1;"}`).Code)
}

func TestRateLimit_Exceeded(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/translate", Method: http.MethodPost, Limit: 2, Window: time.Hour, Burst: 2},
			},
		}
	})

	for i := 0; i < 2; i++ {
		w := ts.do(http.MethodPost, "/translate", `{"javascript":"x"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := ts.do(http.MethodPost, "/translate", `{"javascript":"x"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	body := decodeJSON(t, w)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.EqualValues(t, 0, body["remaining"])

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "").Code)
}
