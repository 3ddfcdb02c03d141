package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ysianalyzer/internal/config"
	apierrors "ysianalyzer/internal/errors"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/plates"
	"ysianalyzer/internal/shared/testutil"
)

var scenarioBio = testutil.CSV(testutil.InstrumentHeaders,
	testutil.Row("R24_A01", "Glucose", "1.0"),
	testutil.Row("R24_A01", "Glucose", "1.2"),
	testutil.Row("R24_A01", "Lactate", "0.5"),
	testutil.Row("R24_A01", "Lactate", "0.7"),
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Analysis.ScratchDir = t.TempDir()
	cfg.Telemetry.TraceExporter = "none"
	cfg.Telemetry.MetricExporter = "prometheus"
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()
	cfg := testConfig(t)
	if mutate != nil {
		mutate(cfg)
	}
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.OTelProviders.Shutdown(context.Background()) })
	return a
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func scenarioRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	body, contentType := testutil.MultipartBody(t,
		map[string]string{
			plates.FieldPlateCount:    "1",
			plates.SampleNameField(0): "Exp1",
			"plate-0-R24_A01":         "S1",
		},
		map[string]testutil.Upload{plates.BioFileField(0): {Filename: "bio.csv", Content: scenarioBio}},
	)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestNew_InvalidPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.ConcentrationPolicy = "sometimes"
	logger, _ := testutil.NewTestLogger(t)

	_, err := New(cfg, logger)
	assert.ErrorContains(t, err, "unknown concentration policy")
}

func TestRouter_Routes(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/", http.StatusOK, "Input for Plate 1"},
		{http.MethodGet, "/?plates=2", http.StatusOK, "Input for Plate 2"},
		{http.MethodGet, "/api/health", http.StatusOK, `"status":"ok"`},
		{http.MethodGet, "/api/health/live", http.StatusOK, `"status":"alive"`},
		{http.MethodGet, "/api/health/ready", http.StatusOK, `"status":"ready"`},
		{http.MethodGet, "/api/version", http.StatusOK, `"version"`},
		{http.MethodGet, "/api/v1/layout", http.StatusOK, `"R24_C08"`},
		{http.MethodGet, "/nowhere", http.StatusNotFound, apierrors.TypeNotFound},
		{http.MethodDelete, "/api/health", http.StatusMethodNotAllowed, apierrors.TypeMethod},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(a, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRouter_AnalysisEndToEnd(t *testing.T) {
	a := newTestApp(t, nil)

	rec := serve(a, scenarioRequest(t, "/api/v1/analysis"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Combined struct {
			Blocks []struct {
				Chemistry string   `json:"chemistry"`
				Mean      *float64 `json:"mean_concentration"`
				Std       *float64 `json:"std_concentration"`
				Well      string   `json:"well"`
			} `json:"blocks"`
		} `json:"combined"`
		Chart struct {
			Facets []struct {
				Chemistry string `json:"chemistry"`
			} `json:"facets"`
		} `json:"chart"`
		Empty bool `json:"empty"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	require.Len(t, result.Combined.Blocks, 2)
	assert.Equal(t, "Glucose", result.Combined.Blocks[0].Chemistry)
	require.NotNil(t, result.Combined.Blocks[0].Mean)
	assert.InDelta(t, 1.1, *result.Combined.Blocks[0].Mean, 1e-9)
	assert.InDelta(t, 0.141, *result.Combined.Blocks[0].Std, 1e-9)
	assert.Len(t, result.Chart.Facets, 2)
	assert.False(t, result.Empty)
}

func TestRouter_Downloads(t *testing.T) {
	a := newTestApp(t, nil)

	rec := serve(a, scenarioRequest(t, "/api/v1/export"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "PK", rec.Body.String()[:2])

	rec = serve(a, scenarioRequest(t, "/export"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), exporter.DefaultExportFilename)

	rec = serve(a, scenarioRequest(t, "/api/v1/analysis/summary.csv"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Glucose,1.100,0.141,Exp1,S1")
}

func TestRouter_ResultPage(t *testing.T) {
	a := newTestApp(t, nil)

	rec := serve(a, scenarioRequest(t, "/analyze"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "Lactate")
}

func TestRouter_Metrics(t *testing.T) {
	a := newTestApp(t, nil)

	serve(a, scenarioRequest(t, "/api/v1/analysis"))

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "ysi_runs_total")
	assert.Contains(t, body, "ysi_wells_summarized_total")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.Telemetry.MetricExporter = "none" })

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Security.RateLimit.Enabled = true
		cfg.Security.RateLimit.RPS = 0.001
		cfg.Security.RateLimit.Burst = 1
	})

	first := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	second := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	metrics := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metrics.Code, "scrapes bypass the rate limiter")
}

func TestApplication_StartStop(t *testing.T) {
	a := newTestApp(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx, cancel))

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/api/health", a.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	require.NoError(t, a.Stop(context.Background()))
	_, err = client.Get(fmt.Sprintf("http://%s/api/health", a.Addr()))
	assert.Error(t, err)
}
