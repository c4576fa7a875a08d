package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
	"github.com/i474232898/solar-energy-estimator/internal/store"
	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

type stubWeather map[string]weather.Sample

func (s stubWeather) Weather(_ context.Context, lat, lon float64) (weather.Sample, error) {
	if v, ok := s[weather.NewCoordinate(lat, lon).Key()]; ok {
		return v, nil
	}
	return weather.FallbackSample, nil
}

type stubNames string

func (s stubNames) RegionName(context.Context, float64, float64) (string, error) {
	return string(s), nil
}

type testEnv struct {
	app      *fiber.App
	queryLog string
	snapshot string
}

func newTestEnv(t *testing.T, snapshotPath string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	regions := filepath.Join(dir, "regions.csv")
	require.NoError(t, os.WriteFile(regions, []byte(
		"region,latitude,longitude\nShillong,25.5788,91.8933\nJaisalmer,26.9157,70.9083\nKochi,9.9312,76.2673\n"), 0o644))

	if snapshotPath == "" {
		snapshotPath = filepath.Join(dir, "TOP_10_REGIONS.csv")
	}
	queryLog := filepath.Join(dir, "User_Query.csv")

	w := stubWeather{
		weather.NewCoordinate(25.5788, 91.8933).Key(): {TemperatureC: 17, CloudCoverPct: 85},
		weather.NewCoordinate(26.9157, 70.9083).Key(): {TemperatureC: 36, CloudCoverPct: 2},
		weather.NewCoordinate(9.9312, 76.2673).Key():  {TemperatureC: 29, CloudCoverPct: 60},
	}

	clock := func() time.Time { return time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC) }
	svc := estimate.NewService(estimate.Dependencies{
		Weather:  w,
		Names:    stubNames("Geocoded Town"),
		Regions:  store.NewCatalog(regions),
		Snapshot: store.NewSnapshot(snapshotPath),
		Queries:  store.NewQueryLog(queryLog),
		History:  store.NewRecentQueries(10, time.Hour, clock),
		Now:      clock,
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc, zap.NewNop().Sugar())

	return &testEnv{app: app, queryLog: queryLog, snapshot: snapshotPath}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Count(string(b), "\n")
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t, "")
	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `name="latitude"`)
	assert.NotContains(t, body, "Top regions")
}

func TestSubmitFormInvalidInput(t *testing.T) {
	cases := map[string]url.Values{
		"non-numeric":  {"latitude": {"north"}, "longitude": {"77.2"}},
		"missing lon":  {"latitude": {"28.6"}},
		"empty":        {},
		"out of range": {"latitude": {"91"}, "longitude": {"77.2"}},
		"bad lon":      {"latitude": {"28.6"}, "longitude": {"-181"}},
		"nan":          {"latitude": {"NaN"}, "longitude": {"1"}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, "")
			resp, body := env.do(t, formRequest("/", values))

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, invalidCoordinatesMessage)
			assert.NoFileExists(t, env.queryLog)
			assert.NoFileExists(t, env.snapshot)
		})
	}
}

func TestSubmitFormRendersEstimateAndRanking(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, formRequest("/", url.Values{
		"latitude":  {"0"},
		"longitude": {"0"},
		"region":    {"Null Island"},
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Estimate for Null Island")
	assert.Contains(t, body, "Top regions")
	assert.Contains(t, body, "Correlation")
	assert.Less(t, strings.Index(body, "Jaisalmer"), strings.Index(body, "Shillong"))

	_, _ = env.do(t, formRequest("/", url.Values{"latitude": {"12.97"}, "longitude": {"77.59"}}))
	assert.Equal(t, 3, countLines(t, env.queryLog))
	assert.Equal(t, 4, countLines(t, env.snapshot))
}

func TestEstimateAPI(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, jsonRequest("/api/v1/estimate", `{"latitude": 12.97, "longitude": 77.59}`))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var result estimate.QueryResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, "Geocoded Town", result.Estimate.Region)
	assert.Equal(t, 25.0, result.Estimate.Temperature)
	assert.Equal(t, 1367.0, result.Estimate.Intensity)
	require.Len(t, result.TopRegions, 3)
	assert.Equal(t, "Jaisalmer", result.TopRegions[0].Region)
	assert.Equal(t, "Kochi", result.TopRegions[1].Region)
	assert.Equal(t, "Shillong", result.TopRegions[2].Region)
	require.NotNil(t, result.Correlation)
	assert.Equal(t, estimate.CorrelationFields, result.Correlation.Fields)
}

func TestEstimateAPIFormBody(t *testing.T) {
	env := newTestEnv(t, "")
	resp, body := env.do(t, formRequest("/api/v1/estimate", url.Values{"latitude": {"10"}, "longitude": {"76"}, "region": {"Thrissur"}}))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"region":"Thrissur"`)
}

func TestEstimateAPIValidation(t *testing.T) {
	cases := map[string]string{
		"missing longitude": `{"latitude": 12.97}`,
		"string latitude":   `{"latitude": "x", "longitude": 1}`,
		"out of range":      `{"latitude": -90.5, "longitude": 1}`,
		"broken json":       `{"latitude":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, "")
			resp, respBody := env.do(t, jsonRequest("/api/v1/estimate", body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(respBody), &payload))
			assert.Equal(t, true, payload["error"])
			assert.Equal(t, invalidCoordinatesMessage, payload["message"])
			assert.NoFileExists(t, env.queryLog)
		})
	}
}

func TestTopRegionsAndRecentQueries(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/top-regions", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"topRegions":[]}`, body)

	_, _ = env.do(t, jsonRequest("/api/v1/estimate", `{"latitude": 1, "longitude": 2, "region": "First"}`))
	_, _ = env.do(t, jsonRequest("/api/v1/estimate", `{"latitude": 3, "longitude": 4, "region": "Second"}`))

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/top-regions", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var top struct {
		TopRegions []estimate.Estimate `json:"topRegions"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &top))
	assert.Len(t, top.TopRegions, 3)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/queries/recent", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recent struct {
		Queries []estimate.Estimate `json:"queries"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &recent))
	require.Len(t, recent.Queries, 2)
	assert.Equal(t, "Second", recent.Queries[0].Region)
}

func TestEstimateAPIPersistenceFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	env := newTestEnv(t, filepath.Join(blocker, "TOP_10_REGIONS.csv"))
	resp, _ := env.do(t, jsonRequest("/api/v1/estimate", `{"latitude": 1, "longitude": 2}`))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
