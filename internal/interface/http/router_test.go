package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ziwei-api/internal/domain/chart"
	"github.com/yanqian/ziwei-api/internal/infra/config"
	apperrors "github.com/yanqian/ziwei-api/pkg/errors"
	"github.com/yanqian/ziwei-api/pkg/metrics"
)

func TestRouter_ComputeChartSuccess(t *testing.T) {
	resp := chart.Response{
		Status:    "success",
		Data:      chart.NormalizedChart{Palaces: make([]chart.Palace, 12), DecadePeriods: []chart.DecadePeriod{}},
		ViewerURL: "https://viewer.example/?d=1990-05-20&h=13&g=male&type=ziwei",
	}
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			require.Equal(t, "1990-05-20", req.Date)
			require.NotNil(t, req.Hour)
			require.Equal(t, 13, *req.Hour)
			return resp, nil
		},
	}

	recorder := performRequest("/api/v1/charts", `{"date":"1990-05-20","hour":13,"gender":"M"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got chart.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "success", got.Status)
	require.Len(t, got.Data.Palaces, 12)
	require.Equal(t, resp.ViewerURL, got.ViewerURL)
}

// The success envelope carries only status, data, and viewerUrl. Per-request
// fields like timing or cache source would make repeat requests within the
// TTL window differ byte-for-byte; counters live on /healthz instead.
func TestRouter_SuccessEnvelopeShape(t *testing.T) {
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			return chart.Response{
				Status:    "success",
				Data:      chart.NormalizedChart{Palaces: []chart.Palace{}, DecadePeriods: []chart.DecadePeriod{}},
				ViewerURL: "https://viewer.example/?d=1990-05-20&h=13&g=male&type=ziwei",
			}, nil
		},
	}

	recorder := performRequest("/api/v1/charts", `{"date":"1990-05-20","hour":13,"gender":"M"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &fields))
	require.Len(t, fields, 3)
	require.Contains(t, fields, "status")
	require.Contains(t, fields, "data")
	require.Contains(t, fields, "viewerUrl")
}

func TestRouter_ComputeChartInvalidGender(t *testing.T) {
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			return chart.Response{}, apperrors.Wrap(chart.CodeInvalidGender, `gender "X" is not recognized, expected male or female`, nil)
		},
	}

	recorder := performRequest("/api/v1/charts", `{"date":"1990-05-20","hour":13,"gender":"X"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "error", body["status"])
	require.Equal(t, chart.CodeInvalidGender, body["code"])
	require.NotEmpty(t, body["message"])
}

func TestRouter_ComputeChartEngineRejectsDate(t *testing.T) {
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			return chart.Response{}, apperrors.Wrap(chart.CodeDateInvalid, "engine rejected birth date 2023-02-30", nil)
		},
	}

	recorder := performRequest("/api/v1/charts", `{"date":"2023-02-30","hour":10,"gender":"M"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "error", body["status"])
	require.Equal(t, chart.CodeDateInvalid, body["code"])
}

func TestRouter_ComputeChartInternalError(t *testing.T) {
	svc := &stubChartService{
		computeFn: func(ctx context.Context, req chart.Request) (chart.Response, error) {
			return chart.Response{}, apperrors.Wrap(chart.CodeInternal, "chart computation failed", nil)
		},
	}

	recorder := performRequest("/api/v1/charts", `{"date":"1990-05-20","hour":10,"gender":"M"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "error", body["status"])
	require.Equal(t, chart.CodeInternal, body["code"])
}

func TestRouter_ComputeChartMalformedBody(t *testing.T) {
	svc := &stubChartService{}

	recorder := performRequest("/api/v1/charts", `{"date":`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "error", body["status"])
	require.Equal(t, "INVALID_REQUEST", body["code"])
}

func TestRouter_Health(t *testing.T) {
	server := newRouterUnderTest(t, &stubChartService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Contains(t, rec.Body.String(), `"cacheHits"`)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	server := newRouterUnderTest(t, &stubChartService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func performRequest(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc chart.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, metrics.NewCounters(), newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubChartService struct {
	computeFn func(ctx context.Context, req chart.Request) (chart.Response, error)
}

func (s *stubChartService) Compute(ctx context.Context, req chart.Request) (chart.Response, error) {
	if s.computeFn != nil {
		return s.computeFn(ctx, req)
	}
	return chart.Response{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
