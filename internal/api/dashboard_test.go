package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/dennisdiepolder/hopwhistle/pkg/client"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type fakeBackend struct {
	callFilter   client.CallFilter
	seriesFilter client.TimeSeriesFilter
	err          error
}

func (f *fakeBackend) ListCalls(ctx context.Context, filter client.CallFilter) (*types.CallList, error) {
	f.callFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &types.CallList{Items: []types.Call{{ID: "c1"}}, Total: 1, Page: 1, PageSize: 25, TotalPages: 1}, nil
}

func (f *fakeBackend) GetCall(ctx context.Context, callID string) (*types.Call, error) {
	if callID != "c1" {
		return nil, &client.APIError{Message: "Call not found", StatusCode: http.StatusNotFound}
	}
	return &types.Call{ID: callID}, nil
}

func (f *fakeBackend) GetCallTranscript(ctx context.Context, callID string) (*types.Transcript, error) {
	return &types.Transcript{CallID: callID, Language: "en", Text: "hello", WordsJSON: json.RawMessage(`[]`)}, f.err
}

func (f *fakeBackend) GetCallSummary(ctx context.Context, callID string) (*types.CallSummary, error) {
	return &types.CallSummary{CallID: callID, Summary: "short"}, f.err
}

func (f *fakeBackend) GetMetricsSummary(ctx context.Context, filter client.MetricsFilter) (*types.MetricsSummary, error) {
	return &types.MetricsSummary{TotalCalls: 4}, f.err
}

func (f *fakeBackend) GetTimeSeries(ctx context.Context, filter client.TimeSeriesFilter) (*types.TimeSeries, error) {
	f.seriesFilter = filter
	return &types.TimeSeries{Interval: filter.Interval}, f.err
}

func (f *fakeBackend) ListPartners(ctx context.Context) ([]types.Partner, error) {
	return nil, f.err
}

func setupDashboard(backend *fakeBackend) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", NewDashboardHandler(backend, zerolog.Nop()).Routes)
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestListCallsPassesFilter(t *testing.T) {
	backend := &fakeBackend{}
	rec := serve(setupDashboard(backend), http.MethodGet, "/api/calls?from=2026-01-01&q=refund&page=2&page_size=25")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := client.CallFilter{From: "2026-01-01", Q: "refund", Page: 2, PageSize: 25}
	if backend.callFilter != want {
		t.Errorf("expected filter %+v, got %+v", want, backend.callFilter)
	}

	var list types.CallList
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != "c1" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestListCallsBadPage(t *testing.T) {
	for _, target := range []string{"/api/calls?page=0", "/api/calls?page=x", "/api/calls?page_size=-5"} {
		rec := serve(setupDashboard(&fakeBackend{}), http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestGetCallNotFoundPassesThrough(t *testing.T) {
	rec := serve(setupDashboard(&fakeBackend{}), http.MethodGet, "/api/calls/missing")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["detail"] != "Call not found" {
		t.Errorf("expected detail 'Call not found', got %q", body["detail"])
	}
}

func TestCallDetailRoutes(t *testing.T) {
	h := setupDashboard(&fakeBackend{})

	for _, target := range []string{"/api/calls/c1", "/api/calls/c1/transcript", "/api/calls/c1/summary"} {
		rec := serve(h, http.MethodGet, target)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, rec.Code)
			continue
		}
		var body map[string]interface{}
		json.NewDecoder(rec.Body).Decode(&body)
		if body["id"] != "c1" && body["call_id"] != "c1" {
			t.Errorf("%s: unexpected body %v", target, body)
		}
	}
}

func TestTimeSeriesInterval(t *testing.T) {
	backend := &fakeBackend{}
	h := setupDashboard(backend)

	if rec := serve(h, http.MethodGet, "/api/metrics/timeseries?interval=week"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid interval, got %d", rec.Code)
	}

	rec := serve(h, http.MethodGet, "/api/metrics/timeseries?interval=hour&partner_id=p1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if backend.seriesFilter.Interval != types.IntervalHour || backend.seriesFilter.PartnerID != "p1" {
		t.Errorf("unexpected filter %+v", backend.seriesFilter)
	}
}

func TestPartnersEnvelope(t *testing.T) {
	rec := serve(setupDashboard(&fakeBackend{}), http.MethodGet, "/api/partners")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"items\":[]}\n" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestBackendUnavailable(t *testing.T) {
	rec := serve(setupDashboard(&fakeBackend{err: errors.New("dial tcp: connection refused")}), http.MethodGet, "/api/metrics/summary")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestBackendErrorCode(t *testing.T) {
	backend := &fakeBackend{err: &client.APIError{Message: "rate limited", StatusCode: http.StatusTooManyRequests, Code: "throttled"}}
	rec := serve(setupDashboard(backend), http.MethodGet, "/api/partners")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["code"] != "throttled" || body["detail"] != "rate limited" {
		t.Errorf("unexpected body %v", body)
	}
}
