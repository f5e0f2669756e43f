package api

import (
	"context"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/dennisdiepolder/hopwhistle/pkg/client"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Backend is the read side of the API client used by the dashboard routes
type Backend interface {
	ListCalls(ctx context.Context, filter client.CallFilter) (*types.CallList, error)
	GetCall(ctx context.Context, callID string) (*types.Call, error)
	GetCallTranscript(ctx context.Context, callID string) (*types.Transcript, error)
	GetCallSummary(ctx context.Context, callID string) (*types.CallSummary, error)
	GetMetricsSummary(ctx context.Context, filter client.MetricsFilter) (*types.MetricsSummary, error)
	GetTimeSeries(ctx context.Context, filter client.TimeSeriesFilter) (*types.TimeSeries, error)
	ListPartners(ctx context.Context) ([]types.Partner, error)
}

// DashboardHandler serves call, metrics and partner data from the backend
type DashboardHandler struct {
	backend Backend
	logger  zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(backend Backend, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		backend: backend,
		logger:  logger.With().Str("component", "dashboard_api").Logger(),
	}
}

// Routes registers the dashboard routes on r
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get("/calls", h.HandleListCalls)
	r.Get("/calls/{callID}", h.HandleGetCall)
	r.Get("/calls/{callID}/transcript", h.HandleTranscript)
	r.Get("/calls/{callID}/summary", h.HandleSummary)
	r.Get("/metrics/summary", h.HandleMetricsSummary)
	r.Get("/metrics/timeseries", h.HandleTimeSeries)
	r.Get("/partners", h.HandlePartners)
}

// HandleListCalls handles GET /api/calls
func (h *DashboardHandler) HandleListCalls(w http.ResponseWriter, r *http.Request) {
	filter, err := callFilterFromQuery(r.URL.Query())
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.backend.ListCalls(r.Context(), filter)
	h.respond(w, list, err)
}

// HandleGetCall handles GET /api/calls/{callID}
func (h *DashboardHandler) HandleGetCall(w http.ResponseWriter, r *http.Request) {
	call, err := h.backend.GetCall(r.Context(), chi.URLParam(r, "callID"))
	h.respond(w, call, err)
}

// HandleTranscript handles GET /api/calls/{callID}/transcript
func (h *DashboardHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.backend.GetCallTranscript(r.Context(), chi.URLParam(r, "callID"))
	h.respond(w, transcript, err)
}

// HandleSummary handles GET /api/calls/{callID}/summary
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.backend.GetCallSummary(r.Context(), chi.URLParam(r, "callID"))
	h.respond(w, summary, err)
}

// HandleMetricsSummary handles GET /api/metrics/summary
func (h *DashboardHandler) HandleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.backend.GetMetricsSummary(r.Context(), metricsFilterFromQuery(r.URL.Query()))
	h.respond(w, summary, err)
}

// HandleTimeSeries handles GET /api/metrics/timeseries
func (h *DashboardHandler) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	filter, err := timeSeriesFilterFromQuery(r.URL.Query())
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	series, err := h.backend.GetTimeSeries(r.Context(), filter)
	h.respond(w, series, err)
}

// HandlePartners handles GET /api/partners. The list is wrapped in
// {"items": [...]} like the backend does.
func (h *DashboardHandler) HandlePartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.backend.ListPartners(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if partners == nil {
		partners = []types.Partner{}
	}
	writeJSON(w, http.StatusOK, map[string][]types.Partner{"items": partners})
}

func (h *DashboardHandler) respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
