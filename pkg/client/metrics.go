package client

import (
	"context"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
)

// GetMetricsSummary returns aggregate counters and rates for filter
func (c *Client) GetMetricsSummary(ctx context.Context, filter MetricsFilter) (*types.MetricsSummary, error) {
	var summary types.MetricsSummary
	err := c.do(ctx, request{
		operation: "metrics_summary",
		method:    http.MethodGet,
		path:      pathWithQuery("/api/metrics/summary", filter.Encode()),
	}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetTimeSeries returns per-interval counters for filter
func (c *Client) GetTimeSeries(ctx context.Context, filter TimeSeriesFilter) (*types.TimeSeries, error) {
	var series types.TimeSeries
	err := c.do(ctx, request{
		operation: "metrics_timeseries",
		method:    http.MethodGet,
		path:      pathWithQuery("/api/metrics/timeseries", filter.Encode()),
	}, &series)
	if err != nil {
		return nil, err
	}
	return &series, nil
}
