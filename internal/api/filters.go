package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/dennisdiepolder/hopwhistle/pkg/client"
)

func callFilterFromQuery(q url.Values) (client.CallFilter, error) {
	filter := client.CallFilter{
		From:      q.Get("from"),
		To:        q.Get("to"),
		PartnerID: q.Get("partner_id"),
		Q:         q.Get("q"),
	}

	var err error
	if filter.Page, err = positiveInt(q, "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = positiveInt(q, "page_size"); err != nil {
		return filter, err
	}
	return filter, nil
}

func metricsFilterFromQuery(q url.Values) client.MetricsFilter {
	return client.MetricsFilter{
		From:      q.Get("from"),
		To:        q.Get("to"),
		PartnerID: q.Get("partner_id"),
	}
}

func timeSeriesFilterFromQuery(q url.Values) (client.TimeSeriesFilter, error) {
	filter := client.TimeSeriesFilter{
		Interval:  types.Interval(q.Get("interval")),
		From:      q.Get("from"),
		To:        q.Get("to"),
		PartnerID: q.Get("partner_id"),
	}
	if filter.Interval != "" && !filter.Interval.Valid() {
		return filter, fmt.Errorf("interval must be %q or %q", types.IntervalHour, types.IntervalDay)
	}
	return filter, nil
}

// positiveInt returns 0 when key is absent
func positiveInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}
