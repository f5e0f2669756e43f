package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
)

// CallFilter selects a page of calls. Zero values are omitted from the query.
type CallFilter struct {
	From      string // ISO-8601 date
	To        string // ISO-8601 date
	PartnerID string
	Q         string // free-text search
	Page      int    // 1-based
	PageSize  int
}

// MetricsFilter narrows the metrics summary. Zero values are omitted.
type MetricsFilter struct {
	From      string
	To        string
	PartnerID string
}

// TimeSeriesFilter narrows the time series. Zero values are omitted.
type TimeSeriesFilter struct {
	Interval  types.Interval
	From      string
	To        string
	PartnerID string
}

// query builds a form-encoded query string preserving insertion order.
// url.Values sorts keys on Encode, which would break the documented order.
type query struct {
	b strings.Builder
}

func (q *query) add(key, value string) {
	if value == "" {
		return
	}
	if q.b.Len() > 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(url.QueryEscape(key))
	q.b.WriteByte('=')
	q.b.WriteString(url.QueryEscape(value))
}

func (q *query) addInt(key string, value int) {
	if value <= 0 {
		return
	}
	q.add(key, strconv.Itoa(value))
}

// Encode returns the query string for the filter in the order
// from, to, partner_id, q, page, page_size
func (f CallFilter) Encode() string {
	var q query
	q.add("from", f.From)
	q.add("to", f.To)
	q.add("partner_id", f.PartnerID)
	q.add("q", f.Q)
	q.addInt("page", f.Page)
	q.addInt("page_size", f.PageSize)
	return q.b.String()
}

// Encode returns the query string in the order from, to, partner_id
func (f MetricsFilter) Encode() string {
	var q query
	q.add("from", f.From)
	q.add("to", f.To)
	q.add("partner_id", f.PartnerID)
	return q.b.String()
}

// Encode returns the query string in the order interval, from, to, partner_id
func (f TimeSeriesFilter) Encode() string {
	var q query
	q.add("interval", string(f.Interval))
	q.add("from", f.From)
	q.add("to", f.To)
	q.add("partner_id", f.PartnerID)
	return q.b.String()
}

func pathWithQuery(path, encoded string) string {
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}
