package types

import "time"

// Interval is the bucket width of a time series
type Interval string

const (
	IntervalHour Interval = "hour"
	IntervalDay  Interval = "day"
)

// Valid reports whether the interval is one the backend accepts
func (i Interval) Valid() bool {
	return i == IntervalHour || i == IntervalDay
}

// MetricsSummary contains aggregate counters and derived rates
type MetricsSummary struct {
	TotalCalls        int     `json:"total_calls"`
	BillableCalls     int     `json:"billable_calls"`
	Sales             int     `json:"sales"`
	ClosingPercentage float64 `json:"closing_percentage"` // 0-100, sales / billable_calls
	AnswerRate        float64 `json:"answer_rate"`        // 0-100, connected / total_calls
	AOVCents          *int64  `json:"aov_cents"`          // null when sales == 0
}

// TimeSeriesPoint is one interval bucket
type TimeSeriesPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	TotalCalls    int       `json:"total_calls"`
	BillableCalls int       `json:"billable_calls"`
	Sales         int       `json:"sales"`
	Connected     int       `json:"connected"`
}

// TimeSeries holds points ordered by timestamp ascending
type TimeSeries struct {
	Interval Interval          `json:"interval"`
	Points   []TimeSeriesPoint `json:"points"`
}
