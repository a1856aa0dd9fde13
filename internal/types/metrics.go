package types

import "fmt"

// Counter names an engagement counter.
type Counter string

const (
	Likes    Counter = "likes"
	Shares   Counter = "shares"
	Comments Counter = "comments"
)

// Counters lists every counter in record order.
var Counters = []Counter{Likes, Shares, Comments}

// ParseCounter resolves a counter name.
func ParseCounter(name string) (Counter, error) {
	for _, c := range Counters {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown counter %q", name)
}

// MetricsRecord is the normalized engagement result of one extraction.
// Counters a platform does not expose are 0, not unknown.
type MetricsRecord struct {
	Likes    int64 `json:"likes"    bson:"likes"`
	Shares   int64 `json:"shares"   bson:"shares"`
	Comments int64 `json:"comments" bson:"comments"`
}

// NewMetricsRecord builds a record from per-counter values.
// Missing counters are 0 and negative values are clamped to 0.
func NewMetricsRecord(values map[Counter]int64) MetricsRecord {
	return MetricsRecord{
		Likes:    nonNegative(values[Likes]),
		Shares:   nonNegative(values[Shares]),
		Comments: nonNegative(values[Comments]),
	}
}

// Get returns the value of a single counter.
func (m MetricsRecord) Get(c Counter) int64 {
	switch c {
	case Likes:
		return m.Likes
	case Shares:
		return m.Shares
	case Comments:
		return m.Comments
	}
	return 0
}

func (m MetricsRecord) String() string {
	return fmt.Sprintf("Likes: %d, Shares: %d, Comments: %d", m.Likes, m.Shares, m.Comments)
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Outcome is the result of one extraction: either a record or a failure.
// The zero value is a failure with an empty reason.
type Outcome struct {
	record MetricsRecord
	err    error
	ok     bool
}

// Succeeded wraps a record in a successful outcome.
func Succeeded(record MetricsRecord) Outcome {
	return Outcome{record: record, ok: true}
}

// Failed wraps err in a failed outcome.
func Failed(err error) Outcome {
	if err == nil {
		err = fmt.Errorf("extraction failed")
	}
	return Outcome{err: err}
}

// OK reports whether the outcome carries a record.
func (o Outcome) OK() bool { return o.ok }

// Record returns the record and true on success. On failure the record is the zero value.
func (o Outcome) Record() (MetricsRecord, bool) {
	if !o.ok {
		return MetricsRecord{}, false
	}
	return o.record, true
}

// Err returns the failure cause, or nil on success.
func (o Outcome) Err() error {
	if o.ok {
		return nil
	}
	return o.err
}

// Reason returns the human-readable failure reason, or "" on success.
func (o Outcome) Reason() string {
	if o.ok || o.err == nil {
		return ""
	}
	return o.err.Error()
}

func (o Outcome) String() string {
	if o.ok {
		return "success(" + o.record.String() + ")"
	}
	return "failure(" + o.Reason() + ")"
}
