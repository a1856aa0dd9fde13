package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Submission is one stored engagement record for a user.
type Submission struct {
	ID          string        `json:"id,omitempty"           bson:"_id,omitempty"`
	User        string        `json:"user"                   bson:"user"`
	URL         string        `json:"url,omitempty"          bson:"url,omitempty"`
	Metrics     MetricsRecord `json:"metrics"                bson:"metrics"`
	SubmittedAt time.Time     `json:"submitted_at,omitempty" bson:"submitted_at"`
}

// NewSubmission creates a Submission stamped with the current time.
func NewSubmission(user, url string, metrics MetricsRecord) Submission {
	return Submission{
		User:        user,
		URL:         url,
		Metrics:     metrics,
		SubmittedAt: time.Now(),
	}
}

// Line renders the flat-file form: user,likes,shares,comments.
// Separators in the user name are replaced so the line always has four fields.
func (s Submission) Line() string {
	user := strings.NewReplacer(",", "_", "\n", " ", "\r", " ").Replace(s.User)
	return fmt.Sprintf("%s,%d,%d,%d", user, s.Metrics.Likes, s.Metrics.Shares, s.Metrics.Comments)
}

// ParseSubmissionLine parses a line written by Line.
func ParseSubmissionLine(line string) (Submission, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 {
		return Submission{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	if fields[0] == "" {
		return Submission{}, fmt.Errorf("empty user")
	}

	values := make([]int64, 3)
	for i, raw := range fields[1:] {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Submission{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		if v < 0 {
			return Submission{}, fmt.Errorf("field %d: negative value %d", i+2, v)
		}
		values[i] = v
	}

	return Submission{
		User: fields[0],
		Metrics: MetricsRecord{
			Likes:    values[0],
			Shares:   values[1],
			Comments: values[2],
		},
	}, nil
}
