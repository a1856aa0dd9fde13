// Package ranking orders submissions by likes and renders the leaderboard.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/IshaanNene/engagerank/internal/types"
)

// MaxMessageLen is the largest message Discord accepts.
const MaxMessageLen = 2000

// Entry is one ranked submission.
type Entry struct {
	Rank       int
	Submission types.Submission
}

// Rank sorts submissions by likes, highest first. Ties keep their stored order.
func Rank(subs []types.Submission) []Entry {
	sorted := make([]types.Submission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metrics.Likes > sorted[j].Metrics.Likes
	})

	entries := make([]Entry, len(sorted))
	for i, sub := range sorted {
		entries[i] = Entry{Rank: i + 1, Submission: sub}
	}
	return entries
}

// Line renders a single leaderboard row.
func (e Entry) Line() string {
	m := e.Submission.Metrics
	return fmt.Sprintf("%d. %s - Likes: %d, Shares: %d, Comments: %d",
		e.Rank, e.Submission.User, m.Likes, m.Shares, m.Comments)
}

// Format renders the full leaderboard.
func Format(entries []Entry) string {
	var b strings.Builder
	b.WriteString("Rankings:\n")
	for _, e := range entries {
		b.WriteString(e.Line())
		b.WriteByte('\n')
	}
	return b.String()
}

// Chunk splits text on line boundaries into pieces of at most limit bytes.
// A single line longer than limit is cut.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLen
	}
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		extra := len(line)
		if cur.Len() > 0 {
			extra++
		}
		if cur.Len()+extra > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}
