package parser

import (
	"strconv"
	"strings"

	"github.com/IshaanNene/engagerank/internal/types"
)

// ParseCount converts counter text such as "12,345" into an integer.
// Thousands separators and surrounding whitespace are stripped; anything
// else ("1.2K", "N/A", "") is an error the caller degrades to 0.
func ParseCount(text string) (int64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, types.ErrEmptyText
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, types.ErrNotNumeric
	}

	// strconv accepts a leading sign; counters never carry one.
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, types.ErrNotNumeric
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, types.ErrNotNumeric
	}
	return n, nil
}
