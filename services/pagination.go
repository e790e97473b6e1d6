package services

import (
	"fmt"
	"strconv"
	"time"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ParsePagination reads the limit and offset query values. Empty values take
// the defaults and limits above MaxPageLimit are clamped.
func ParsePagination(limitRaw, offsetRaw string) (int, int, error) {
	limit := DefaultPageLimit
	offset := 0

	if limitRaw != "" {
		n, err := strconv.Atoi(limitRaw)
		if err != nil || n < 1 {
			return 0, 0, validationError("limit must be a positive integer")
		}
		limit = n
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if offsetRaw != "" {
		n, err := strconv.Atoi(offsetRaw)
		if err != nil || n < 0 {
			return 0, 0, validationError("offset must be a non-negative integer")
		}
		offset = n
	}

	return limit, offset, nil
}

func HasMore(offset, limit int, total int64) bool {
	return int64(offset)+int64(limit) < total
}

// FormatTimeAgo renders a creation time the way the prayer wall shows it.
func FormatTimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)

	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 604800:
		return plural(seconds/86400, "day")
	default:
		return t.UTC().Format("Jan 2, 2006")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
