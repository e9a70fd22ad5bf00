package content

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	time.DateOnly,
	"2006-01-02 15:04",
	time.DateTime,
}

// ParseDate reads the date formats accepted in front matter.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
