package models

import (
	"fmt"
	"strings"
	"time"
)

// FlexibleDate accepts either a bare date ("2006-01-02") or a full RFC 3339
// timestamp in request bodies.
type FlexibleDate struct {
	t time.Time
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func (d *FlexibleDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.t = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.t = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d FlexibleDate) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.t.Format(time.RFC3339) + `"`), nil
}

// Time returns the parsed time value.
func (d *FlexibleDate) Time() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.t
}

// NewFlexibleDate wraps a time value; used by tests and seeders.
func NewFlexibleDate(t time.Time) *FlexibleDate {
	return &FlexibleDate{t: t}
}
