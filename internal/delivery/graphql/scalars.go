package graphql

import (
	"math"
	"strconv"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
)

// optional maps the store's empty string to null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(t *time.Time) *graphql.Time {
	if t == nil {
		return nil
	}
	return &graphql.Time{Time: *t}
}

// isoDuration formats d as an ISO-8601 duration (PT1H30M, PT45M, PT0S).
// Sub-second precision is dropped.
func isoDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteString("PT")
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		b.WriteString(strconv.FormatInt(int64(h), 10))
		b.WriteByte('H')
	}
	if m > 0 {
		b.WriteString(strconv.FormatInt(int64(m), 10))
		b.WriteByte('M')
	}
	if s > 0 || (h == 0 && m == 0) {
		b.WriteString(strconv.FormatInt(int64(s), 10))
		b.WriteByte('S')
	}
	return b.String()
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// clampInt32 narrows n to the range of the GraphQL Int scalar.
func clampInt32(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int32(n)
}

func int32Value(v *int32) int {
	if v == nil {
		return 0
	}
	return int(*v)
}
