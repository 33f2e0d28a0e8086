package engine

import "time"

// Timestamps below this are taken as seconds, at or above as milliseconds.
// 1e12 ms is September 2001; 1e12 s is tens of thousands of years away.
const millisThreshold = 1_000_000_000_000

// lastModifiedLayout is how skill modification times are displayed.
const lastModifiedLayout = "Jan 2, 2006 15:04"

// NormalizeTimestamp converts an epoch value in seconds or milliseconds
// into a time.
func NormalizeTimestamp(v int64) time.Time {
	if v < millisThreshold {
		return time.Unix(v, 0)
	}
	return time.UnixMilli(v)
}

// FormatLastModified renders an optional epoch value for display.
func FormatLastModified(v *int64) string {
	if v == nil || *v <= 0 {
		return ""
	}
	return NormalizeTimestamp(*v).Local().Format(lastModifiedLayout)
}
