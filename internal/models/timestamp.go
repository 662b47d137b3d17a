package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseTimestamp converts the raw createdAt/updatedAt value of a backend
// record into a time.Time. Records written by different clients carry
// different representations (a native BSON date, an ISO 8601 string, or an
// epoch number), so the parser accepts all of them. It returns false when the
// value cannot be interpreted; callers fall back to the current time rather
// than failing the whole record.
func ParseTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case primitive.DateTime:
		return t.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0), true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case int64:
		return epochToTime(t), true
	case int:
		return epochToTime(int64(t)), true
	case float64:
		return epochToTime(int64(t)), true
	}
	return time.Time{}, false
}

// epochToTime interprets an epoch number as milliseconds when it is too large
// to be a plausible seconds value.
func epochToTime(v int64) time.Time {
	const msThreshold = int64(1e12)
	if v >= msThreshold {
		return time.UnixMilli(v)
	}
	return time.Unix(v, 0)
}
