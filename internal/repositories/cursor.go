package repositories

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"storedash/internal/models"
)

// ErrBadCursor is returned when a pagination token cannot be decoded.
var ErrBadCursor = errors.New("malformed pagination cursor")

// EncodeCursor builds the opaque pagination token for the page that follows
// the given order. The token carries the (createdAt, id) pair of the last
// record of the previous page; id breaks ties between equal timestamps.
func EncodeCursor(last models.Order) string {
	raw := last.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + last.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(cursor string) (createdAt time.Time, id string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", ErrBadCursor
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", ErrBadCursor
	}
	createdAt, err = time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", ErrBadCursor
	}
	return createdAt, parts[1], nil
}
