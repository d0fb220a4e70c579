package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// queryInt reads an optional integer query parameter, returning 0 when
// absent and a field error when malformed or out of range.
func queryInt(c *gin.Context, name string, lo, hi int) (int, *fieldError) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, &fieldError{Field: name, Message: fmt.Sprintf("must be an integer between %d and %d", lo, hi)}
	}
	return v, nil
}

func queryMonth(c *gin.Context) (int, *fieldError) {
	return queryInt(c, "month", 1, 12)
}

func queryYear(c *gin.Context) (int, *fieldError) {
	return queryInt(c, "year", 1970, 9999)
}

// parseDate accepts the two date shapes clients send: full RFC 3339
// timestamps and bare YYYY-MM-DD days.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
