package request

import "time"

// DateLayout is the wire format for check-in/check-out dates. Occupancy is
// tracked per calendar night, so dates carry no time component.
const DateLayout = "2006-01-02"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ParseDate parses a wire-format date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
