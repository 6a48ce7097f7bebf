// Package segments validates and stores the time segment annotations edited in
// the front end.
//
// A segment is an object with numeric start and end, normalized so that
// 0 <= start < end <= 1, and an integer box. A submission is a JSON array of
// segments and is accepted or rejected as a whole.
package segments

import (
	"github.com/albatross-proto/albatross-data/internal/errors"
)

// Required segment fields.
const (
	FieldStart = "start"
	FieldEnd   = "end"
	FieldBox   = "box"
)

// Schema violations. Errors returned by Validate wrap exactly one of these.
var (
	ErrNotArray       = errors.NewStd("not an array")
	ErrMissingField   = errors.NewStd("missing required field")
	ErrFieldType      = errors.NewStd("invalid field type")
	ErrRangeViolation = errors.NewStd("range violation")
)

// Segment is one validated annotation. Keys other than start, end and box are
// kept in the saved file but not represented here.
type Segment struct {
	Start float64
	End   float64
	Box   int64
}

// Failure reasons used in metrics and logs.
const (
	ReasonParse       = "parse"
	ReasonNotArray    = "not_an_array"
	ReasonMissing     = "missing_field"
	ReasonFieldType   = "invalid_field_type"
	ReasonRange       = "range_violation"
	ReasonUnspecified = "other"
)

// Reason maps a Parse or Validate error to a short label.
func Reason(err error) string {
	switch {
	case errors.IsCategory(err, errors.CategoryParse):
		return ReasonParse
	case errors.Is(err, ErrNotArray):
		return ReasonNotArray
	case errors.Is(err, ErrMissingField):
		return ReasonMissing
	case errors.Is(err, ErrFieldType):
		return ReasonFieldType
	case errors.Is(err, ErrRangeViolation):
		return ReasonRange
	default:
		return ReasonUnspecified
	}
}
