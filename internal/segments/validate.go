package segments

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/antonholmquist/jason"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

// Validate checks that v is an array of segments. The first violation rejects
// the whole submission; the returned error wraps one of the Err* sentinels and
// carries the element index. Booleans are never numbers, and box must be an
// integer literal: 1.0 and 1e0 are rejected.
func Validate(v *jason.Value) ([]Segment, error) {
	elems, err := v.Array()
	if err != nil {
		return nil, schemaError(ErrNotArray, -1, "")
	}

	out := make([]Segment, 0, len(elems))
	for i, elem := range elems {
		seg, err := validateElement(i, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, seg)
	}
	return out, nil
}

func validateElement(i int, elem *jason.Value) (Segment, error) {
	obj, err := elem.Object()
	if err != nil {
		return Segment{}, schemaError(ErrMissingField, i, "")
	}
	fields := obj.Map()
	for _, name := range []string{FieldStart, FieldEnd, FieldBox} {
		if _, ok := fields[name]; !ok {
			return Segment{}, schemaError(ErrMissingField, i, name)
		}
	}

	start, ok := number(fields[FieldStart])
	if !ok {
		return Segment{}, schemaError(ErrFieldType, i, FieldStart)
	}
	end, ok := number(fields[FieldEnd])
	if !ok {
		return Segment{}, schemaError(ErrFieldType, i, FieldEnd)
	}
	box, ok := integer(fields[FieldBox])
	if !ok {
		return Segment{}, schemaError(ErrFieldType, i, FieldBox)
	}

	if !(start >= 0 && start < end && end <= 1) {
		return Segment{}, errors.New(fmt.Errorf("segment %d: %w: need 0 <= start < end <= 1, got start=%v end=%v",
			i, ErrRangeViolation, start, end)).
			Component("segments").
			Category(errors.CategorySchema).
			Context("index", i).
			Build()
	}

	return Segment{Start: start, End: end, Box: box}, nil
}

// number returns the value of a JSON number. Strings, booleans and null are
// not numbers.
func number(v *jason.Value) (float64, bool) {
	n, err := v.Number()
	if err != nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// integer returns the value of a JSON number written without fraction or
// exponent that fits in an int64.
func integer(v *jason.Value) (int64, bool) {
	n, err := v.Number()
	if err != nil || !isIntegerLiteral(n) {
		return 0, false
	}
	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func isIntegerLiteral(n json.Number) bool {
	return !strings.ContainsAny(n.String(), ".eE")
}

func schemaError(sentinel error, index int, field string) error {
	var err error
	switch {
	case index < 0:
		err = sentinel
	case field == "":
		err = fmt.Errorf("segment %d: %w", index, sentinel)
	default:
		err = fmt.Errorf("segment %d: %w: %s", index, sentinel, field)
	}

	b := errors.New(err).
		Component("segments").
		Category(errors.CategorySchema)
	if index >= 0 {
		b = b.Context("index", index)
	}
	if field != "" {
		b = b.Context("field", field)
	}
	return b.Build()
}
