package calendar

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

// Problem is one invalid cell in a calendar file.
type Problem struct {
	Line   int    // line in the file, header is 1
	Column string // column name
	Value  string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d, column %s: %s (%q)", p.Line, p.Column, p.Reason, p.Value)
}

// Report summarizes a checked calendar.
type Report struct {
	Rows     int
	Counts   map[string]int // cells per valid status
	Problems []Problem
}

// OK reports whether the calendar had no problems.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Summary renders the status counts in Statuses order, e.g.
// "breeding=3 migration=0 nonbreeding=0 absent=0 unknown=21".
func (r *Report) Summary() string {
	parts := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", s, r.Counts[s]))
	}
	return strings.Join(parts, " ")
}

// CheckFile opens path and runs Check on it.
func CheckFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		category := errors.CategoryFileIO
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.New(fmt.Errorf("cannot open calendar: %w", err)).
			Component("calendar").
			Category(category).
			FileContext(path, 0).
			Build()
	}
	defer f.Close()

	return Check(f)
}

// Check validates a hand-filled calendar. The header must equal Header()
// exactly and every month cell must be one of Statuses; common_name must be
// non-empty. Cell problems are collected in the report. A malformed CSV or a
// wrong header is returned as an error instead, since no cell can be trusted.
func Check(r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, schemaError(fmt.Errorf("calendar is empty"))
	}
	if err != nil {
		return nil, schemaError(fmt.Errorf("error reading calendar header: %w", err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if want := Header(); !slices.Equal(header, want) {
		return nil, schemaError(fmt.Errorf("unexpected calendar header %q, want %q",
			strings.Join(header, ","), strings.Join(want, ",")))
	}

	report := &Report{Counts: make(map[string]int, len(Statuses))}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Includes records with the wrong number of fields.
			return nil, schemaError(fmt.Errorf("error reading calendar: %w", err))
		}
		line, _ := reader.FieldPos(0)
		report.Rows++

		if strings.TrimSpace(record[0]) == "" {
			report.Problems = append(report.Problems, Problem{
				Line: line, Column: NameColumn, Value: record[0], Reason: "missing common name",
			})
		}
		for i, month := range Months {
			v := record[i+1]
			if !slices.Contains(Statuses, v) {
				report.Problems = append(report.Problems, Problem{
					Line: line, Column: month, Value: v, Reason: "unknown status",
				})
				continue
			}
			report.Counts[v]++
		}
	}

	return report, nil
}

func schemaError(err error) error {
	return errors.New(err).
		Component("calendar").
		Category(errors.CategorySchema).
		Build()
}
