// Package calendar writes and checks the per-species phenology calendar that
// accompanies the colony document.
package calendar

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Months are the calendar columns after common_name, in order.
var Months = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// NameColumn is the first column of every calendar file.
const NameColumn = "common_name"

// Phenology statuses a calendar cell may hold.
const (
	StatusBreeding    = "breeding"
	StatusMigration   = "migration"
	StatusNonBreeding = "nonbreeding"
	StatusAbsent      = "absent"
	StatusUnknown     = "unknown"
)

// Statuses lists the accepted cell values in report order.
var Statuses = []string{StatusBreeding, StatusMigration, StatusNonBreeding, StatusAbsent, StatusUnknown}

// Header returns the calendar header row.
func Header() []string {
	return append([]string{NameColumn}, Months...)
}

// WriteStub writes a calendar with one row per name, every month set to
// StatusUnknown. Names are written in the given order, duplicates included.
func WriteStub(w io.Writer, commonNames []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("error writing calendar header: %w", err)
	}

	row := make([]string, 1+len(Months))
	for i := 1; i < len(row); i++ {
		row[i] = StatusUnknown
	}
	for _, name := range commonNames {
		row[0] = name
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing calendar row for %q: %w", name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
