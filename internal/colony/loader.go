package colony

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

// naTokens are the cell values treated as missing, matching the defaults of
// the spreadsheet tooling the export is usually produced and checked with.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell value counts as absent.
func IsMissing(cell string) bool {
	_, ok := naTokens[cell]
	return ok
}

// LoadFile reads the raw export at path.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("cannot open source %s: %w", path, err)).
			Component("colony").
			Category(errors.CategorySourceRead).
			FileContext(path, 0).
			Build()
	}
	defer f.Close()

	rows, err := Load(f)
	if err != nil {
		return nil, errors.New(fmt.Errorf("%s: %w", path, err)).
			Component("colony").
			Category(errors.CategorySourceRead).
			FileContext(path, 0).
			Build()
	}
	return rows, nil
}

// Load parses CSV with a header row into rows. All RequiredColumns must be
// present; numeric cells must parse as numbers unless missing. Records shorter
// than the header are padded with missing cells, longer ones are an error.
func Load(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, sourceError(fmt.Errorf("source is empty"), 1, "")
	}
	if err != nil {
		return nil, sourceError(fmt.Errorf("error reading CSV header: %w", err), 1, "")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, sourceError(fmt.Errorf("missing required columns: %s", strings.Join(missing, ", ")), 1, "")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sourceError(fmt.Errorf("error reading CSV: %w", err), 0, "")
		}

		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			return nil, sourceError(fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record)), line, "")
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseRow converts one CSV record using the header index.
func parseRow(record []string, index map[string]int, line int) (Row, error) {
	cell := func(col string) *string {
		i := index[col]
		if i >= len(record) || IsMissing(record[i]) {
			return nil
		}
		v := record[i]
		return &v
	}

	row := Row{
		Line:           line,
		CommonName:     cell(ColCommonName),
		ScientificName: cell(ColScientificName),
		SiteCountry:    cell(ColSiteCountry),
		SiteName:       cell(ColSiteName),
		ColonyName:     cell(ColColonyName),
		Years:          cell(ColYears),
	}

	numeric := []struct {
		col string
		dst **float64
	}{
		{ColLat, &row.Lat},
		{ColLon, &row.Lon},
		{ColNTracks, &row.NTracks},
		{ColNBirds, &row.NBirds},
		{ColNPoints, &row.NPoints},
		{ColMinYear, &row.MinYear},
		{ColMaxYear, &row.MaxYear},
	}
	for _, n := range numeric {
		v, err := parseNumber(cell(n.col))
		if err != nil {
			return Row{}, sourceError(fmt.Errorf("line %d: column %s: %w", line, n.col, err), line, n.col)
		}
		*n.dst = v
	}

	return row, nil
}

// parseNumber parses an optional numeric cell. NaN counts as missing.
func parseNumber(s *string) (*float64, error) {
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", *s)
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

// sourceError builds a SourceReadError with the offending location.
func sourceError(err error, line int, column string) error {
	b := errors.New(err).
		Component("colony").
		Category(errors.CategorySourceRead)
	if line > 0 {
		b = b.Context("line", line)
	}
	if column != "" {
		b = b.Context("column", column)
	}
	return b.Build()
}
