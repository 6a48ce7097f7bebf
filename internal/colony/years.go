package colony

import (
	"regexp"
	"slices"
)

// yearPattern matches runs of four ASCII digits, scanned left to right
// without overlap, so "20182019" yields 2018 and 2019.
var yearPattern = regexp.MustCompile(`[0-9]{4}`)

// ExtractYears returns the sorted distinct four-digit tokens found in texts.
// Nil entries are skipped. The result is never nil.
func ExtractYears(texts ...*string) []string {
	seen := make(map[string]struct{})
	for _, t := range texts {
		if t == nil {
			continue
		}
		for _, y := range yearPattern.FindAllString(*t, -1) {
			seen[y] = struct{}{}
		}
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}
