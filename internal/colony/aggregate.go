package colony

import (
	"cmp"
	"math"
	"slices"
)

// compareKey orders keys field by field: common name, scientific name,
// country, site, colony, lat, lon. Coordinates compare exactly, so values
// that differ only in the last bit are different colonies.
func compareKey(a, b Key) int {
	if c := cmp.Compare(a.CommonName, b.CommonName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ScientificName, b.ScientificName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Country, b.Country); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Site, b.Site); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Colony, b.Colony); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Lat, b.Lat); c != 0 {
		return c
	}
	return cmp.Compare(a.Lon, b.Lon)
}

// Aggregate merges records sharing a Key into one Colony each. The result is
// sorted by key.
//
// Counts are summed with absent values treated as zero; a sum is nil only
// when every record in the group lacks the value. min_year and max_year are
// taken over present values.
func Aggregate(records []Record) []Colony {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return compareKey(a.Key, b.Key)
	})

	var colonies []Colony
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && compareKey(sorted[start].Key, sorted[end].Key) == 0 {
			end++
		}
		colonies = append(colonies, summarize(sorted[start:end]))
		start = end
	}
	return colonies
}

// summarize folds one group of records with equal keys.
func summarize(group []Record) Colony {
	k := group[0].Key
	c := Colony{
		CommonName:     k.CommonName,
		ScientificName: k.ScientificName,
		ColonyName:     k.Colony,
		SiteName:       k.Site,
		Country:        k.Country,
		Lat:            k.Lat,
		Lon:            k.Lon,
	}

	years := make([]*string, 0, len(group))
	for i := range group {
		r := &group[i]
		c.NTracks = addOptional(c.NTracks, r.NTracks)
		c.NBirds = addOptional(c.NBirds, r.NBirds)
		c.NPoints = addOptional(c.NPoints, r.NPoints)
		c.MinYear = pickOptional(c.MinYear, r.MinYear, math.Min)
		c.MaxYear = pickOptional(c.MaxYear, r.MaxYear, math.Max)
		years = append(years, r.Years)
	}
	c.Years = ExtractYears(years...)

	return c
}

func addOptional(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil {
		sum := *v
		return &sum
	}
	sum := *acc + *v
	return &sum
}

func pickOptional(acc, v *float64, pick func(x, y float64) float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil {
		out := *v
		return &out
	}
	out := pick(*acc, *v)
	return &out
}
