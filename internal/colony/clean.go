package colony

// CleanStats counts what Clean did with its input.
type CleanStats struct {
	Read                     int
	Kept                     int
	DroppedMissingIdentity   int // common_name, lat_colony or lon_colony absent
	DroppedMissingScientific int // scientific_name absent, cannot be grouped
}

// Dropped returns the total number of discarded rows.
func (s CleanStats) Dropped() int {
	return s.DroppedMissingIdentity + s.DroppedMissingScientific
}

// Clean drops rows that cannot identify a colony and fills missing place
// names with the Unknown* values. Filling happens before grouping, so a blank
// colony name and an explicit "Unknown colony" end up in the same group.
func Clean(rows []Row) ([]Record, CleanStats) {
	stats := CleanStats{Read: len(rows)}
	kept := make([]Record, 0, len(rows))

	for i := range rows {
		r := &rows[i]
		if r.CommonName == nil || r.Lat == nil || r.Lon == nil {
			stats.DroppedMissingIdentity++
			continue
		}
		if r.ScientificName == nil {
			stats.DroppedMissingScientific++
			continue
		}

		kept = append(kept, Record{
			Key: Key{
				CommonName:     *r.CommonName,
				ScientificName: *r.ScientificName,
				Country:        fill(r.SiteCountry, UnknownCountry),
				Site:           fill(r.SiteName, UnknownSite),
				Colony:         fill(r.ColonyName, UnknownColony),
				Lat:            *r.Lat,
				Lon:            *r.Lon,
			},
			NTracks: r.NTracks,
			NBirds:  r.NBirds,
			NPoints: r.NPoints,
			Years:   r.Years,
			MinYear: r.MinYear,
			MaxYear: r.MaxYear,
		})
	}

	stats.Kept = len(kept)
	return kept, stats
}

func fill(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
