package colony

// Nest groups consecutive colonies by (common name, scientific name). The
// input must be in Aggregate order; species then come out sorted by name and
// colonies within a species keep their place, country, site, colony and
// coordinate order.
func Nest(colonies []Colony) []Species {
	var species []Species
	for _, c := range colonies {
		n := len(species)
		if n > 0 && species[n-1].CommonName == c.CommonName && species[n-1].ScientificName == c.ScientificName {
			species[n-1].Colonies = append(species[n-1].Colonies, c)
			continue
		}
		species = append(species, Species{
			CommonName:     c.CommonName,
			ScientificName: c.ScientificName,
			Colonies:       []Colony{c},
		})
	}
	return species
}
