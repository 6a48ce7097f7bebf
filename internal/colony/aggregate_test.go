package colony

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string   { return &s }
func num(f float64) *float64 { return &f }

func identity(common, scientific string, lat, lon float64) Row {
	return Row{CommonName: str(common), ScientificName: str(scientific), Lat: num(lat), Lon: num(lon)}
}

func TestCleanDropsAndFills(t *testing.T) {
	t.Parallel()

	rows := []Row{
		identity("Wandering Albatross", "Diomedea exulans", -44, -176.5),
		{CommonName: str("No Lat"), ScientificName: str("x"), Lon: num(1)},
		{ScientificName: str("No common"), Lat: num(1), Lon: num(1)},
		{CommonName: str("No scientific"), Lat: num(1), Lon: num(1)},
	}
	rows[0].SiteName = str("Chatham")

	records, stats := Clean(rows)
	assert.Equal(t, CleanStats{Read: 4, Kept: 1, DroppedMissingIdentity: 2, DroppedMissingScientific: 1}, stats)
	assert.Equal(t, 3, stats.Dropped())
	require.Len(t, records, 1)
	assert.Equal(t, Key{
		CommonName:     "Wandering Albatross",
		ScientificName: "Diomedea exulans",
		Country:        UnknownCountry,
		Site:           "Chatham",
		Colony:         UnknownColony,
		Lat:            -44,
		Lon:            -176.5,
	}, records[0].Key)
}

func TestCleanMergesFilledWithExplicitUnknown(t *testing.T) {
	t.Parallel()

	blank := identity("Shy Albatross", "Thalassarche cauta", -40, 144)
	explicit := identity("Shy Albatross", "Thalassarche cauta", -40, 144)
	explicit.ColonyName = str(UnknownColony)
	explicit.SiteName = str(UnknownSite)
	explicit.SiteCountry = str(UnknownCountry)

	records, _ := Clean([]Row{blank, explicit})
	colonies := Aggregate(records)
	assert.Len(t, colonies, 1)
}

func TestAggregateSumPolicy(t *testing.T) {
	t.Parallel()

	key := Key{CommonName: "A", ScientificName: "a", Country: "C", Site: "S", Colony: "K", Lat: 1, Lon: 2}
	records := []Record{
		{Key: key, NTracks: num(3), NBirds: nil, NPoints: nil, MinYear: num(2010), MaxYear: num(2012)},
		{Key: key, NTracks: nil, NBirds: num(2), NPoints: nil, MinYear: nil, MaxYear: num(2015)},
		{Key: key, NTracks: num(4.5), NBirds: nil, NPoints: nil, MinYear: num(2008), MaxYear: nil},
	}

	colonies := Aggregate(records)
	require.Len(t, colonies, 1)
	c := colonies[0]
	assert.InDelta(t, 7.5, *c.NTracks, 0)
	assert.InDelta(t, 2, *c.NBirds, 0)
	assert.Nil(t, c.NPoints, "all values absent sums to null")
	assert.InDelta(t, 2008, *c.MinYear, 0)
	assert.InDelta(t, 2015, *c.MaxYear, 0)
	assert.Equal(t, []string{}, c.Years)
}

func TestAggregateExactCoordinates(t *testing.T) {
	t.Parallel()

	lat := -44.0
	next := math.Nextafter(lat, 0)
	records, _ := Clean([]Row{
		identity("Wandering Albatross", "Diomedea exulans", lat, -176.5),
		identity("Wandering Albatross", "Diomedea exulans", next, -176.5),
		identity("Wandering Albatross", "Diomedea exulans", lat, -176.5),
	})

	colonies := Aggregate(records)
	require.Len(t, colonies, 2)
	assert.Equal(t, lat, colonies[0].Lat)
	assert.Equal(t, next, colonies[1].Lat)
}

func TestAggregateOrdering(t *testing.T) {
	t.Parallel()

	mk := func(common, scientific, country, site, colony string, lat float64) Record {
		return Record{Key: Key{CommonName: common, ScientificName: scientific, Country: country, Site: site, Colony: colony, Lat: lat}}
	}
	records := []Record{
		mk("Shy Albatross", "Thalassarche cauta", "AU", "Tasmania", "Pedra Branca", 0),
		mk("Buller's Albatross", "Thalassarche bulleri", "NZ", "Snares", "B", 2),
		mk("Buller's Albatross", "Thalassarche bulleri", "NZ", "Snares", "B", 1),
		mk("Buller's Albatross", "Thalassarche bulleri", "NZ", "Chatham", "Z", 0),
		mk("Buller's Albatross", "Thalassarche bulleri", "AU", "Zeta", "A", 0),
	}

	var got []string
	for _, c := range Aggregate(records) {
		got = append(got, c.CommonName+"/"+c.Country+"/"+c.SiteName+"/"+c.ColonyName)
	}
	want := []string{
		"Buller's Albatross/AU/Zeta/A",
		"Buller's Albatross/NZ/Chatham/Z",
		"Buller's Albatross/NZ/Snares/B",
		"Buller's Albatross/NZ/Snares/B",
		"Shy Albatross/AU/Tasmania/Pedra Branca",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() order mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []*string
		want  []string
	}{
		{"range", []*string{str("2018-2019")}, []string{"2018", "2019"}},
		{"list with noise", []*string{str("1999; 2003, 12 and 2001?")}, []string{"1999", "2001", "2003"}},
		{"concatenated digits", []*string{str("201820195")}, []string{"2018", "2019"}},
		{"union and dedupe", []*string{str("2010"), nil, str("2009 2010")}, []string{"2009", "2010"}},
		{"no years", []*string{str("n/d"), nil}, []string{}},
		{"nothing", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, ExtractYears(tt.texts...)); diff != "" {
				t.Errorf("ExtractYears() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestYearsIndependentOfRowOrder(t *testing.T) {
	t.Parallel()

	key := Key{CommonName: "A", ScientificName: "a", Lat: 1, Lon: 1}
	records := []Record{
		{Key: key, Years: str("2015-2016")},
		{Key: key, Years: str("2001")},
		{Key: key, Years: str("2016, 1998")},
		{Key: key},
	}
	want := Aggregate(records)[0].Years

	reversed := slices.Clone(records)
	slices.Reverse(reversed)
	assert.Equal(t, want, Aggregate(reversed)[0].Years)

	rotated := append(slices.Clone(records[2:]), records[:2]...)
	assert.Equal(t, want, Aggregate(rotated)[0].Years)
	assert.Equal(t, []string{"1998", "2001", "2015", "2016"}, want)
}

func TestNest(t *testing.T) {
	t.Parallel()

	records, _ := Clean([]Row{
		identity("Laysan Albatross", "Phoebastria immutabilis", 28, -177),
		identity("Black-footed Albatross", "Phoebastria nigripes", 28, -177),
		identity("Laysan Albatross", "Phoebastria immutabilis", 25, -171),
		identity("Laysan Albatross", "Phoebastria immutabilis, var", 25, -171),
	})

	species := Nest(Aggregate(records))
	require.Len(t, species, 3)
	assert.Equal(t, "Black-footed Albatross", species[0].CommonName)
	assert.Equal(t, "Laysan Albatross", species[1].CommonName)
	assert.Equal(t, "Phoebastria immutabilis", species[1].ScientificName)
	require.Len(t, species[1].Colonies, 2)
	assert.InDelta(t, 25.0, species[1].Colonies[0].Lat, 0)
	assert.Equal(t, "Phoebastria immutabilis, var", species[2].ScientificName)

	assert.Nil(t, Nest(nil))
}

func TestSpeciesCountMatchesDistinctPairs(t *testing.T) {
	t.Parallel()

	rows := []Row{
		identity("A", "a", 1, 1),
		identity("A", "a", 2, 2),
		identity("A", "a2", 1, 1),
		identity("B", "b", 1, 1),
		{CommonName: str("C"), ScientificName: str("c"), Lat: num(1)},
	}
	records, _ := Clean(rows)

	pairs := map[[2]string]struct{}{}
	for _, r := range records {
		pairs[[2]string{r.CommonName, r.ScientificName}] = struct{}{}
	}

	doc := NewDocument("export.csv", Nest(Aggregate(records)))
	assert.Equal(t, len(pairs), doc.SpeciesCount)
	assert.Equal(t, 3, doc.SpeciesCount)
	assert.NotContains(t, doc.CommonNames(), "C")
}
