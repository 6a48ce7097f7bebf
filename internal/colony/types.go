// Package colony turns the raw seabird tracking export into per-species colony
// summaries for the map front end.
//
// The pipeline is Load → Clean → Aggregate → Nest, followed by writing the
// colony document and the calendar stub. Builder runs all stages.
package colony

// Source columns required in the raw export. Extra columns are ignored.
const (
	ColCommonName     = "common_name"
	ColScientificName = "scientific_name"
	ColSiteCountry    = "site_country"
	ColSiteName       = "site_name"
	ColColonyName     = "colony_name"
	ColLat            = "lat_colony"
	ColLon            = "lon_colony"
	ColNTracks        = "ntracks"
	ColNBirds         = "nbirds"
	ColNPoints        = "npoints"
	ColYears          = "years"
	ColMinYear        = "min_year"
	ColMaxYear        = "max_year"
)

// RequiredColumns lists every column the loader needs, in export order.
var RequiredColumns = []string{
	ColCommonName, ColScientificName, ColSiteCountry, ColSiteName, ColColonyName,
	ColLat, ColLon, ColNTracks, ColNBirds, ColNPoints, ColYears, ColMinYear, ColMaxYear,
}

// Fill values for missing place names.
const (
	UnknownColony  = "Unknown colony"
	UnknownSite    = "Unknown site"
	UnknownCountry = "Unknown country"
)

// Row is one record of the raw export. Nil means the cell was absent.
type Row struct {
	Line int // source line of the record, for diagnostics

	CommonName     *string
	ScientificName *string
	SiteCountry    *string
	SiteName       *string
	ColonyName     *string
	Lat            *float64
	Lon            *float64
	NTracks        *float64
	NBirds         *float64
	NPoints        *float64
	Years          *string
	MinYear        *float64
	MaxYear        *float64
}

// Key identifies a colony. Lat and Lon compare exactly.
type Key struct {
	CommonName     string
	ScientificName string
	Country        string
	Site           string
	Colony         string
	Lat            float64
	Lon            float64
}

// Record is a cleaned row: identity fields are present and place names filled.
type Record struct {
	Key

	NTracks *float64
	NBirds  *float64
	NPoints *float64
	Years   *string
	MinYear *float64
	MaxYear *float64
}

// Colony is the aggregated summary of all records sharing a Key. Nil numerics
// encode as null; integral float64 values encode without a fraction.
type Colony struct {
	CommonName     string `json:"-"`
	ScientificName string `json:"-"`

	ColonyName string   `json:"colony_name"`
	SiteName   string   `json:"site_name"`
	Country    string   `json:"country"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	NTracks    *float64 `json:"ntracks"`
	NBirds     *float64 `json:"nbirds"`
	NPoints    *float64 `json:"npoints"`
	MinYear    *float64 `json:"min_year"`
	MaxYear    *float64 `json:"max_year"`
	Years      []string `json:"years"`
}

// Species groups the colonies of one (common name, scientific name) pair.
type Species struct {
	CommonName     string   `json:"common_name"`
	ScientificName string   `json:"scientific_name"`
	Colonies       []Colony `json:"colonies"`
}

// Document is the species_colonies.json payload.
type Document struct {
	GeneratedFrom string    `json:"generated_from"`
	SpeciesCount  int       `json:"species_count"`
	Species       []Species `json:"species"`
}

// NewDocument wraps species for output, naming the source file.
func NewDocument(source string, species []Species) Document {
	if species == nil {
		species = []Species{}
	}
	return Document{
		GeneratedFrom: source,
		SpeciesCount:  len(species),
		Species:       species,
	}
}

// CommonNames returns the common name of every species entry, in order.
func (d Document) CommonNames() []string {
	names := make([]string, len(d.Species))
	for i := range d.Species {
		names[i] = d.Species[i].CommonName
	}
	return names
}
