package models

import "time"

// WikiEntry is one geocoded row of the Wikipedia bridge list.
type WikiEntry struct {
	RawName   string
	Lat       float64
	Lon       float64
	SourceURL string
}

// UnmatchedBridge is a record the geocoder could not place.
type UnmatchedBridge struct {
	File     string `csv:"file"`
	Section  string `csv:"section"`
	District string `csv:"bezirk"`
	Name     string `csv:"name"`
	ID       string `csv:"-"`
	Detail   string `csv:"-"`
}

// GeocodeResult counts the outcome of one geocoding pass.
type GeocodeResult struct {
	AlreadyHad int
	Matched    int
	Total      int
	Unmatched  []UnmatchedBridge
}

// Add folds other into r.
func (r *GeocodeResult) Add(other GeocodeResult) {
	r.AlreadyHad += other.AlreadyHad
	r.Matched += other.Matched
	r.Total += other.Total
	r.Unmatched = append(r.Unmatched, other.Unmatched...)
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is one failed data-quality check.
type ValidationIssue struct {
	File     string   `csv:"file"`
	Section  string   `csv:"section"`
	District string   `csv:"bezirk"`
	Name     string   `csv:"name"`
	Rule     string   `csv:"rule"`
	Severity Severity `csv:"severity"`
	Message  string   `csv:"message"`
}

// CatalogEntry is the flattened, storage-neutral view of any bridge record.
type CatalogEntry struct {
	ID             int64
	RunID          string
	Dataset        string
	Section        string
	District       string
	Name           string
	Lat            *float64
	Lon            *float64
	CoordSource    string
	Status         Status
	DamageCategory DamageCategory
	CostMillions   *float64
	CreatedAt      time.Time
}

// SummaryReport holds the computed figures over the catalog.
type SummaryReport struct {
	TotalBridges     int
	RenovationCount  int
	DamageCount      int
	WithCoordinates  int
	CoveragePercent  float64
	ByStatus         map[Status]int
	ByDistrict       map[string]int
	ByDamageCategory map[DamageCategory]int
	TotalCost        float64
	AverageCost      float64
	MostExpensive    *CatalogEntry
}

// WikiIndex maps a normalized bridge name to its Wikipedia entry.
type WikiIndex map[string]WikiEntry
