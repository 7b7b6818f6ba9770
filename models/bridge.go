package models

import "encoding/json"

// Dataset names used in reports and in the catalog table.
const (
	DatasetRenovation = "renovation"
	DatasetDamage     = "damage"
)

// Sections of the renovation dataset.
const (
	SectionDistricts = "bezirke"
	SectionMeasures  = "erhaltungsmassnahmen"
)

// Position holds the geocodable part of a record. Lat and Lon are the
// parsed values; the stored JSON is only rewritten after SetCoordinates.
type Position struct {
	Lat         *float64 `json:"-"`
	Lon         *float64 `json:"-"`
	CoordSource string   `json:"-"`

	// stored is set when the file has non-null lat and lon, even ones that
	// do not parse as numbers.
	stored   bool
	geocoded bool
}

type positionJSON struct {
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	CoordSource string   `json:"coord_quelle,omitempty"`
}

// HasCoordinates is true when both lat and lon are set, either in memory or
// as non-null values in the loaded file.
func (p *Position) HasCoordinates() bool {
	return p.stored || (p.Lat != nil && p.Lon != nil)
}

// SetCoordinates stores a geocoding hit and its provenance.
func (p *Position) SetCoordinates(lat, lon float64, source string) {
	p.Lat = &lat
	p.Lon = &lon
	p.CoordSource = source
	p.geocoded = true
}

func (p *Position) readPosition(f Fields) {
	p.Lat = f.Float("lat")
	p.Lon = f.Float("lon")
	p.CoordSource = f.String("coord_quelle")
	p.stored = !f.IsNull("lat") && !f.IsNull("lon")
}

// overlay is what the record writes over its raw fields: nothing unless
// the coordinates were set in this run.
func (p *Position) overlay() any {
	if !p.geocoded {
		return nil
	}
	return positionJSON{Lat: p.Lat, Lon: p.Lon, CoordSource: p.CoordSource}
}

// RenovationBridge is one bridge inside a district group of bruecken.json.
type RenovationBridge struct {
	Name             string   `json:"-"`
	ConstructionYear *int     `json:"-"`
	PlannedStart     string   `json:"-"`
	PlannedEnd       string   `json:"-"`
	CostMillions     *float64 `json:"-"`
	StatusText       string   `json:"-"`
	Status           Status   `json:"-"`
	Position

	raw Fields
}

func (b *RenovationBridge) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	b.raw = f
	b.Name = f.String("name")
	b.ConstructionYear = f.Year("baujahr")
	b.PlannedStart = f.String("baubeginn")
	b.PlannedEnd = f.String("bauende")
	b.CostMillions = f.Float("kosten_mio")
	b.StatusText = f.String("status")
	b.Status = ParseStatus(b.StatusText)
	b.readPosition(f)
	return nil
}

func (b RenovationBridge) MarshalJSON() ([]byte, error) {
	type alias RenovationBridge
	return b.raw.merge(alias(b), b.overlay())
}

// DistrictGroup is one entry of the "bezirke" list.
type DistrictGroup struct {
	District string             `json:"-"`
	Bridges  []RenovationBridge `json:"bruecken,omitempty"`

	raw Fields
}

func (g *DistrictGroup) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	g.raw = f
	g.District = f.String("bezirk")
	if raw, ok := f.Raw("bruecken"); ok && !f.IsNull("bruecken") {
		if err := json.Unmarshal(raw, &g.Bridges); err != nil {
			return err
		}
	}
	return nil
}

func (g DistrictGroup) MarshalJSON() ([]byte, error) {
	type alias DistrictGroup
	return g.raw.merge(alias(g), nil)
}

// MaintenanceMeasure is one entry of "erhaltungsmassnahmen".
type MaintenanceMeasure struct {
	Name         string      `json:"-"`
	District     string      `json:"-"`
	Description  string      `json:"-"`
	Period       string      `json:"-"`
	CostMillions *float64    `json:"-"`
	Kind         MeasureKind `json:"-"`
	Position

	raw Fields
}

func (m *MaintenanceMeasure) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	m.raw = f
	m.Name = f.String("name")
	m.District = f.String("bezirk")
	m.Description = f.String("massnahme")
	m.Period = f.String("zeitraum")
	m.CostMillions = f.Float("kosten_mio")
	m.Kind = ClassifyMeasure(m.Description)
	m.readPosition(f)
	return nil
}

func (m MaintenanceMeasure) MarshalJSON() ([]byte, error) {
	type alias MaintenanceMeasure
	return m.raw.merge(alias(m), m.overlay())
}

// RenovationDataset is the whole of bruecken.json.
type RenovationDataset struct {
	PublishedAt   string               `json:"-"`
	DeclaredCount *int                 `json:"-"`
	Districts     []DistrictGroup      `json:"bezirke,omitempty"`
	Measures      []MaintenanceMeasure `json:"erhaltungsmassnahmen,omitempty"`

	raw Fields
}

func (d *RenovationDataset) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	d.raw = f
	d.PublishedAt = f.String("stand")
	d.DeclaredCount = declaredCount(f)
	if raw, ok := f.Raw("bezirke"); ok && !f.IsNull("bezirke") {
		if err := json.Unmarshal(raw, &d.Districts); err != nil {
			return err
		}
	}
	if raw, ok := f.Raw("erhaltungsmassnahmen"); ok && !f.IsNull("erhaltungsmassnahmen") {
		if err := json.Unmarshal(raw, &d.Measures); err != nil {
			return err
		}
	}
	return nil
}

func (d RenovationDataset) MarshalJSON() ([]byte, error) {
	type alias RenovationDataset
	return d.raw.merge(alias(d), nil)
}

// RecordCount counts district bridges and measures together.
func (d *RenovationDataset) RecordCount() int {
	n := len(d.Measures)
	for _, g := range d.Districts {
		n += len(g.Bridges)
	}
	return n
}

// DamagedBridge is one entry of bruecken_tagesspiegel.json.
type DamagedBridge struct {
	ID         string         `json:"-"`
	District   string         `json:"-"`
	Name       string         `json:"-"`
	Detail     string         `json:"-"`
	DamageText string         `json:"-"`
	Category   DamageCategory `json:"-"`
	Position

	raw Fields
}

func (b *DamagedBridge) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	b.raw = f
	b.ID = f.String("id")
	b.District = f.String("bezirk")
	b.Name = f.String("name")
	b.Detail = f.String("detail")
	b.DamageText = f.String("schadensart")
	text := b.DamageText
	if text == "" {
		text = b.Detail
	}
	b.Category = ClassifyDamage(text)
	b.readPosition(f)
	return nil
}

func (b DamagedBridge) MarshalJSON() ([]byte, error) {
	type alias DamagedBridge
	return b.raw.merge(alias(b), b.overlay())
}

// DamageDataset is the whole of bruecken_tagesspiegel.json.
type DamageDataset struct {
	PublishedAt   string          `json:"-"`
	DeclaredCount *int            `json:"-"`
	Bridges       []DamagedBridge `json:"bruecken,omitempty"`

	raw Fields
}

func (d *DamageDataset) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	d.raw = f
	d.PublishedAt = f.String("stand")
	d.DeclaredCount = declaredCount(f)
	if raw, ok := f.Raw("bruecken"); ok && !f.IsNull("bruecken") {
		if err := json.Unmarshal(raw, &d.Bridges); err != nil {
			return err
		}
	}
	return nil
}

func (d DamageDataset) MarshalJSON() ([]byte, error) {
	type alias DamageDataset
	return d.raw.merge(alias(d), nil)
}

func declaredCount(f Fields) *int {
	if f.IsNull("anzahl") {
		return nil
	}
	v := f.Float("anzahl")
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
