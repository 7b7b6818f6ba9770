package services

import (
	"berlin-bridges/models"
	"berlin-bridges/utils"
)

// CoordSourcePrefix precedes the Wikipedia row name in "coord_quelle".
const CoordSourcePrefix = "Wikipedia: "

// Geocoder fills missing coordinates from the Wikipedia index.
type Geocoder struct {
	matcher *Matcher
	logger  *utils.Logger
}

// NewGeocoder creates a Geocoder backed by matcher.
func NewGeocoder(matcher *Matcher, logger *utils.Logger) *Geocoder {
	return &Geocoder{matcher: matcher, logger: logger}
}

// GeocodeDamage updates the damage dataset in place. file labels the
// unmatched rows.
func (g *Geocoder) GeocodeDamage(ds *models.DamageDataset, file string) models.GeocodeResult {
	var res models.GeocodeResult
	for i := range ds.Bridges {
		b := &ds.Bridges[i]
		res.Total++
		if g.locate(&b.Position, b.Name, &res) {
			continue
		}
		res.Unmatched = append(res.Unmatched, models.UnmatchedBridge{
			File:     file,
			District: b.District,
			Name:     b.Name,
			ID:       b.ID,
			Detail:   b.Detail,
		})
	}
	g.logDone(file, res)
	return res
}

// GeocodeRenovation updates the renovation dataset in place. District
// bridges take their district from the enclosing group.
func (g *Geocoder) GeocodeRenovation(ds *models.RenovationDataset, file string) models.GeocodeResult {
	var res models.GeocodeResult
	for gi := range ds.Districts {
		group := &ds.Districts[gi]
		for bi := range group.Bridges {
			b := &group.Bridges[bi]
			res.Total++
			if g.locate(&b.Position, b.Name, &res) {
				continue
			}
			res.Unmatched = append(res.Unmatched, models.UnmatchedBridge{
				File:     file,
				Section:  models.SectionDistricts,
				District: group.District,
				Name:     b.Name,
			})
		}
	}

	for i := range ds.Measures {
		m := &ds.Measures[i]
		res.Total++
		if g.locate(&m.Position, m.Name, &res) {
			continue
		}
		res.Unmatched = append(res.Unmatched, models.UnmatchedBridge{
			File:     file,
			Section:  models.SectionMeasures,
			District: m.District,
			Name:     m.Name,
		})
	}
	g.logDone(file, res)
	return res
}

// locate returns false only when the record needs a coordinate and none
// was found.
func (g *Geocoder) locate(pos *models.Position, name string, res *models.GeocodeResult) bool {
	if pos.HasCoordinates() {
		res.AlreadyHad++
		return true
	}
	hit := g.matcher.Match(name)
	if hit == nil {
		g.logger.Debug("[geocoder] No match for %q", name)
		return false
	}
	g.logger.Debug("[geocoder] %q matched %q (%s)", name, hit.RawName, hit.SourceURL)
	pos.SetCoordinates(hit.Lat, hit.Lon, CoordSourcePrefix+hit.RawName)
	res.Matched++
	return true
}

func (g *Geocoder) logDone(file string, res models.GeocodeResult) {
	g.logger.Info("[geocoder] %s: %d records, %d already located, %d matched, %d unmatched",
		file, res.Total, res.AlreadyHad, res.Matched, len(res.Unmatched))
}
