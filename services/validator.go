package services

import (
	"fmt"
	"time"

	"berlin-bridges/models"
	"berlin-bridges/utils"
)

// Berlin's twelve boroughs.
var Boroughs = []string{
	"Mitte",
	"Friedrichshain-Kreuzberg",
	"Pankow",
	"Charlottenburg-Wilmersdorf",
	"Spandau",
	"Steglitz-Zehlendorf",
	"Tempelhof-Schöneberg",
	"Neukölln",
	"Treptow-Köpenick",
	"Marzahn-Hellersdorf",
	"Lichtenberg",
	"Reinickendorf",
}

// BoundingBox is a lat/lon rectangle in degrees.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BerlinBounds encloses the city limits with a small margin.
var BerlinBounds = BoundingBox{MinLat: 52.33, MaxLat: 52.68, MinLon: 13.08, MaxLon: 13.77}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Rule names reported in ValidationIssue.Rule.
const (
	RuleDistrict    = "district"
	RuleCoordinates = "coordinates"
	RuleStatus      = "status"
	RuleSchedule    = "schedule"
	RuleCost        = "cost"
	RuleBuildYear   = "construction_year"
	RuleDamageClass = "damage_category"
	RuleRecordCount = "record_count"
)

const minBuildYear = 1800

// Validator runs the data-quality checks over both datasets.
type Validator struct {
	logger   *utils.Logger
	bounds   BoundingBox
	boroughs map[string]struct{}
	thisYear int
}

// NewValidator creates a Validator using the Berlin bounds and boroughs.
func NewValidator(logger *utils.Logger) *Validator {
	v := &Validator{
		logger:   logger,
		bounds:   BerlinBounds,
		boroughs: make(map[string]struct{}, len(Boroughs)),
		thisYear: time.Now().Year(),
	}
	for _, b := range Boroughs {
		v.boroughs[NormalizeName(b)] = struct{}{}
	}
	return v
}

// ValidateRenovation checks bruecken.json.
func (v *Validator) ValidateRenovation(ds *models.RenovationDataset, file string) []models.ValidationIssue {
	var issues []models.ValidationIssue
	add := func(section, district, name, rule string, sev models.Severity, format string, args ...any) {
		issues = append(issues, models.ValidationIssue{
			File: file, Section: section, District: district, Name: name,
			Rule: rule, Severity: sev, Message: fmt.Sprintf(format, args...),
		})
	}

	for _, g := range ds.Districts {
		if !v.isBorough(g.District) {
			add(models.SectionDistricts, g.District, "", RuleDistrict, models.SeverityError,
				"%q is not a Berlin borough", g.District)
		}
		for _, b := range g.Bridges {
			check := func(rule string, sev models.Severity, format string, args ...any) {
				add(models.SectionDistricts, g.District, b.Name, rule, sev, format, args...)
			}
			v.checkPosition(b.Position, check)
			v.checkCost(b.CostMillions, check)

			if b.Status == models.StatusUnknown {
				check(RuleStatus, models.SeverityError, "unknown status %q", b.StatusText)
			}
			if y := b.ConstructionYear; y != nil && (*y < minBuildYear || *y > v.thisYear) {
				check(RuleBuildYear, models.SeverityError, "construction year %d outside %d..%d",
					*y, minBuildYear, v.thisYear)
			}
			start, end := models.ExtractYear(b.PlannedStart), models.ExtractYear(b.PlannedEnd)
			if start != nil && end != nil && *start > *end {
				check(RuleSchedule, models.SeverityError, "planned start %d after planned end %d", *start, *end)
			}
		}
	}

	for _, m := range ds.Measures {
		check := func(rule string, sev models.Severity, format string, args ...any) {
			add(models.SectionMeasures, m.District, m.Name, rule, sev, format, args...)
		}
		if !v.isBorough(m.District) {
			check(RuleDistrict, models.SeverityError, "%q is not a Berlin borough", m.District)
		}
		v.checkPosition(m.Position, check)
		v.checkCost(m.CostMillions, check)
	}

	if n := ds.DeclaredCount; n != nil && *n != ds.RecordCount() {
		add("", "", "", RuleRecordCount, models.SeverityError,
			"declared %d records, found %d", *n, ds.RecordCount())
	}

	v.logDone(file, issues)
	return issues
}

// ValidateDamage checks bruecken_tagesspiegel.json.
func (v *Validator) ValidateDamage(ds *models.DamageDataset, file string) []models.ValidationIssue {
	var issues []models.ValidationIssue
	for _, b := range ds.Bridges {
		check := func(rule string, sev models.Severity, format string, args ...any) {
			issues = append(issues, models.ValidationIssue{
				File: file, District: b.District, Name: b.Name,
				Rule: rule, Severity: sev, Message: fmt.Sprintf(format, args...),
			})
		}
		if !v.isBorough(b.District) {
			check(RuleDistrict, models.SeverityError, "%q is not a Berlin borough", b.District)
		}
		v.checkPosition(b.Position, check)
		if b.Category == models.DamageOther {
			check(RuleDamageClass, models.SeverityWarning, "damage %q not in a known category", b.Detail)
		}
	}

	if n := ds.DeclaredCount; n != nil && *n != len(ds.Bridges) {
		issues = append(issues, models.ValidationIssue{
			File: file, Rule: RuleRecordCount, Severity: models.SeverityError,
			Message: fmt.Sprintf("declared %d records, found %d", *n, len(ds.Bridges)),
		})
	}

	v.logDone(file, issues)
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []models.ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == models.SeverityError {
			return true
		}
	}
	return false
}

type checkFunc func(rule string, sev models.Severity, format string, args ...any)

func (v *Validator) checkPosition(p models.Position, check checkFunc) {
	switch {
	case p.Lat == nil && p.Lon == nil && !p.HasCoordinates():
	case (p.Lat == nil || p.Lon == nil) && p.HasCoordinates():
		check(RuleCoordinates, models.SeverityError, "lat/lon are set but not numeric")
	case p.Lat == nil || p.Lon == nil:
		check(RuleCoordinates, models.SeverityError, "only one of lat/lon is set")
	case !v.bounds.Contains(*p.Lat, *p.Lon):
		check(RuleCoordinates, models.SeverityError, "%.5f,%.5f is outside Berlin", *p.Lat, *p.Lon)
	}
}

func (v *Validator) checkCost(cost *float64, check checkFunc) {
	if cost != nil && *cost < 0 {
		check(RuleCost, models.SeverityError, "negative cost %.2f", *cost)
	}
}

func (v *Validator) isBorough(district string) bool {
	_, ok := v.boroughs[NormalizeName(district)]
	return ok
}

func (v *Validator) logDone(file string, issues []models.ValidationIssue) {
	errs := 0
	for _, i := range issues {
		if i.Severity == models.SeverityError {
			errs++
		}
	}
	if errs > 0 {
		v.logger.Warn("[validator] %s: %d errors, %d warnings", file, errs, len(issues)-errs)
		return
	}
	v.logger.Info("[validator] %s: no errors, %d warnings", file, len(issues))
}
