package models

import (
	"regexp"
	"strings"
)

// Status is the planning state of a renovation project.
type Status string

const (
	StatusUnderConstruction Status = "under_construction"
	StatusInPlanning        Status = "in_planning"
	StatusNotScheduled      Status = "not_scheduled"
	StatusUnknown           Status = "unknown"
)

// ParseStatus maps the free-text status of bruecken.json onto Status.
// "im Bau", "in Planung" and "noch nicht terminiert" are the published values.
func ParseStatus(s string) Status {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "":
		return StatusUnknown
	case strings.Contains(t, "nicht terminiert"), strings.Contains(t, "nicht geplant"),
		strings.Contains(t, "ohne termin"), t == "offen":
		return StatusNotScheduled
	case strings.Contains(t, "im bau"), strings.Contains(t, "in bau"),
		strings.Contains(t, "bauarbeiten"):
		return StatusUnderConstruction
	case strings.Contains(t, "planung"):
		return StatusInPlanning
	}
	return StatusUnknown
}

// DamageCategory classifies the defect of a damaged bridge.
type DamageCategory string

const (
	DamageStressCorrosion DamageCategory = "spannungsrisskorrosion"
	DamageCouplingJoint   DamageCategory = "koppelfugen"
	DamageAlkaliSilica    DamageCategory = "akr"
	DamageCorrosion       DamageCategory = "korrosion"
	DamageOther           DamageCategory = "sonstige"
)

var (
	akrRegexp  = regexp.MustCompile(`\bakr\b|alkali`)
	rustRegexp = regexp.MustCompile(`\brost`)
)

// ClassifyDamage picks the most specific category named in text.
func ClassifyDamage(text string) DamageCategory {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "spannungsriss"):
		return DamageStressCorrosion
	case strings.Contains(t, "koppelfuge"):
		return DamageCouplingJoint
	case akrRegexp.MatchString(t):
		return DamageAlkaliSilica
	case strings.Contains(t, "korrosion"), rustRegexp.MatchString(t):
		return DamageCorrosion
	}
	return DamageOther
}

// MeasureKind separates replacement new-builds from preservation work.
type MeasureKind string

const (
	MeasureReplacement  MeasureKind = "ersatzneubau"
	MeasurePreservation MeasureKind = "erhaltungsmassnahme"
)

// ClassifyMeasure reads the "massnahme" text of a preservation record.
func ClassifyMeasure(text string) MeasureKind {
	if strings.Contains(strings.ToLower(text), "neubau") {
		return MeasureReplacement
	}
	return MeasurePreservation
}
