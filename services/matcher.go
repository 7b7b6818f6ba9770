package services

import (
	"regexp"
	"strings"

	"berlin-bridges/models"
)

var (
	// partSuffixRegexp strips compass qualifiers and sub-structure labels
	// ("Überbau 1", "Teilbauwerk 2", "Bauwerk 3a", "Gewölbe …").
	partSuffixRegexp = regexp.MustCompile(`(?i)\s+(südost|nordwest|nord|süd|ost|west|überbau\s*\d+|teilbauwerk\s*\d+|bauwerk\s*\d+[a-z]?|gewölbe.*|galerie.*)$`)

	bridgeSuffixRegexp = regexp.MustCompile(`(?i)brücke$`)
	streetRegexp       = regexp.MustCompile(`(?i)straße`)
)

// Matcher resolves dataset bridge names against the Wikipedia index.
type Matcher struct {
	index models.WikiIndex
}

// NewMatcher wraps a prebuilt index.
func NewMatcher(index models.WikiIndex) *Matcher {
	if index == nil {
		index = models.WikiIndex{}
	}
	return &Matcher{index: index}
}

// Size returns the number of indexed names.
func (m *Matcher) Size() int { return len(m.index) }

// Match returns the index entry for name, or nil. It tries the exact key,
// then the name without a part suffix, then spelling variations.
func (m *Matcher) Match(name string) *models.WikiEntry {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	if hit := m.lookup(name); hit != nil {
		return hit
	}

	if base := partSuffixRegexp.ReplaceAllString(name, ""); base != name {
		if hit := m.lookup(base); hit != nil {
			return hit
		}
	}

	variations := []string{
		strings.ReplaceAll(name, "-", " "),
		strings.ReplaceAll(name, " ", "-"),
		bridgeSuffixRegexp.ReplaceAllString(name, "bruecke"),
		streetRegexp.ReplaceAllString(name, "strasse"),
	}
	for _, v := range variations {
		if hit := m.lookup(v); hit != nil {
			return hit
		}
	}
	return nil
}

func (m *Matcher) lookup(name string) *models.WikiEntry {
	if e, ok := m.index[NormalizeName(name)]; ok {
		return &e
	}
	return nil
}
