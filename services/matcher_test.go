package services

import (
	"testing"

	"berlin-bridges/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Mühlendammbrücke", "muehlendammbruecke"},
		{"Straße des 17. Juni", "strasse des 17 juni"},
		{"Oberbaumbrücke[1][ 12 ]", "oberbaumbruecke"},
		{"  Brücke   am  Ufer ", "bruecke am ufer"},
		{"Rathenower Straße – Nord", "rathenower strasse - nord"},
		{"Pont Café", "pont cafe"},
		{"Brücke (Teltowkanal)", "bruecke teltowkanal"},
		{"A & B", "a b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.raw); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func testIndex() models.WikiIndex {
	entries := []models.WikiEntry{
		{RawName: "Elsenbrücke", Lat: 52.4967, Lon: 13.4603},
		{RawName: "Rudolf-Wissell-Brücke", Lat: 52.5275, Lon: 13.2794},
		{RawName: "Brücke Berliner Straße", Lat: 52.48, Lon: 13.33},
		{RawName: "Schloss Brücke", Lat: 52.51, Lon: 13.39},
	}
	idx := models.WikiIndex{}
	for _, e := range entries {
		idx[NormalizeName(e.RawName)] = e
	}
	return idx
}

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher(testIndex())
	if m.Size() != 4 {
		t.Errorf("Size: got %d, want 4", m.Size())
	}

	tests := []struct {
		name    string
		wantRaw string
	}{
		{"Elsenbrücke", "Elsenbrücke"},
		{"elsenbruecke", "Elsenbrücke"},
		{"Elsenbrücke Südost", "Elsenbrücke"},
		{"Elsenbrücke Überbau 2", "Elsenbrücke"},
		{"Elsenbrücke Bauwerk 3a", "Elsenbrücke"},
		{"Elsenbrücke Gewölbe West", "Elsenbrücke"},
		{"Rudolf Wissell Brücke", "Rudolf-Wissell-Brücke"},
		{"Schloss-Brücke", "Schloss Brücke"},
		{"Brücke Berliner Strasse", "Brücke Berliner Straße"},
	}

	for _, tt := range tests {
		hit := m.Match(tt.name)
		if hit == nil {
			t.Errorf("Match(%q) = nil; want %q", tt.name, tt.wantRaw)
			continue
		}
		if hit.RawName != tt.wantRaw {
			t.Errorf("Match(%q) = %q; want %q", tt.name, hit.RawName, tt.wantRaw)
		}
	}
}

func TestMatcherMisses(t *testing.T) {
	m := NewMatcher(testIndex())

	for _, name := range []string{"", "   ", "Unbekannte Brücke", "Elsenbrücke Mitte"} {
		if hit := m.Match(name); hit != nil {
			t.Errorf("Match(%q) = %q; want nil", name, hit.RawName)
		}
	}
}
