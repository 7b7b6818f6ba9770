package models

// Catalog flattens the renovation dataset, district bridges first.
func (d *RenovationDataset) Catalog() []*CatalogEntry {
	out := make([]*CatalogEntry, 0, d.RecordCount())
	for _, g := range d.Districts {
		for _, b := range g.Bridges {
			out = append(out, &CatalogEntry{
				Dataset:      DatasetRenovation,
				Section:      SectionDistricts,
				District:     g.District,
				Name:         b.Name,
				Lat:          b.Lat,
				Lon:          b.Lon,
				CoordSource:  b.CoordSource,
				Status:       b.Status,
				CostMillions: b.CostMillions,
			})
		}
	}
	for _, m := range d.Measures {
		out = append(out, &CatalogEntry{
			Dataset:      DatasetRenovation,
			Section:      SectionMeasures,
			District:     m.District,
			Name:         m.Name,
			Lat:          m.Lat,
			Lon:          m.Lon,
			CoordSource:  m.CoordSource,
			CostMillions: m.CostMillions,
		})
	}
	return out
}

// Catalog flattens the damage dataset.
func (d *DamageDataset) Catalog() []*CatalogEntry {
	out := make([]*CatalogEntry, 0, len(d.Bridges))
	for _, b := range d.Bridges {
		out = append(out, &CatalogEntry{
			Dataset:        DatasetDamage,
			District:       b.District,
			Name:           b.Name,
			Lat:            b.Lat,
			Lon:            b.Lon,
			CoordSource:    b.CoordSource,
			DamageCategory: b.Category,
		})
	}
	return out
}
