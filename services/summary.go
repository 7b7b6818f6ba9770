package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"berlin-bridges/models"
	"berlin-bridges/utils"
)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(entries []*models.CatalogEntry) *models.SummaryReport {
	report := &models.SummaryReport{
		ByStatus:         make(map[models.Status]int),
		ByDistrict:       make(map[string]int),
		ByDamageCategory: make(map[models.DamageCategory]int),
	}

	if len(entries) == 0 {
		return report
	}

	report.TotalBridges = len(entries)

	costed := 0
	for _, e := range entries {
		switch e.Dataset {
		case models.DatasetRenovation:
			report.RenovationCount++
			if e.Section == models.SectionDistricts {
				report.ByStatus[e.Status]++
			}
		case models.DatasetDamage:
			report.DamageCount++
			report.ByDamageCategory[e.DamageCategory]++
		}
		if e.Lat != nil && e.Lon != nil {
			report.WithCoordinates++
		}
		if e.District != "" {
			report.ByDistrict[e.District]++
		}
		if e.CostMillions != nil && *e.CostMillions > 0 {
			costed++
			report.TotalCost += *e.CostMillions
			if report.MostExpensive == nil || *e.CostMillions > *report.MostExpensive.CostMillions {
				report.MostExpensive = e
			}
		}
	}

	report.CoveragePercent = round2(100 * float64(report.WithCoordinates) / float64(report.TotalBridges))
	report.TotalCost = round2(report.TotalCost)
	if costed > 0 {
		report.AverageCost = round2(report.TotalCost / float64(costed))
	}

	return report
}

func (s *SummaryService) Print(w io.Writer, r *models.SummaryReport, geo *models.GeocodeResult) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  BERLIN BRIDGES SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	if geo != nil {
		fmt.Fprintf(w, "\033[1;33m  Geocoding\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  Already had coordinates : \033[1m%d\033[0m\n", geo.AlreadyHad)
		fmt.Fprintf(w, "  Newly matched           : \033[1m%d\033[0m\n", geo.Matched)
		fmt.Fprintf(w, "  Unmatched               : \033[1m%d\033[0m\n", len(geo.Unmatched))
		fmt.Fprintf(w, "  Total bridges           : \033[1m%d\033[0m\n", geo.Total)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Catalog records      : \033[1m%d\033[0m\n", r.TotalBridges)
	fmt.Fprintf(w, "  Renovation records   : \033[1m%d\033[0m\n", r.RenovationCount)
	fmt.Fprintf(w, "  Damaged bridges      : \033[1m%d\033[0m\n", r.DamageCount)
	fmt.Fprintf(w, "  With coordinates     : \033[1m%d\033[0m (%.2f%%)\n", r.WithCoordinates, r.CoveragePercent)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Estimated Cost (million EUR)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalCost > 0 {
		fmt.Fprintf(w, "  Total   : \033[1;32m%.2f\033[0m\n", r.TotalCost)
		fmt.Fprintf(w, "  Average : \033[1;32m%.2f\033[0m\n", r.AverageCost)
		if r.MostExpensive != nil {
			fmt.Fprintf(w, "  Largest : %s (%s) \033[1;31m%.2f\033[0m\n",
				truncate(r.MostExpensive.Name, 30), r.MostExpensive.District, *r.MostExpensive.CostMillions)
		}
	} else {
		fmt.Fprintf(w, "  No cost data available\n")
	}
	fmt.Fprintln(w)

	printCounts(w, "Projects by Status", stringKeys(r.ByStatus), thin)
	printCounts(w, "Damage Categories", stringKeys(r.ByDamageCategory), thin)
	printCounts(w, "Bridges by District", r.ByDistrict, thin)

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

type keyCount struct {
	key   string
	count int
}

// sortedCounts orders by count descending, then key ascending.
func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, c := range m {
		out = append(out, keyCount{k, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func printCounts(w io.Writer, title string, m map[string]int, thin string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(m) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}
	for _, kc := range sortedCounts(m) {
		bar := strings.Repeat("█", min(kc.count, 30))
		fmt.Fprintf(w, "  %-28s %s (%d)\n", truncate(kc.key, 26), bar, kc.count)
	}
	fmt.Fprintln(w)
}

func stringKeys[K ~string](m map[K]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
