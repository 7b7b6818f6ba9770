package wikipedia

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"berlin-bridges/models"
)

const (
	nameColumn     = 1
	locationColumn = 4
	minColumns     = 5
)

// coordRegexp finds the first "lat lon" decimal pair in the location cell.
var coordRegexp = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s+(-?\d+(?:\.\d+)?)`)

// ParseSegment extracts every geocoded row from the wikitables of one
// bridge list page. Rows with too few cells or without a decimal
// coordinate pair are skipped.
func ParseSegment(r io.Reader, sourceURL string) ([]models.WikiEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: parse %s: %w", sourceURL, err)
	}

	var entries []models.WikiEntry
	doc.Find("table.wikitable").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < minColumns {
				return
			}

			name := cellText(cells.Eq(nameColumn))
			location := cellText(cells.Eq(locationColumn))

			m := coordRegexp.FindStringSubmatch(location)
			if m == nil {
				return
			}
			lat, errLat := strconv.ParseFloat(m[1], 64)
			lon, errLon := strconv.ParseFloat(m[2], 64)
			if errLat != nil || errLon != nil {
				return
			}

			entries = append(entries, models.WikiEntry{
				RawName:   name,
				Lat:       lat,
				Lon:       lon,
				SourceURL: sourceURL,
			})
		})
	})
	return entries, nil
}

// cellText joins the trimmed, non-empty text nodes of a cell with single
// spaces, so that "<a>Foo</a><br>Bar" reads "Foo Bar" rather than "FooBar".
func cellText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
