// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"strings"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// headerLineLimit bounds how deep into the text the affiliation parser
// looks. Author/affiliation blocks sit above the abstract on page one.
const headerLineLimit = 60

// countries maps lowercase country names to their canonical form. The
// table covers the countries that dominate the corpus; unlisted countries
// simply produce no affiliation entry.
var countries = map[string]string{
	"argentina":            "Argentina",
	"australia":            "Australia",
	"austria":              "Austria",
	"belgium":              "Belgium",
	"brazil":               "Brazil",
	"canada":               "Canada",
	"chile":                "Chile",
	"china":                "China",
	"czech republic":       "Czech Republic",
	"denmark":              "Denmark",
	"finland":              "Finland",
	"france":               "France",
	"germany":              "Germany",
	"greece":               "Greece",
	"hong kong":            "Hong Kong",
	"hungary":              "Hungary",
	"india":                "India",
	"ireland":              "Ireland",
	"israel":               "Israel",
	"italy":                "Italy",
	"japan":                "Japan",
	"luxembourg":           "Luxembourg",
	"mexico":               "Mexico",
	"netherlands":          "Netherlands",
	"the netherlands":      "Netherlands",
	"new zealand":          "New Zealand",
	"norway":               "Norway",
	"poland":               "Poland",
	"portugal":             "Portugal",
	"romania":              "Romania",
	"russia":               "Russia",
	"saudi arabia":         "Saudi Arabia",
	"singapore":            "Singapore",
	"south africa":         "South Africa",
	"south korea":          "South Korea",
	"korea":                "South Korea",
	"spain":                "Spain",
	"sweden":               "Sweden",
	"switzerland":          "Switzerland",
	"taiwan":               "Taiwan",
	"turkey":               "Turkey",
	"uae":                  "United Arab Emirates",
	"united arab emirates": "United Arab Emirates",
	"uk":                   "United Kingdom",
	"united kingdom":       "United Kingdom",
	"usa":                  "United States",
	"u.s.a":                "United States",
	"united states":        "United States",
	"vietnam":              "Vietnam",
}

// headerBlock returns the leading lines of the extracted text up to the
// abstract heading, where author and affiliation information lives.
func headerBlock(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > headerLineLimit {
		lines = lines[:headerLineLimit]
	}

	var header []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if lower == "abstract" || strings.HasPrefix(lower, "abstract—") || strings.HasPrefix(lower, "abstract.") {
			break
		}
		header = append(header, trimmed)
	}
	return header
}

// parseAffiliations scans the header block for name/country pairs. A line
// matching a known author sets the current name; a line carrying a country
// closes the pair. Affiliation lines with no preceding author line fall
// back to the institution name on that line.
func parseAffiliations(text string, authors []string) []types.Affiliation {
	var affiliations []types.Affiliation
	current := ""

	for _, line := range headerBlock(text) {
		if line == "" {
			continue
		}

		if author := matchAuthor(line, authors); author != "" {
			current = author
			continue
		}

		country := findCountry(line)
		if country == "" {
			continue
		}

		name := current
		if name == "" {
			name = institutionName(line)
		}
		if name == "" {
			continue
		}
		affiliations = append(affiliations, types.Affiliation{Name: name, Country: country})
		current = ""
	}

	return affiliations
}

// matchAuthor returns the author whose name appears in the line, favoring
// exact line matches over containment.
func matchAuthor(line string, authors []string) string {
	nl := normalizeName(stripMarkers(line))
	if nl == "" {
		return ""
	}
	for _, author := range authors {
		if normalizeName(author) == nl {
			return author
		}
	}
	for _, author := range authors {
		na := normalizeName(author)
		if na != "" && strings.Contains(nl, na) {
			return author
		}
	}
	return ""
}

// findCountry returns the canonical country name ending the line, if any.
// Country names appear as the final component of an affiliation line
// ("MIT, Cambridge, USA").
func findCountry(line string) string {
	lower := strings.ToLower(strings.TrimRight(line, " .,"))
	for raw, canonical := range countries {
		if lower == raw || strings.HasSuffix(lower, ", "+raw) || strings.HasSuffix(lower, " "+raw) {
			return canonical
		}
	}
	return ""
}

// institutionName returns the leading component of an affiliation line.
func institutionName(line string) string {
	parts := strings.Split(line, ",")
	return strings.TrimSpace(stripMarkers(parts[0]))
}

// stripMarkers removes footnote markers and numbers that PDF text layers
// attach to author and affiliation lines.
func stripMarkers(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '*', '†', '‡', '§', '¶', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return -1
		}
		return r
	}, s)
}
