// Package normalize maps the mixed vocabularies coming back from the
// backend microservices (Spanish/English status strings, free-text
// categories, legacy metadata embedded in descriptions) into the single
// canonical vocabulary the gateway exposes.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical moderation statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Categories every deployment supports out of the box. Unknown categories
// observed in live data are still served; this is the floor, not a filter.
var DefaultCategories = []string{"restaurant", "hotel", "natural", "viewpoint"}

// categorySynonyms collapses backend spellings into canonical categories.
// museo/museum intentionally alias viewpoint, matching the historical data.
var categorySynonyms = map[string]string{
	"restaurante":  "restaurant",
	"restaurantes": "restaurant",
	"restaurant":   "restaurant",
	"comida":       "restaurant",
	"hotel":        "hotel",
	"hoteles":      "hotel",
	"natural":      "natural",
	"naturaleza":   "natural",
	"parque":       "natural",
	"parques":      "natural",
	"viewpoint":    "viewpoint",
	"mirador":      "viewpoint",
	"miradores":    "viewpoint",
	"museum":       "viewpoint",
	"museo":        "viewpoint",
	"museos":       "viewpoint",
}

// legacy descriptions look like "Categoría: Hotel - Ubicación: Centro"
var descCategoryRe = regexp.MustCompile(`(?i)categor[ií]a\s*:\s*([^\-\n\r]+)`)

// stripMarks removes combining marks after NFD decomposition, so
// "Categoría" and "Categoria" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Status maps a backend status string to pending/approved/rejected.
// Backends answer in two vocabularies (PENDIENTE/ACEPTADO/RECHAZADO and
// PENDING/ACCEPTED/REJECTED); the solicitudes service additionally uses
// pendiente/aceptada/rechazada. Empty or missing input means pending.
// Anything unrecognized is passed through lowercased so it stays visible
// instead of being swallowed.
func Status(raw string) string {
	u := strings.ToUpper(strings.TrimSpace(raw))
	switch u {
	case "", "PENDIENTE", "PENDING":
		return StatusPending
	case "ACEPTADO", "ACEPTADA", "ACCEPTED", "APPROVED":
		return StatusApproved
	case "RECHAZADO", "RECHAZADA", "REJECTED":
		return StatusRejected
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// Category cleans a raw category (trim, lowercase, strip diacritics) and
// maps it through the synonym table. Unknown values pass through cleaned,
// so novel categories remain usable as filters.
func Category(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	if canonical, ok := categorySynonyms[s]; ok {
		return canonical
	}
	return s
}

// CategoryFromDescription recovers a category embedded in a legacy
// description of the form "Categoría: X - Ubicación: ...". Returns "" when
// no category is embedded. Callers use this only when the structured
// category field is absent.
func CategoryFromDescription(desc string) string {
	if desc == "" {
		return ""
	}
	m := descCategoryRe.FindStringSubmatch(desc)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
