package images

import (
	"strings"

	"tripsmith/internal/domain"
)

// placeTypeKeywords maps a place's category tag to a descriptive search
// phrase. Unknown types fall back to the generic landmark phrase.
var placeTypeKeywords = map[string]string{
	"palace":   "palace architecture",
	"museum":   "museum building",
	"bridge":   "bridge landmark",
	"garden":   "garden park",
	"church":   "church architecture",
	"tower":    "tower landmark",
	"market":   "market street",
	"square":   "city square plaza",
	"park":     "park landscape",
	"beach":    "beach ocean",
	"mountain": "mountain landscape",
	"temple":   "temple architecture",
}

const genericPlaceKeyword = "landmark tourism"

// queryVariants builds search queries from most to least specific for the
// request's category. Empty variants are produced when hints are missing;
// the caller skips them.
func queryVariants(req domain.ImageRequest) []string {
	name := strings.TrimSpace(req.Name)
	switch req.Category {
	case domain.ImageHotel:
		loc := localityContext(req.Locality)
		return []string{
			joinWords(name, "hotel", loc),
			joinWords(name, "hotel"),
			joinWords("luxury hotel", loc),
			joinWords("hotel", loc),
			"luxury hotel lobby",
		}
	case domain.ImagePlace:
		kw := placeTypeKeywords[strings.ToLower(strings.TrimSpace(req.PlaceType))]
		if kw == "" {
			kw = genericPlaceKeyword
		}
		return []string{
			joinWords(name, kw),
			name,
			joinWords(name, "landmark"),
			kw,
		}
	case domain.ImageDestination:
		return []string{
			joinWords(name, "city skyline"),
			joinWords(name, "landscape"),
			joinWords(name, "tourism"),
			name,
			"city skyline urban",
		}
	default:
		return []string{
			joinWords(name, "travel"),
			"vacation",
			"tourism",
		}
	}
}

// localityContext keeps the last two comma-separated address parts, which
// is usually "city, country" in the model's hotel addresses.
func localityContext(address string) string {
	parts := strings.Split(address, ",")
	kept := parts
	if len(parts) > 2 {
		kept = parts[len(parts)-2:]
	}
	var out []string
	for _, p := range kept {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

func joinWords(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}
