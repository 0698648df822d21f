package trip

import "tripsmith/internal/domain"

var hotelListAliases = []string{"hotels", "hotelOptions"}

var hotelAliases = map[string][]string{
	"name":        {"hotelName", "name"},
	"address":     {"hotelAddress", "address"},
	"price":       {"price", "pricePerNight", "price_per_night"},
	"rating":      {"rating"},
	"description": {"description", "descriptions"},
	"imageUrl":    {"hotelImageUrl", "imageUrl", "image_url"},
}

func hotelText(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		if s := lookupText(m, p); s != "" {
			return s
		}
	}
	return ""
}

// Hotels extracts the recommended-hotels list from a parsed data object.
// Field mapping is direct pass-through; non-object entries are dropped.
// Images are resolved per card at read time, not here.
func Hotels(data map[string]any) []domain.HotelRecord {
	var raw []any
	for _, k := range hotelListAliases {
		if seq, ok := data[k].([]any); ok {
			raw = seq
			break
		}
	}

	out := make([]domain.HotelRecord, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.HotelRecord{
			Name:        hotelText(m, "name"),
			Address:     hotelText(m, "address"),
			Price:       hotelText(m, "price"),
			Rating:      hotelText(m, "rating"),
			Description: hotelText(m, "description"),
			ImageURL:    hotelText(m, "imageUrl"),
		})
	}
	return out
}
