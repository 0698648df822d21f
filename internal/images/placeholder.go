package images

import (
	"fmt"
	"html"
	"net/url"
)

// Placeholder renders the entity name as centered text over a background
// hue derived from the name (sum of character codes mod 360). The same name
// always yields the same image, with no network involved.
func Placeholder(name string) string {
	if name == "" {
		name = "Place"
	}
	hue := placeholderHue(name)

	display := []rune(name)
	if len(display) > 20 {
		display = display[:20]
	}

	svg := fmt.Sprintf(
		"<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 600 400'>"+
			"<rect width='600' height='400' fill='hsl(%d, 50%%, 90%%)'/>"+
			"<text x='50%%' y='50%%' font-family='Arial' font-size='24' fill='hsl(%d, 70%%, 30%%)' "+
			"text-anchor='middle' dominant-baseline='middle'>%s</text></svg>",
		hue, hue, html.EscapeString(string(display)),
	)
	return "data:image/svg+xml," + url.PathEscape(svg)
}

func placeholderHue(name string) int {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return sum % 360
}
