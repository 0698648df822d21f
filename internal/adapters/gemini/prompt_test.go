package gemini_test

import (
	"strings"
	"testing"

	"tripsmith/internal/adapters/gemini"
	"tripsmith/internal/domain"
)

func TestBuildPrompt_Interpolation(t *testing.T) {
	sel := domain.TripSelection{
		Destination: "Las Vegas",
		Days:        3,
		Budget:      "Cheap",
		Travelers:   "A Couple",
	}
	got := gemini.BuildPrompt(sel)

	for _, want := range []string{
		"Location : Las Vegas for 3 Days",
		"for A Couple with a Cheap budget",
		"each of the location for 3 with each day plan",
		"in JSON format",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{") {
		t.Errorf("unreplaced placeholder left in prompt:\n%s", got)
	}
}
