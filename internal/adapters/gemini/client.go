package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"tripsmith/internal/adapters/observability"
	"tripsmith/internal/domain"
)

// promptTemplate is the production prompt; the model is asked for JSON but
// nothing enforces the response shape, which is why the read path parses
// defensively.
const promptTemplate = "Generate Travel Plan for Location : {location} for {totalDays} Days " +
	"for {traveler} with a {budget} budget, give me Hotels options list with HotelName, " +
	"Hotel address, Price, hotel image url, geo coordinates, rating, descriptions and " +
	"suggest itinerary with placeName, Place details, Place Image url, Geo coordinates, " +
	"ticket pricing, rating, Time travel each of the location for {totalDays} with each " +
	"day plan with best time to visit in JSON format."

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: cl, model: model}, nil
}

// BuildPrompt interpolates a selection into the prompt template.
func BuildPrompt(sel domain.TripSelection) string {
	r := strings.NewReplacer(
		"{location}", sel.Destination,
		"{totalDays}", strconv.Itoa(sel.Days),
		"{traveler}", sel.Travelers,
		"{budget}", sel.Budget,
	)
	return r.Replace(promptTemplate)
}

// GenerateTripPlan returns the model's raw response text. Callers persist
// it verbatim; parsing happens on read.
func (c *Client) GenerateTripPlan(ctx context.Context, sel domain.TripSelection) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](1.0),
		TopP:             genai.Ptr[float32](0.95),
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(BuildPrompt(sel)), cfg)
	if err != nil {
		observability.ObserveExternal("gemini", "generate_content", 0, time.Since(start))
		return "", fmt.Errorf("generate trip plan: %w", err)
	}
	observability.ObserveExternal("gemini", "generate_content", 200, time.Since(start))

	text := resp.Text()
	if text == "" {
		return "", errors.New("model returned no text")
	}
	return text, nil
}
