package domain

import "time"

// TripSelection is the raw user input a trip was generated from.
type TripSelection struct {
	Destination string `json:"destination" bson:"destination"`
	Days        int    `json:"days" bson:"days"`
	Budget      string `json:"budget" bson:"budget"`
	Travelers   string `json:"travelers" bson:"travelers"`
}

// TripRecord is the persisted trip document. TripData holds the generative
// model's response verbatim: either the raw text (possibly wrapped in a
// markdown code fence) or an already-decoded object. It stays opaque until
// parsed; no shape beyond "optional hotels/hotelOptions and itinerary
// fields" is guaranteed.
type TripRecord struct {
	ID        string        `json:"id" bson:"_id"`
	UserEmail string        `json:"userEmail" bson:"userEmail"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	Selection TripSelection `json:"userSelection" bson:"userSelection"`
	TripData  any           `json:"tripData,omitempty" bson:"tripData,omitempty"`
}

// ActivityRecord is one canonical itinerary entry. PlaceName is never empty.
type ActivityRecord struct {
	PlaceName         string `json:"placeName"`
	PlaceDetails      string `json:"placeDetails"`
	TicketPricing     string `json:"ticketPricing"`
	Rating            string `json:"rating"`
	TimeSlot          string `json:"timeSlot,omitempty"`
	Duration          string `json:"duration,omitempty"`
	TimeTravel        string `json:"timeTravel,omitempty"`
	BestTimeToVisit   string `json:"bestTimeToVisit,omitempty"`
	TravelTime        string `json:"travelTime,omitempty"`
	SuggestedDuration string `json:"suggestedDuration,omitempty"`
	PlaceType         string `json:"placeType,omitempty"`
	PlaceImageURL     string `json:"placeImageUrl"`
	OriginalImageURL  string `json:"originalImageUrl,omitempty"`
}

// DayPlan is one day of a canonical itinerary. Plan preserves source order
// after deduplication.
type DayPlan struct {
	Day             int              `json:"day"`
	Theme           string           `json:"theme,omitempty"`
	BestTimeToVisit string           `json:"bestTimeToVisit,omitempty"`
	Plan            []ActivityRecord `json:"plan"`
}

// HotelRecord is a pass-through projection of one recommended hotel. Hotels
// are not deduplicated; their images resolve lazily, per rendered card.
type HotelRecord struct {
	Name        string `json:"hotelName"`
	Address     string `json:"hotelAddress,omitempty"`
	Price       string `json:"price,omitempty"`
	Rating      string `json:"rating,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"hotelImageUrl"`
}

// ImageCategory selects the fallback image, probe timeout, and query
// variants used when resolving a display image.
type ImageCategory string

const (
	ImageHotel       ImageCategory = "hotel"
	ImagePlace       ImageCategory = "place"
	ImageDestination ImageCategory = "destination"
	ImageGeneral     ImageCategory = "general"
)

// ImageRequest describes the entity an image is wanted for.
type ImageRequest struct {
	Name      string
	Category  ImageCategory
	PlaceType string // place category tag (palace, museum, ...), may be empty
	Locality  string // address context for hotels, may be empty
	DirectURL string // embedded source URL from the model, may be invalid
}
