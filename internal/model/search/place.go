package search

// BaselineRelevancy is assigned to every place that enters a search before
// any refinement.
const BaselineRelevancy = 1.0

// Place is a single point of interest in a search result set.
type Place struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	Type      string   `json:"type,omitempty"`
	URL       string   `json:"url,omitempty"`
	MapURL    string   `json:"mapUrl,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Relevancy float64  `json:"relevancy"`
}

// ClonePlaces copies a place list, including the optional rating pointers.
func ClonePlaces(places []Place) []Place {
	if places == nil {
		return nil
	}
	cloned := make([]Place, len(places))
	for i, place := range places {
		if place.Rating != nil {
			rating := *place.Rating
			place.Rating = &rating
		}
		cloned[i] = place
	}
	return cloned
}
