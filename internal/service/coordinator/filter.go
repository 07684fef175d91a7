package coordinator

import (
	"github.com/huddlemaps/huddle/backend/internal/model/search"
	"github.com/huddlemaps/huddle/backend/internal/service/places"
)

// Quality floor applied to every text search hit.
const (
	MinUserRatingCount = 50
	MaxRejectedRating  = 3.0
)

// Admissible reports whether a raw candidate clears the quality floor. A
// missing rating count counts as zero; a missing rating is accepted.
func Admissible(candidate places.Candidate) bool {
	if candidate.ID == "" {
		return false
	}
	if candidate.UserRatingCount == nil || *candidate.UserRatingCount < MinUserRatingCount {
		return false
	}
	if candidate.Rating != nil && *candidate.Rating <= MaxRejectedRating {
		return false
	}
	if candidate.Location == nil || candidate.Location.Latitude == nil || candidate.Location.Longitude == nil {
		return false
	}
	return true
}

// FilterCandidates keeps admissible candidates, in provider order, as places
// with the baseline relevancy.
func FilterCandidates(candidates []places.Candidate) []search.Place {
	filtered := make([]search.Place, 0, len(candidates))
	for _, candidate := range candidates {
		if !Admissible(candidate) {
			continue
		}

		var rating *float64
		if candidate.Rating != nil {
			value := *candidate.Rating
			rating = &value
		}

		filtered = append(filtered, search.Place{
			ID:        candidate.ID,
			Name:      candidate.Name(),
			Type:      candidate.PrimaryType,
			URL:       candidate.WebsiteURI,
			MapURL:    candidate.GoogleMapsURI,
			Rating:    rating,
			Latitude:  *candidate.Location.Latitude,
			Longitude: *candidate.Location.Longitude,
			Relevancy: search.BaselineRelevancy,
		})
	}
	return filtered
}
