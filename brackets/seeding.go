package brackets

import (
	"math/rand"
	"sort"

	"github.com/Dosada05/club-manager/models"
)

// SeedParticipants orders participants for a draw and returns a new slice;
// the input is never mutated.
//
// LIST_ORDER keeps registration order. RANDOM shuffles with the supplied
// source so a draw can be replayed from a stored seed value. SEEDED_BY_RATING
// sorts by rating descending, stable, so equal ratings keep registration
// order.
func SeedParticipants(participants []*models.Participant, method models.SeedingMethod, rng *rand.Rand) ([]*models.Participant, error) {
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	ordered := make([]*models.Participant, len(participants))
	copy(ordered, participants)

	switch method {
	case models.SeedingListOrder:
		// Registration order is the list order.
	case models.SeedingRandom:
		if rng == nil {
			return nil, ErrRandomSourceRequired
		}
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	case models.SeedingByRating:
		for _, p := range ordered {
			if p.Rating == nil {
				return nil, ErrRatingRequired
			}
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return *ordered[i].Rating > *ordered[j].Rating
		})
	default:
		return nil, ErrUnknownSeedingMethod
	}

	return ordered, nil
}
