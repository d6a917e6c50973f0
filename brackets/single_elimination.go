package brackets

import (
	"fmt"

	"github.com/Dosada05/club-manager/models"
)

type SeedOrder string

const (
	OrderStandard SeedOrder = "STANDARD"
	OrderReverse  SeedOrder = "REVERSE"
)

type BracketOptions struct {
	IncludeThirdPlaceMatch bool
	Order                  SeedOrder
}

type bracketNode struct {
	slot Slot
	bye  bool
}

// GenerateSingleElimination builds the complete elimination tree upfront.
//
// The bracket size is the next power of two >= len(slots); the remainder are
// byes. Placement follows standard tournament seeding (seed 1 meets the
// lowest remaining seed in each half), REVERSE flips the two halves. A bye
// produces a round-1 walkover fixture whose sole occupant advances into round
// 2 directly, without being played. Every round 2+ side that is not a
// propagated bye winner references the winner of a preceding match by UID.
// The optional third-place match takes the losers of both semifinals.
func GenerateSingleElimination(slots []Slot, opts BracketOptions) (*BracketPlan, error) {
	n := len(slots)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	for _, s := range slots {
		if !s.valid() {
			return nil, ErrInvalidSlot
		}
	}

	numRounds := 1
	for (1 << numRounds) < n {
		numRounds++
	}
	size := 1 << numRounds

	placement := seedPlacement(size)
	if opts.Order == OrderReverse {
		placement = append(placement[size/2:], placement[:size/2]...)
	}

	nodes := make([]*bracketNode, size)
	for i, seed := range placement {
		if seed <= n {
			nodes[i] = &bracketNode{slot: slots[seed-1]}
		} else {
			nodes[i] = &bracketNode{bye: true}
		}
	}

	matches := make([]*PlannedMatch, 0, size-1)

	for round := 1; round <= numRounds; round++ {
		next := make([]*bracketNode, 0, len(nodes)/2)

		for i := 0; i < len(nodes); i += 2 {
			a, b := nodes[i], nodes[i+1]
			uid := fmt.Sprintf("R%dM%d", round, i/2+1)

			bm := &PlannedMatch{
				UID:          uid,
				Round:        round,
				OrderInRound: i/2 + 1,
			}

			switch {
			case a.bye && b.bye:
				// Minimal power-of-two sizing pairs every bye against a real
				// slot; two byes meeting means the caller broke that.
				return nil, fmt.Errorf("two byes paired at round %d match %d", round, i/2+1)
			case a.bye || b.bye:
				occupant := a
				if a.bye {
					occupant = b
				}
				bm.Walkover = true
				bm.P1 = occupant.slot
				bm.Winner = occupant.slot.ParticipantID
				// The occupant carries straight into the next round; a known
				// participant stays a real side there, a qualifier slot stays
				// a qualifier.
				next = append(next, &bracketNode{slot: occupant.slot})
			default:
				bm.P1 = a.slot
				bm.P2 = b.slot
				next = append(next, &bracketNode{slot: matchSlot(uid, models.SlotWinner)})
			}

			matches = append(matches, bm)
		}

		if round == numRounds-1 && opts.IncludeThirdPlaceMatch {
			semis := matches[len(matches)-2:]
			matches = append(matches, &PlannedMatch{
				UID:          "3P",
				Round:        numRounds,
				OrderInRound: 2,
				ThirdPlace:   true,
				P1:           matchSlot(semis[0].UID, models.SlotLoser),
				P2:           matchSlot(semis[1].UID, models.SlotLoser),
			})
		}

		nodes = next
	}

	return &BracketPlan{
		TotalRounds:  numRounds,
		TotalMatches: len(matches),
		Matches:      matches,
	}, nil
}

// seedPlacement returns the seed occupying each bracket position for the
// given power-of-two size, built by the classic fold: [1 2] -> [1 4 2 3] ->
// [1 8 4 5 2 7 3 6]. Adjacent pairs are the round-1 fixtures.
func seedPlacement(size int) []int {
	placement := []int{1}
	for width := 2; width <= size; width *= 2 {
		expanded := make([]int, 0, width)
		for _, seed := range placement {
			expanded = append(expanded, seed, width+1-seed)
		}
		placement = expanded
	}
	return placement
}
