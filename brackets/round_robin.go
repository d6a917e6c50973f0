package brackets

import "fmt"

// GenerateRoundRobin schedules all pairings of a group with the circle
// method: one member stays fixed, the rest rotate one position per round.
// Even n yields n-1 rounds; odd n yields n rounds with exactly one bye per
// round, so no member sits out twice within a cycle. The full cycle repeats
// matchupsPerPair times with sides swapped on every second leg.
//
// memberIDs must be real participant ids in the desired seed order.
func GenerateRoundRobin(memberIDs []int, matchupsPerPair int) ([]*PlannedMatch, error) {
	if len(memberIDs) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if matchupsPerPair < 1 {
		return nil, ErrInvalidMatchupsPerPair
	}

	// A zero sentinel fills the table up to an even size; pairings against it
	// are byes and produce no fixture.
	ring := make([]int, len(memberIDs))
	copy(ring, memberIDs)
	if len(ring)%2 != 0 {
		ring = append(ring, 0)
	}

	n := len(ring)
	roundsPerCycle := n - 1
	half := n / 2

	matches := make([]*PlannedMatch, 0, matchupsPerPair*len(memberIDs)*(len(memberIDs)-1)/2)

	for leg := 0; leg < matchupsPerPair; leg++ {
		arr := make([]int, n)
		copy(arr, ring)

		for round := 1; round <= roundsPerCycle; round++ {
			order := 0
			for i := 0; i < half; i++ {
				a, b := arr[i], arr[n-1-i]
				if a == 0 || b == 0 {
					continue
				}
				// Alternate home/away between legs.
				if leg%2 == 1 {
					a, b = b, a
				}
				order++
				absoluteRound := leg*roundsPerCycle + round
				matches = append(matches, &PlannedMatch{
					UID:          fmt.Sprintf("RR_R%dM%d", absoluteRound, order),
					Round:        absoluteRound,
					OrderInRound: order,
					P1:           ParticipantSlot(a),
					P2:           ParticipantSlot(b),
				})
			}
			// Rotate everything except the pivot.
			rotated := make([]int, 0, n)
			rotated = append(rotated, arr[0], arr[n-1])
			rotated = append(rotated, arr[1:n-1]...)
			arr = rotated
		}
	}

	return matches, nil
}
