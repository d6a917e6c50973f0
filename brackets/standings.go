package brackets

import (
	"sort"

	"github.com/Dosada05/club-manager/models"
)

// ComputeStandings builds the ranked table of a group from its matches.
//
// Only COMPLETED matches count, plus WALKOVER fixtures when the rule says so.
// The primary key is match points from the rule's win/draw/loss/bye values;
// ties are broken by the rule's chain, applied in order until a rule
// separates the tied subset. A chain that exhausts with a true tie keeps seed
// order, so the output never depends on map iteration order. The top
// ParticipantsAdvancing ranks are flagged as advancing.
func ComputeStandings(group *models.Group, members []*models.Participant, matches []*models.Match, settings *models.StageRuleSettings) ([]*models.StandingEntry, error) {
	if settings == nil {
		def := models.DefaultStageRuleSettings()
		settings = &def
	}

	ordered := make([]*models.Participant, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := seedOf(ordered[i]), seedOf(ordered[j])
		if si != sj {
			return si < sj
		}
		return ordered[i].ID < ordered[j].ID
	})

	memberIDs := make([]int, len(ordered))
	for i, p := range ordered {
		memberIDs[i] = p.ID
	}

	entries := aggregate(memberIDs, matches, settings)
	entries = rankEntries(entries, settings.TieBreakOrder, matches, settings)

	for i, e := range entries {
		e.Rank = i + 1
		e.IsAdvancing = group != nil && i < group.ParticipantsAdvancing
	}
	return entries, nil
}

func seedOf(p *models.Participant) int {
	if p.Seed != nil {
		return *p.Seed
	}
	return 1 << 30
}

func counted(m *models.Match, settings *models.StageRuleSettings) bool {
	switch m.Status {
	case models.MatchStatusCompleted:
		return true
	case models.MatchStatusWalkover:
		return settings.CountWalkoverAsPlayed
	default:
		return false
	}
}

// aggregate tallies per-member totals over the counted matches, restricted to
// the given member set. Entries come back in memberIDs order.
func aggregate(memberIDs []int, matches []*models.Match, settings *models.StageRuleSettings) []*models.StandingEntry {
	byID := make(map[int]*models.StandingEntry, len(memberIDs))
	entries := make([]*models.StandingEntry, 0, len(memberIDs))
	for _, id := range memberIDs {
		e := &models.StandingEntry{ParticipantID: id}
		byID[id] = e
		entries = append(entries, e)
	}

	for _, m := range matches {
		if !counted(m, settings) {
			continue
		}

		// A walkover with a single occupant is a bye: points awarded, no
		// games or score tallied.
		if m.Status == models.MatchStatusWalkover && (m.P1ID == nil || m.P2ID == nil) {
			if m.WinnerID != nil {
				if e, ok := byID[*m.WinnerID]; ok {
					e.Byes++
					e.MatchPoints += settings.ByePoints
				}
			}
			continue
		}

		if m.P1ID == nil || m.P2ID == nil {
			continue
		}
		e1, ok1 := byID[*m.P1ID]
		e2, ok2 := byID[*m.P2ID]
		if !ok1 || !ok2 {
			// Side outside the member set, e.g. a mini-table restricted to a
			// tied subset. Skip the whole fixture.
			continue
		}

		e1.Played++
		e2.Played++
		e1.GamesWon += m.P1Games
		e1.GamesLost += m.P2Games
		e2.GamesWon += m.P2Games
		e2.GamesLost += m.P1Games
		e1.PointsFor += m.P1Points
		e1.PointsAgainst += m.P2Points
		e2.PointsFor += m.P2Points
		e2.PointsAgainst += m.P1Points

		switch {
		case m.WinnerID == nil:
			e1.Draws++
			e2.Draws++
			e1.MatchPoints += settings.DrawPoints
			e2.MatchPoints += settings.DrawPoints
		case *m.WinnerID == *m.P1ID:
			e1.Wins++
			e2.Losses++
			e1.MatchPoints += settings.WinPoints
			e2.MatchPoints += settings.LossPoints
		default:
			e2.Wins++
			e1.Losses++
			e2.MatchPoints += settings.WinPoints
			e1.MatchPoints += settings.LossPoints
		}
	}

	for _, e := range entries {
		e.GameDifference = e.GamesWon - e.GamesLost
		e.PointsDifference = e.PointsFor - e.PointsAgainst
	}
	return entries
}

// rankEntries orders by match points, then resolves every tied block through
// the tie-break chain. All sorts are stable over the incoming seed order.
func rankEntries(entries []*models.StandingEntry, chain []models.TieBreakRule, matches []*models.Match, settings *models.StageRuleSettings) []*models.StandingEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MatchPoints > entries[j].MatchPoints
	})

	out := make([]*models.StandingEntry, 0, len(entries))
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].MatchPoints == entries[start].MatchPoints {
			end++
		}
		out = append(out, breakTies(entries[start:end], chain, matches, settings)...)
		start = end
	}
	return out
}

func breakTies(tied []*models.StandingEntry, chain []models.TieBreakRule, matches []*models.Match, settings *models.StageRuleSettings) []*models.StandingEntry {
	if len(tied) <= 1 || len(chain) == 0 {
		return tied
	}

	rule := chain[0]
	score := tieBreakScores(tied, rule, matches, settings)

	block := make([]*models.StandingEntry, len(tied))
	copy(block, tied)
	sort.SliceStable(block, func(i, j int) bool {
		return score[block[i].ParticipantID] > score[block[j].ParticipantID]
	})

	differentiated := score[block[0].ParticipantID] != score[block[len(block)-1].ParticipantID]

	out := make([]*models.StandingEntry, 0, len(block))
	for start := 0; start < len(block); {
		end := start + 1
		for end < len(block) && score[block[end].ParticipantID] == score[block[start].ParticipantID] {
			end++
		}
		if differentiated {
			for _, e := range block[start:end] {
				if e.TieBreak == "" {
					e.TieBreak = rule
				}
			}
		}
		out = append(out, breakTies(block[start:end], chain[1:], matches, settings)...)
		start = end
	}
	return out
}

func tieBreakScores(tied []*models.StandingEntry, rule models.TieBreakRule, matches []*models.Match, settings *models.StageRuleSettings) map[int]int {
	score := make(map[int]int, len(tied))

	switch rule {
	case models.TieBreakWinsVsTied:
		ids := make([]int, len(tied))
		for i, e := range tied {
			ids[i] = e.ParticipantID
		}
		if settings.WinsVsTiedMode == models.HeadToHeadDirect {
			// Raw wins in matches among the tied subset.
			inSet := make(map[int]bool, len(ids))
			for _, id := range ids {
				inSet[id] = true
				score[id] = 0
			}
			for _, m := range matches {
				if !counted(m, settings) || m.WinnerID == nil || m.P1ID == nil || m.P2ID == nil {
					continue
				}
				if inSet[*m.P1ID] && inSet[*m.P2ID] && inSet[*m.WinnerID] {
					score[*m.WinnerID]++
				}
			}
		} else {
			// MINI_TABLE: full sub-standings restricted to the tied subset.
			sub := aggregate(ids, matches, settings)
			for _, e := range sub {
				score[e.ParticipantID] = e.MatchPoints
			}
		}
	case models.TieBreakGameDifference:
		for _, e := range tied {
			score[e.ParticipantID] = e.GameDifference
		}
	case models.TieBreakPointDifference:
		for _, e := range tied {
			score[e.ParticipantID] = e.PointsDifference
		}
	case models.TieBreakGamesWon:
		for _, e := range tied {
			score[e.ParticipantID] = e.GamesWon
		}
	case models.TieBreakPointsScored:
		for _, e := range tied {
			score[e.ParticipantID] = e.PointsFor
		}
	default:
		for _, e := range tied {
			score[e.ParticipantID] = 0
		}
	}
	return score
}
