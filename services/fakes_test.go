package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
)

// In-memory repository fakes. They keep the same error contracts as the
// postgres implementations so the services under test exercise their real
// error mapping.

type fakeTxRunner struct {
	calls int
}

func (r *fakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	r.calls++
	return fn(nil)
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) add(t *models.Tournament) *models.Tournament {
	if t.ID == 0 {
		r.nextID++
		t.ID = r.nextID
	} else if t.ID > r.nextID {
		r.nextID = t.ID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.tournaments[t.ID] = t
	return t
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.add(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.OrganizerID != nil && t.OrganizerID != *filter.OrganizerID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) SetParticipantsLocked(ctx context.Context, exec repositories.SQLExecutor, id int, locked bool) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ParticipantsLocked = locked
	return nil
}

func (r *fakeTournamentRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeParticipantRepo struct {
	nextID       int
	participants map[int]*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.Participant)}
}

func (r *fakeParticipantRepo) add(p *models.Participant) *models.Participant {
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.participants[p.ID] = p
	return p
}

func (r *fakeParticipantRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	r.add(p)
	return nil
}

func (r *fakeParticipantRepo) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return p, nil
}

func (r *fakeParticipantRepo) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipantStatus, includeVirtual bool) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.TournamentID != tournamentID {
			continue
		}
		if !includeVirtual && p.IsVirtual {
			continue
		}
		if statusFilter != nil && p.Status != *statusFilter {
			continue
		}
		out = append(out, p)
	}
	sortParticipants(out)
	return out, nil
}

func (r *fakeParticipantRepo) ListVirtualByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.TournamentID == tournamentID && p.IsVirtual {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipantRepo) ListByGroup(ctx context.Context, groupID int) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if !p.IsVirtual && p.GroupID != nil && *p.GroupID == groupID {
			out = append(out, p)
		}
	}
	sortParticipants(out)
	return out, nil
}

func (r *fakeParticipantRepo) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeParticipantRepo) UpdateSeed(ctx context.Context, exec repositories.SQLExecutor, id int, seed int) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Seed = &seed
	return nil
}

func (r *fakeParticipantRepo) UpdateGroup(ctx context.Context, exec repositories.SQLExecutor, id int, groupID *int) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.GroupID = groupID
	return nil
}

func (r *fakeParticipantRepo) MarkResolved(ctx context.Context, exec repositories.SQLExecutor, virtualID, realID int) error {
	p, ok := r.participants[virtualID]
	if !ok || !p.IsVirtual || p.SubstitutedByID != nil {
		return repositories.ErrParticipantNotFound
	}
	p.SubstitutedByID = &realID
	return nil
}

func (r *fakeParticipantRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	count := 0
	for _, p := range r.participants {
		if p.TournamentID == tournamentID && !p.IsVirtual {
			count++
		}
	}
	return count, nil
}

func sortParticipants(out []*models.Participant) {
	sort.Slice(out, func(i, j int) bool {
		si, sj := 1<<30, 1<<30
		if out[i].Seed != nil {
			si = *out[i].Seed
		}
		if out[j].Seed != nil {
			sj = *out[j].Seed
		}
		if si != sj {
			return si < sj
		}
		return out[i].ID < out[j].ID
	})
}

type fakeGroupRepo struct {
	nextID int
	groups map[int]*models.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[int]*models.Group)}
}

func (r *fakeGroupRepo) Create(ctx context.Context, exec repositories.SQLExecutor, g *models.Group) error {
	r.nextID++
	g.ID = r.nextID
	g.CreatedAt = time.Now()
	stored := *g
	r.groups[g.ID] = &stored
	return nil
}

func (r *fakeGroupRepo) FindByID(ctx context.Context, id int) (*models.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	return g, nil
}

func (r *fakeGroupRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Group, error) {
	out := make([]*models.Group, 0)
	for _, g := range r.groups {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeGroupRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	count := 0
	for _, g := range r.groups {
		if g.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeGroupRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.GroupStatus) error {
	g, ok := r.groups[id]
	if !ok {
		return repositories.ErrGroupNotFound
	}
	g.Status = status
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) add(m *models.Match) *models.Match {
	if m.ID == 0 {
		r.nextID++
		m.ID = r.nextID
	} else if m.ID > r.nextID {
		r.nextID = m.ID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.matches[m.ID] = m
	return m
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.add(m)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return m, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, stage *models.MatchStage, round *int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if stage != nil && m.Stage != *stage {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func (r *fakeMatchRepo) ListByGroup(ctx context.Context, groupID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.GroupID != nil && *m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *fakeMatchRepo) ListBySide(ctx context.Context, participantID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.References(participantID) {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *fakeMatchRepo) CountByGroup(ctx context.Context, groupID int) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.GroupID != nil && *m.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) CountByTournamentAndStage(ctx context.Context, tournamentID int, stage models.MatchStage) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.Stage == stage {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) UpdateSide(ctx context.Context, exec repositories.SQLExecutor, matchID, slot int, participantID *int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if slot == 1 {
		m.P1ID = participantID
	} else {
		m.P2ID = participantID
	}
	return nil
}

func (r *fakeMatchRepo) UpdateWinner(ctx context.Context, exec repositories.SQLExecutor, matchID int, winnerID *int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.WinnerID = winnerID
	return nil
}

func (r *fakeMatchRepo) UpdateScoreStatusWinner(ctx context.Context, id int, m *models.Match) error {
	stored, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	stored.P1Games = m.P1Games
	stored.P2Games = m.P2Games
	stored.P1Points = m.P1Points
	stored.P2Points = m.P2Points
	stored.Status = m.Status
	stored.WinnerID = m.WinnerID
	return nil
}

func sortMatches(out []*models.Match) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		if out[i].MatchNumber != out[j].MatchNumber {
			return out[i].MatchNumber < out[j].MatchNumber
		}
		return out[i].ID < out[j].ID
	})
}

type fakeDrawRepo struct {
	nextID int
	draws  map[int]*models.Draw
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{draws: make(map[int]*models.Draw)}
}

func (r *fakeDrawRepo) Create(ctx context.Context, exec repositories.SQLExecutor, d *models.Draw) error {
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = time.Now()
	r.draws[d.ID] = d
	return nil
}

func (r *fakeDrawRepo) GetByPublicID(ctx context.Context, publicID string) (*models.Draw, error) {
	for _, d := range r.draws {
		if d.PublicID == publicID {
			return d, nil
		}
	}
	return nil, repositories.ErrDrawNotFound
}

func (r *fakeDrawRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Draw, error) {
	out := make([]*models.Draw, 0)
	for _, d := range r.draws {
		if d.TournamentID == tournamentID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeDrawRepo) MarkApplied(ctx context.Context, exec repositories.SQLExecutor, id int, resultJSON string, appliedAt time.Time) error {
	d, ok := r.draws[id]
	if !ok || d.Status != models.DrawDraft {
		return repositories.ErrDrawNotFound
	}
	d.Status = models.DrawApplied
	d.ResultJSON = &resultJSON
	d.AppliedAt = &appliedAt
	return nil
}

func (r *fakeDrawRepo) MarkCanceled(ctx context.Context, id int) error {
	d, ok := r.draws[id]
	if !ok || d.Status != models.DrawDraft {
		return repositories.ErrDrawNotFound
	}
	d.Status = models.DrawCanceled
	return nil
}

type fakeStageRuleRepo struct {
	rules map[string]*models.StageRule
}

func newFakeStageRuleRepo() *fakeStageRuleRepo {
	return &fakeStageRuleRepo{rules: make(map[string]*models.StageRule)}
}

func stageRuleKey(tournamentID int, stage models.MatchStage) string {
	return fmt.Sprintf("%d/%s", tournamentID, stage)
}

func (r *fakeStageRuleRepo) Upsert(ctx context.Context, rule *models.StageRule) error {
	if rule.ID == 0 {
		rule.ID = len(r.rules) + 1
	}
	r.rules[stageRuleKey(rule.TournamentID, rule.Stage)] = rule
	return nil
}

func (r *fakeStageRuleRepo) GetByTournamentAndStage(ctx context.Context, tournamentID int, stage models.MatchStage) (*models.StageRule, error) {
	rule, ok := r.rules[stageRuleKey(tournamentID, stage)]
	if !ok {
		return nil, repositories.ErrStageRuleNotFound
	}
	return rule, nil
}
