package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/okian/estimathon/internal/domain/contest"
	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/internal/domain/scoring"
	"github.com/okian/estimathon/pkg/metrics"
)

// MemStore implements Store in memory. All mutations take the write lock,
// rebuild the snapshot and bump the sequence number before releasing it,
// so snapshot content and sequence are always consistent.
//
// TeamStats are recomputed from the submission log on every change; there
// are no running counters, so replaying the log into a fresh store
// reproduces identical stats.
type MemStore struct {
	mu sync.RWMutex

	catalog *contest.Catalog
	scorer  scoring.Scorer
	clock   clockwork.Clock
	budget  int

	teams    []model.Team
	teamByID map[string]*model.Team
	log      []model.Submission

	seq      uint64
	snapshot model.Snapshot
}

// NewMemStore creates an in-memory store for one competition instance.
func NewMemStore(catalog *contest.Catalog, scorer scoring.Scorer, opts ...Option) *MemStore {
	s := &MemStore{
		catalog:  catalog,
		scorer:   scorer,
		clock:    clockwork.NewRealClock(),
		budget:   contest.SubmissionBudget,
		teamByID: make(map[string]*model.Team),
		snapshot: model.Snapshot{Teams: []model.TeamStats{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTeam creates a team and rebuilds the snapshot. Creation is a visible
// state change even with zero submissions, so the new team appears in the
// ranking immediately.
func (s *MemStore) AddTeam(ctx context.Context, name string) (model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Team{}, ErrEmptyTeamName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	team := model.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}
	s.teams = append(s.teams, team)
	s.teamByID[team.ID] = &s.teams[len(s.teams)-1]
	s.rebuildLocked()

	metrics.UpdateTotalTeams(len(s.teams))
	return team, nil
}

// RecordSubmission validates, judges and appends one submission.
func (s *MemStore) RecordSubmission(ctx context.Context, teamID string, problemID int, min, max float64) (model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teamByID[teamID]; !ok {
		return model.Submission{}, ErrTeamNotFound
	}
	problem, ok := s.catalog.Lookup(problemID)
	if !ok {
		return model.Submission{}, ErrProblemNotFound
	}
	if s.teamSubmissionCountLocked(teamID) >= s.budget {
		return model.Submission{}, ErrBudgetExhausted
	}

	sub := model.Submission{
		TeamID:    teamID,
		ProblemID: problemID,
		Min:       min,
		Max:       max,
		Good:      s.scorer.Judge(problem, min, max),
		At:        s.clock.Now(),
	}
	s.log = append(s.log, sub)
	s.rebuildLocked()

	metrics.UpdateTotalSubmissions(len(s.log))
	return sub, nil
}

// ListTeams returns the directory in creation order.
func (s *MemStore) ListTeams(ctx context.Context) []model.TeamRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TeamRef, len(s.teams))
	for i, t := range s.teams {
		out[i] = model.TeamRef{ID: t.ID, Name: t.Name}
	}
	return out
}

// Snapshot returns the current ranked snapshot. The returned value is
// rebuilt on every mutation and never mutated afterwards, so callers may
// hold it without copying.
func (s *MemStore) Snapshot(ctx context.Context) model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Counts returns the number of teams and logged submissions.
func (s *MemStore) Counts(ctx context.Context) (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams), len(s.log)
}

func (s *MemStore) teamSubmissionCountLocked(teamID string) int {
	n := 0
	for _, sub := range s.log {
		if sub.TeamID == teamID {
			n++
		}
	}
	return n
}

// rebuildLocked recomputes every team's stats from the log and re-ranks.
// Callers must hold the write lock.
func (s *MemStore) rebuildLocked() {
	start := s.clock.Now()

	stats := make([]model.TeamStats, len(s.teams))
	order := make(map[string]int, len(s.teams))
	for i, t := range s.teams {
		stats[i] = s.computeTeamStats(t)
		order[t.ID] = i
	}

	// Rank order: descending score; ties broken by earlier creation.
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Score != stats[j].Score {
			return stats[i].Score > stats[j].Score
		}
		return order[stats[i].TeamID] < order[stats[j].TeamID]
	})

	s.seq++
	s.snapshot = model.Snapshot{Seq: s.seq, Teams: stats}

	metrics.RecordSnapshotBuildLatency(float64(s.clock.Since(start).Milliseconds()))
}

// computeTeamStats derives one team's stats purely from the log. Only the
// latest submission per problem counts for scoring; details keep the
// order in which problems were first answered.
func (s *MemStore) computeTeamStats(team model.Team) model.TeamStats {
	last := make(map[int]model.Submission)
	var problemOrder []int
	used := 0

	for _, sub := range s.log {
		if sub.TeamID != team.ID {
			continue
		}
		used++
		if _, seen := last[sub.ProblemID]; !seen {
			problemOrder = append(problemOrder, sub.ProblemID)
		}
		last[sub.ProblemID] = sub
	}

	details := make([]model.SubmissionDetail, 0, len(problemOrder))
	good := 0
	for _, pid := range problemOrder {
		sub := last[pid]
		if sub.Good {
			good++
		}
		details = append(details, model.SubmissionDetail{
			TeamID:    sub.TeamID,
			ProblemID: sub.ProblemID,
			MinValue:  sub.Min,
			MaxValue:  sub.Max,
			IsGood:    sub.Good,
		})
	}

	return model.TeamStats{
		TeamID:            team.ID,
		TeamName:          team.Name,
		Score:             s.scorer.TeamScore(details),
		QuestionsAnswered: len(problemOrder),
		CorrectAnswers:    good,
		SubmissionsUsed:   used,
		SubmissionDetails: details,
	}
}

// Clock exposes the store clock for callers that stamp broadcast events.
func (s *MemStore) Clock() clockwork.Clock {
	return s.clock
}

var _ Store = (*MemStore)(nil)
