// Package repository defines the aggregation store interface and errors.
package repository

import (
	"context"

	"github.com/okian/estimathon/internal/domain/model"
)

// Store is the authoritative state container: teams, the append-only
// submission log, and the derived ranked snapshot. Single writer; readers
// never observe a half-applied mutation.
type Store interface {
	// AddTeam creates a team. Returns ErrEmptyTeamName for blank names.
	AddTeam(ctx context.Context, name string) (model.Team, error)

	// RecordSubmission validates the referenced entities and the team's
	// submission budget, judges the interval, and appends it to the log.
	// Returns ErrTeamNotFound, ErrProblemNotFound or ErrBudgetExhausted.
	RecordSubmission(ctx context.Context, teamID string, problemID int, min, max float64) (model.Submission, error)

	// ListTeams returns the team directory, current at call time.
	ListTeams(ctx context.Context) []model.TeamRef

	// Snapshot returns the current ranked snapshot.
	Snapshot(ctx context.Context) model.Snapshot

	// Counts returns the number of teams and logged submissions.
	Counts(ctx context.Context) (teams, submissions int)
}
