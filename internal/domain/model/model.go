// Package model contains domain models passed between layers.
package model

import "time"

// Team is a registered competition team. Immutable once created.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// TeamRef is the shape returned by the team directory query.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Submission is one interval guess. Submissions are append-only; a later
// submission for the same problem supersedes the earlier one for scoring,
// but both still count against the team's submission budget.
type Submission struct {
	TeamID    string    `json:"team_id"`
	ProblemID int       `json:"problem_id"`
	Min       float64   `json:"min_value"`
	Max       float64   `json:"max_value"`
	Good      bool      `json:"is_good"`
	At        time.Time `json:"-"`
}

// SubmissionDetail mirrors the wire shape inside TeamStats.
type SubmissionDetail struct {
	TeamID    string  `json:"team_id"`
	ProblemID int     `json:"problem_id"`
	MinValue  float64 `json:"min_value"`
	MaxValue  float64 `json:"max_value"`
	IsGood    bool    `json:"is_good"`
}

// TeamStats is the derived per-team summary. It is recomputed from the
// team's submission log on every change and is never stored.
// SubmissionDetails holds the latest submission per problem, so the
// concatenation across teams yields each displayed row exactly once.
type TeamStats struct {
	TeamID            string             `json:"team_id"`
	TeamName          string             `json:"team_name"`
	Score             float64            `json:"score"`
	QuestionsAnswered int                `json:"questions_answered"`
	CorrectAnswers    int                `json:"correct_answers"`
	SubmissionsUsed   int                `json:"submissions_used"`
	SubmissionDetails []SubmissionDetail `json:"submission_details"`
}

// Snapshot is the complete broadcast unit: every team's stats in rank
// order. Seq increases with every state change so receivers can refuse
// to render an older snapshot after a newer one.
type Snapshot struct {
	Seq   uint64      `json:"seq"`
	Teams []TeamStats `json:"teams"`
}

// EventTypeAllTeamStats is the single event type on the scoreboard channel.
const EventTypeAllTeamStats = "all_team_stats_update"

// Event is the wire envelope pushed to every subscriber.
type Event struct {
	Type  string      `json:"type"`
	Seq   uint64      `json:"seq"`
	TS    time.Time   `json:"ts"`
	Teams []TeamStats `json:"teams"`
}

// NewEvent wraps a snapshot for broadcast.
func NewEvent(s Snapshot, ts time.Time) Event {
	return Event{
		Type:  EventTypeAllTeamStats,
		Seq:   s.Seq,
		TS:    ts,
		Teams: s.Teams,
	}
}

// Snapshot reconstructs the snapshot carried by an event.
func (e Event) Snapshot() Snapshot {
	return Snapshot{Seq: e.Seq, Teams: e.Teams}
}
