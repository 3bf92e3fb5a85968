// Package dashboard renders the operations view of a competition: the raw
// submission log, per-team summaries, and the team-creation / submission
// forms. Every incoming snapshot replaces both regions wholesale.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/okian/estimathon/internal/domain/contest"
	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/internal/viewer"
	"github.com/okian/estimathon/pkg/logger"
)

// SubmissionRow is one rendered line of the raw submission log.
type SubmissionRow struct {
	TeamName  string
	ProblemID int
	Min       float64
	Max       float64
	Verdict   string
}

// SummaryRow is one rendered per-team summary line.
type SummaryRow struct {
	TeamName string
	Answered string
	Correct  string
	Used     string
}

// Viewer holds the dashboard's rendered state. Apply replaces it from a
// snapshot; SortBy reorders the submission rows until the next Apply.
type Viewer struct {
	mu          sync.Mutex
	client      *viewer.Client
	log         logger.Logger
	submissions []SubmissionRow
	summaries   []SummaryRow
	teams       []model.TeamRef

	// form state for the submission form
	formTeamID    string
	formProblemID int
	formMin       string
	formMax       string
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the viewer's logger.
func WithLogger(l logger.Logger) Option {
	return func(v *Viewer) {
		v.log = l
	}
}

// New creates a dashboard viewer talking to the given gateway client.
func New(client *viewer.Client, opts ...Option) *Viewer {
	v := &Viewer{client: client}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = logger.Named("dashboard")
	}
	return v
}

// Apply rebuilds both regions from the snapshot. Row order follows the
// snapshot: teams in rank order, each team's latest-per-problem details in
// first-answered order. Any SortBy ordering is discarded.
func (v *Viewer) Apply(snap model.Snapshot) {
	subs := make([]SubmissionRow, 0, len(snap.Teams)*4)
	sums := make([]SummaryRow, 0, len(snap.Teams))
	for _, ts := range snap.Teams {
		for _, d := range ts.SubmissionDetails {
			verdict := "Not Good"
			if d.IsGood {
				verdict = "Good"
			}
			subs = append(subs, SubmissionRow{
				TeamName:  ts.TeamName,
				ProblemID: d.ProblemID,
				Min:       d.MinValue,
				Max:       d.MaxValue,
				Verdict:   verdict,
			})
		}
		sums = append(sums, SummaryRow{
			TeamName: ts.TeamName,
			Answered: fmt.Sprintf("%d/%d", ts.QuestionsAnswered, contest.TotalProblems),
			Correct:  fmt.Sprintf("%d/%d", ts.CorrectAnswers, contest.TotalProblems),
			Used:     fmt.Sprintf("%d/%d", ts.SubmissionsUsed, contest.SubmissionBudget),
		})
	}

	v.mu.Lock()
	v.submissions = subs
	v.summaries = sums
	v.mu.Unlock()
}

// SortBy reorders the currently rendered submission rows lexicographically
// by the displayed text of the given column ("team" or "problem"). The
// ordering lasts only until the next Apply.
func (v *Viewer) SortBy(column string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch column {
	case "team":
		sort.SliceStable(v.submissions, func(i, j int) bool {
			return v.submissions[i].TeamName < v.submissions[j].TeamName
		})
	case "problem":
		sort.SliceStable(v.submissions, func(i, j int) bool {
			return strconv.Itoa(v.submissions[i].ProblemID) < strconv.Itoa(v.submissions[j].ProblemID)
		})
	}
}

// Submissions returns the rendered submission rows.
func (v *Viewer) Submissions() []SubmissionRow {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]SubmissionRow, len(v.submissions))
	copy(out, v.submissions)
	return out
}

// Summaries returns the rendered summary rows.
func (v *Viewer) Summaries() []SummaryRow {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]SummaryRow, len(v.summaries))
	copy(out, v.summaries)
	return out
}

// Teams returns the current team selector entries.
func (v *Viewer) Teams() []model.TeamRef {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.TeamRef, len(v.teams))
	copy(out, v.teams)
	return out
}

// RefreshTeams re-queries the team directory for the selector.
func (v *Viewer) RefreshTeams(ctx context.Context) error {
	teams, err := v.client.ListTeams(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.teams = teams
	v.mu.Unlock()
	return nil
}

// AddTeam submits the team-creation form. On success the selector is
// refreshed from the directory; on rejection the error carries the
// gateway's message and no state changes.
func (v *Viewer) AddTeam(ctx context.Context, name string) (string, error) {
	id, err := v.client.AddTeam(ctx, name)
	if err != nil {
		return "", err
	}
	if err := v.RefreshTeams(ctx); err != nil {
		v.log.Warn(ctx, "team created but selector refresh failed", logger.Error(err))
	}
	return id, nil
}

// SetForm records the submission form fields.
func (v *Viewer) SetForm(teamID string, problemID int, min, max string) {
	v.mu.Lock()
	v.formTeamID = teamID
	v.formProblemID = problemID
	v.formMin = min
	v.formMax = max
	v.mu.Unlock()
}

// Form returns the current submission form fields.
func (v *Viewer) Form() (teamID string, problemID int, min, max string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.formTeamID, v.formProblemID, v.formMin, v.formMax
}

// SubmitForm submits the current form contents. Min and max are parsed as
// floats; unparsable values are rejected locally with the same message the
// gateway uses for malformed bodies. On success the interval fields are
// cleared; the team and problem selections stay for the next entry.
func (v *Viewer) SubmitForm(ctx context.Context) error {
	v.mu.Lock()
	teamID, problemID := v.formTeamID, v.formProblemID
	minText, maxText := v.formMin, v.formMax
	v.mu.Unlock()

	min, errMin := strconv.ParseFloat(minText, 64)
	max, errMax := strconv.ParseFloat(maxText, 64)
	if errMin != nil || errMax != nil {
		return &viewer.GatewayError{Message: "invalid request body"}
	}

	if err := v.client.SubmitInterval(ctx, teamID, problemID, min, max); err != nil {
		return err
	}

	v.mu.Lock()
	v.formMin = ""
	v.formMax = ""
	v.mu.Unlock()
	return nil
}

// Render writes both regions as text, one row per line.
func (v *Viewer) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := "SUBMISSIONS\n"
	for _, r := range v.submissions {
		out += fmt.Sprintf("%s\tP%d\t%s\t%s\t%s\n",
			r.TeamName, r.ProblemID,
			strconv.FormatFloat(r.Min, 'g', -1, 64),
			strconv.FormatFloat(r.Max, 'g', -1, 64),
			r.Verdict)
	}
	out += "TEAMS\n"
	for _, s := range v.summaries {
		out += fmt.Sprintf("%s\tanswered %s\tcorrect %s\tused %s\n",
			s.TeamName, s.Answered, s.Correct, s.Used)
	}
	return out
}
