// Package scoreboard renders the public view of a competition: the ranked
// team table. Every incoming snapshot replaces the table wholesale.
package scoreboard

import (
	"fmt"
	"sync"

	"github.com/okian/estimathon/internal/domain/model"
)

// Row is one rendered line of the ranked table.
type Row struct {
	Rank     int
	TeamName string
	Score    string
	Leader   bool
}

// Viewer holds the scoreboard's rendered state.
type Viewer struct {
	mu   sync.Mutex
	rows []Row
}

// New creates an empty scoreboard viewer.
func New() *Viewer {
	return &Viewer{}
}

// Apply rebuilds the table from the snapshot. Rank labels are positional:
// snapshot order is already best-first, so row i gets rank i+1 and row 0
// is the leader.
func (v *Viewer) Apply(snap model.Snapshot) {
	rows := make([]Row, 0, len(snap.Teams))
	for i, ts := range snap.Teams {
		rows = append(rows, Row{
			Rank:     i + 1,
			TeamName: ts.TeamName,
			Score:    fmt.Sprintf("%.2f", ts.Score),
			Leader:   i == 0,
		})
	}

	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

// Rows returns the rendered table rows.
func (v *Viewer) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Row, len(v.rows))
	copy(out, v.rows)
	return out
}

// Render writes the table as text, one row per line. The leader row is
// marked with a star.
func (v *Viewer) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := "RANK\tTEAM\tSCORE\n"
	for _, r := range v.rows {
		mark := ""
		if r.Leader {
			mark = " *"
		}
		out += fmt.Sprintf("%d\t%s\t%s%s\n", r.Rank, r.TeamName, r.Score, mark)
	}
	return out
}
