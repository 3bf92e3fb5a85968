package simulate

import (
	"crypto/rand"
	"math/big"

	"github.com/okian/estimathon/internal/domain/contest"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Constants for interval generation ranges.
const (
	intervalCenterMin   = 1.0
	intervalCenterRange = 999.0
	intervalSpreadMin   = 0.05
	intervalSpreadRange = 0.9
)

// Invalid interval shapes, cycled through for the deliberately bad share
// of the load.
const (
	caseInvertedBounds  = 0
	caseNonPositiveMin  = 1
	caseNonPositiveMax  = 2
	caseUnknownProblem  = 3
	invalidShapeDivisor = 4
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, n).
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// submission is one generated interval submission.
type submission struct {
	teamIndex int
	problemID int
	min       float64
	max       float64
	invalid   bool
}

// generateSubmissions produces the rehearsal load: mostly well-formed
// intervals around a random center, with a configurable fraction shaped to
// be rejected by the gateway.
func generateSubmissions(cfg *Config, numTeams int) []submission {
	subs := make([]submission, cfg.Submissions)
	for i := range subs {
		s := submission{
			teamIndex: getRandomInt(numTeams),
			problemID: 1 + getRandomInt(contest.TotalProblems),
		}

		center := intervalCenterMin + getRandomFloat()*intervalCenterRange
		spread := intervalSpreadMin + getRandomFloat()*intervalSpreadRange
		s.min = center * (1 - spread)
		s.max = center * (1 + spread)
		if s.min <= 0 {
			s.min = intervalCenterMin
		}

		if getRandomFloat() < cfg.BadRatio {
			s.invalid = true
			switch getRandomInt(invalidShapeDivisor) {
			case caseInvertedBounds:
				s.min, s.max = s.max, s.min
			case caseNonPositiveMin:
				s.min = -s.min
			case caseNonPositiveMax:
				s.min, s.max = -s.max, -s.min
			case caseUnknownProblem:
				s.problemID = contest.TotalProblems + 1 + getRandomInt(100)
			}
		}

		subs[i] = s
	}
	return subs
}
