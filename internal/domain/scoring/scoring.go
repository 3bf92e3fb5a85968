// Package scoring implements the Estimathon scoring rules.
//
// An interval is good when it contains the problem's correct answer. A
// team's score is (10 + sum of max/min ratios over its good intervals)
// multiplied by 2^(13 - good intervals). Only the latest submission per
// problem counts toward the score.
package scoring

import (
	"math"

	"github.com/okian/estimathon/internal/domain/contest"
	"github.com/okian/estimathon/internal/domain/model"
)

// Default scoring parameters.
const (
	defaultBase = 10.0
)

// Option applies a configuration option to the IntervalScorer.
type Option func(*IntervalScorer)

// WithBase sets the additive base of the score formula.
func WithBase(base float64) Option {
	return func(s *IntervalScorer) {
		if base > 0 {
			s.base = base
		}
	}
}

// WithTotalProblems sets the problem count used in the doubling exponent.
func WithTotalProblems(n int) Option {
	return func(s *IntervalScorer) {
		if n > 0 {
			s.totalProblems = n
		}
	}
}

// Scorer judges intervals and computes team scores.
type Scorer interface {
	// Judge reports whether the interval contains the problem's answer.
	Judge(p contest.Problem, min, max float64) bool

	// TeamScore computes a team's score from its latest-per-problem
	// submission details.
	TeamScore(details []model.SubmissionDetail) float64
}

// IntervalScorer implements Scorer with the standard Estimathon formula.
type IntervalScorer struct {
	base          float64
	totalProblems int
}

// NewIntervalScorer creates a scorer with configuration options.
func NewIntervalScorer(opts ...Option) *IntervalScorer {
	s := &IntervalScorer{
		base:          defaultBase,
		totalProblems: contest.TotalProblems,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Judge reports whether [min, max] contains the correct answer.
func (s *IntervalScorer) Judge(p contest.Problem, min, max float64) bool {
	return min <= p.Answer && p.Answer <= max
}

// TeamScore computes the team score from latest-per-problem details.
// A non-positive minimum contributes no ratio.
func (s *IntervalScorer) TeamScore(details []model.SubmissionDetail) float64 {
	good := 0
	ratioSum := 0.0
	for _, d := range details {
		if !d.IsGood {
			continue
		}
		good++
		if d.MinValue > 0 {
			ratioSum += d.MaxValue / d.MinValue
		}
	}

	exponent := s.totalProblems - good
	if exponent < 0 {
		exponent = 0
	}
	return (s.base + ratioSum) * math.Pow(2, float64(exponent))
}
