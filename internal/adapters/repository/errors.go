package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrEmptyTeamName   = errors.New("team name must not be empty")
	ErrTeamNotFound    = errors.New("team not found")
	ErrProblemNotFound = errors.New("problem not found")
	ErrBudgetExhausted = errors.New("submission limit reached")
)
