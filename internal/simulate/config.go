package simulate

import "time"

// Config holds configuration for a rehearsal run.
type Config struct {
	BaseURL     string        // Base URL of the gateway
	NumTeams    int           // Number of teams to create
	Submissions int           // Number of submissions to fire
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	BadRatio    float64       // Fraction of submissions made deliberately invalid
	Verbose     bool          // Enable verbose logging
}

// Stats holds rehearsal statistics.
type Stats struct {
	TeamsCreated    int
	TeamsRejected   int
	Submitted       int
	Accepted        int
	Rejected        int
	TransportErrors int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
