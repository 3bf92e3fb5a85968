package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/estimathon/internal/simulate"
	"github.com/okian/estimathon/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumTeams    = 8
	defaultSubmissions = 200
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultBadRatio    = 0.2
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the gateway")
		numTeams    = flag.Int("teams", defaultNumTeams, "Number of teams to create")
		submissions = flag.Int("submissions", defaultSubmissions, "Number of submissions to fire")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		badRatio    = flag.Float64("bad", defaultBadRatio, "Fraction of submissions made deliberately invalid")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:     *baseURL,
		NumTeams:    *numTeams,
		Submissions: *submissions,
		Workers:     *workers,
		Timeout:     *timeout,
		BadRatio:    *badRatio,
		Verbose:     *verbose,
	}

	if err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("rehearsal failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
