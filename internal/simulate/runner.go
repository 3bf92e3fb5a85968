package simulate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/estimathon/internal/viewer"
	"github.com/okian/estimathon/pkg/logger"
)

// Run executes a complete rehearsal: health check, team creation, concurrent
// submission fire, and a final report.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("simulate")

	log.Info(ctx, "starting rehearsal",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("teams", cfg.NumTeams),
		logger.Int("submissions", cfg.Submissions),
		logger.Int("workers", cfg.Workers),
		logger.Float64("badRatio", cfg.BadRatio))

	if err := checkGatewayHealth(ctx, cfg); err != nil {
		return fmt.Errorf("gateway health check failed: %w", err)
	}

	client := viewer.NewClient(cfg.BaseURL)

	teamIDs, err := createTeams(ctx, client, cfg, stats)
	if err != nil {
		return fmt.Errorf("team creation failed: %w", err)
	}

	subs := generateSubmissions(cfg, len(teamIDs))
	fireSubmissions(ctx, client, cfg, teamIDs, subs, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "rehearsal finished",
		logger.Int("teamsCreated", stats.TeamsCreated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("transportErrors", stats.TransportErrors),
		logger.String("duration", stats.Duration.String()))

	if stats.TransportErrors > 0 {
		return fmt.Errorf("%d submissions failed in transport", stats.TransportErrors)
	}
	return nil
}

// checkGatewayHealth verifies the gateway is running.
func checkGatewayHealth(ctx context.Context, cfg *Config) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// createTeams registers the rehearsal teams and returns their ids.
func createTeams(ctx context.Context, client *viewer.Client, cfg *Config, stats *Stats) ([]string, error) {
	ids := make([]string, 0, cfg.NumTeams)
	for i := 0; i < cfg.NumTeams; i++ {
		name := fmt.Sprintf("rehearsal-team-%03d", i+1)
		id, err := client.AddTeam(ctx, name)
		if err != nil {
			var gw *viewer.GatewayError
			if errors.As(err, &gw) {
				stats.TeamsRejected++
				continue
			}
			return nil, err
		}
		stats.TeamsCreated++
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no teams created")
	}
	return ids, nil
}

// fireSubmissions drives the generated load through a worker pool. Gateway
// rejections are expected for the invalid share; only transport failures
// count as errors.
func fireSubmissions(ctx context.Context, client *viewer.Client, cfg *Config, teamIDs []string, subs []submission, stats *Stats) {
	var accepted, rejected, transport int64

	jobs := make(chan submission)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				err := client.SubmitInterval(ctx, teamIDs[s.teamIndex], s.problemID, s.min, s.max)
				switch {
				case err == nil:
					atomic.AddInt64(&accepted, 1)
				case isGatewayRejection(err):
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&transport, 1)
				}
			}
		}()
	}

	for _, s := range subs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- s:
		}
	}
	close(jobs)
	wg.Wait()

	stats.Submitted = len(subs)
	stats.Accepted = int(accepted)
	stats.Rejected = int(rejected)
	stats.TransportErrors = int(transport)
}

func isGatewayRejection(err error) bool {
	var gw *viewer.GatewayError
	return errors.As(err, &gw)
}
