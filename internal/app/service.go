// Package app provides the core service implementing the gateway
// operations behind the HTTP API and owning the broadcast pipeline.
package app

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/jonboulle/clockwork"

	snapshotqueue "github.com/okian/estimathon/internal/adapters/mq/queue"
	"github.com/okian/estimathon/internal/adapters/repository"
	"github.com/okian/estimathon/internal/adapters/ws"
	"github.com/okian/estimathon/internal/domain/contest"
	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/internal/domain/scoring"
	"github.com/okian/estimathon/pkg/logger"
	"github.com/okian/estimathon/pkg/metrics"
)

// Service owns the aggregation store, the scoring collaborator, the
// snapshot queue and the broadcast hub. Mutations are applied to the
// store synchronously; fan-out to subscribers happens asynchronously
// through the queue, so the submitting caller never waits on delivery.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	scorer  scoring.Scorer
	queue   snapshotqueue.Queue
	hub     *ws.Hub
	catalog *contest.Catalog

	queueSize  int
	sendBuffer int
	clock      clockwork.Clock

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQueueSize bounds the snapshot queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSendBuffer sets the per-subscriber send buffer.
func WithSendBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.sendBuffer = size
		}
	}
}

// WithCatalog sets the competition problem catalog.
func WithCatalog(c *contest.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock sets the clock used for timestamps. Tests pass a fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:    contest.DefaultCatalog(),
		queueSize:  1024,
		sendBuffer: 64,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store, queue and hub, and begins fan-out.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.scorer = scoring.NewIntervalScorer(
		scoring.WithTotalProblems(s.catalog.Len()),
	)
	s.store = repository.NewMemStore(s.catalog, s.scorer,
		repository.WithClock(s.clock),
	)
	s.queue = snapshotqueue.NewInMemoryQueue(
		snapshotqueue.WithCapacity(s.queueSize),
	)
	s.hub = ws.NewHub(s,
		ws.WithClock(s.clock),
		ws.WithSendBuffer(s.sendBuffer),
		ws.WithLogger(s.logger.Named("ws")),
	)
	go s.hub.Run(ctx, s.queue)

	s.started = true
	s.logger.Info(ctx, "estimathon service started",
		logger.Int("problems", s.catalog.Len()),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop shuts down the broadcast pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "estimathon service stopped")
}

// Hub exposes the broadcast hub for route registration.
func (s *Service) Hub() *ws.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// AddTeam creates a team and broadcasts the updated ranking.
func (s *Service) AddTeam(ctx context.Context, name string) (model.Team, error) {
	team, err := s.store.AddTeam(ctx, name)
	if err != nil {
		return model.Team{}, err
	}
	metrics.RecordTeamCreated()
	s.publish(ctx)

	s.logger.Info(ctx, "team added",
		logger.String("team_id", team.ID),
		logger.String("team_name", team.Name),
	)
	return team, nil
}

// SubmitInterval validates the guess, records it and broadcasts the
// updated ranking. The caller gets the result synchronously; delivery to
// subscribers is not awaited.
func (s *Service) SubmitInterval(ctx context.Context, teamID string, problemID int, min, max float64) error {
	if !isFinite(min) || !isFinite(max) || min <= 0 || max <= 0 || min > max {
		metrics.RecordSubmissionRejected("invalid_interval")
		return ErrInvalidInterval
	}

	sub, err := s.store.RecordSubmission(ctx, teamID, problemID, min, max)
	if err != nil {
		metrics.RecordSubmissionRejected(rejectionReason(err))
		return err
	}
	metrics.RecordSubmissionAccepted()
	s.publish(ctx)

	s.logger.Info(ctx, "submission recorded",
		logger.String("team_id", sub.TeamID),
		logger.Int("problem_id", sub.ProblemID),
		logger.Float64("min", sub.Min),
		logger.Float64("max", sub.Max),
		logger.Any("good", sub.Good),
	)
	return nil
}

// ListTeams returns the team directory, current at call time.
func (s *Service) ListTeams(ctx context.Context) []model.TeamRef {
	return s.store.ListTeams(ctx)
}

// Snapshot returns the current ranked snapshot. Used by the hub for
// catch-up delivery on (re)connect.
func (s *Service) Snapshot(ctx context.Context) model.Snapshot {
	return s.store.Snapshot(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"problems": s.catalog.Len(),
	}
	if s.started {
		ctx := context.Background()
		teams, subs := s.store.Counts(ctx)
		stats["teams"] = teams
		stats["submissions"] = subs
		stats["queueLength"] = s.queue.Len(ctx)
		stats["subscribers"] = s.hub.SubscriberCount()
	}
	return stats
}

// publish enqueues the current snapshot for fan-out. A full queue only
// delays delivery until the next change or reconnect, so failure to
// enqueue is logged and not surfaced to the mutating caller.
func (s *Service) publish(ctx context.Context) {
	snap := s.store.Snapshot(ctx)
	if !s.queue.Enqueue(ctx, snap) {
		s.logger.Warn(ctx, "snapshot queue full, dropping broadcast",
			logger.Uint64("seq", snap.Seq),
		)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrTeamNotFound):
		return "unknown_team"
	case errors.Is(err, repository.ErrProblemNotFound):
		return "unknown_problem"
	case errors.Is(err, repository.ErrBudgetExhausted):
		return "budget_exhausted"
	default:
		return "other"
	}
}
