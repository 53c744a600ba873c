package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahlgren/helmsman/session"
	"github.com/ahlgren/helmsman/ticket"
	"github.com/ahlgren/helmsman/token"
)

// SweepInterval is how often the maintenance task runs.
const SweepInterval = 60 * time.Second

// Sweeper is the single periodic maintenance task: it discards expired
// login/registration sessions, unconsumed tickets, and revocation entries
// for tokens that have since expired on their own.
type Sweeper struct {
	sessions *session.Store[Session]
	tickets  *ticket.Broker
	revoked  *token.RevokedSet
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper over the three stores.
func NewSweeper(sessions *session.Store[Session], tickets *ticket.Broker, revoked *token.RevokedSet, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		sessions: sessions,
		tickets:  tickets,
		revoked:  revoked,
		interval: SweepInterval,
		logger:   logger.With("component", "sweeper"),
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. It is meant to be
// started once, on its own goroutine, at process start.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

// Sweep runs one maintenance pass and returns the number of entries
// removed across all stores.
func (s *Sweeper) Sweep() int {
	sessions := s.sessions.CleanupExpired()
	tickets := s.tickets.CleanupExpired()
	revoked := s.revoked.Prune()
	total := sessions + tickets + revoked
	if total > 0 {
		s.logger.Debug("sweep complete",
			"sessions", sessions, "tickets", tickets, "revocations", revoked)
	}
	return total
}
