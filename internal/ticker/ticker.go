package ticker

import (
	"context"
	"time"

	"github.com/dennisdiepolder/hopwhistle/internal/session"
	"github.com/rs/zerolog"
)

// Ticker periodically revalidates the logged-in user against the backend so
// an expired backend session clears the store
type Ticker struct {
	store    *session.Store
	fetcher  session.UserFetcher
	interval time.Duration
	logger   zerolog.Logger
}

// NewTicker creates a new Ticker
func NewTicker(store *session.Store, fetcher session.UserFetcher, interval time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		logger:   logger.With().Str("component", "session_ticker").Logger(),
	}
}

// Start checks the session every interval until ctx is cancelled.
// Nothing is checked while logged out.
func (t *Ticker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("ticker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case <-ticker.C:
			t.check(ctx)
		}
	}
}

func (t *Ticker) check(ctx context.Context) {
	before := t.store.User()
	if before == nil {
		return
	}

	if err := t.store.Rehydrate(ctx, t.fetcher); err != nil {
		t.logger.Warn().Err(err).Msg("session check failed, keeping current user")
		return
	}

	if t.store.User() == nil {
		t.logger.Info().Str("user_id", before.ID).Msg("backend session expired")
		return
	}
	t.logger.Debug().Str("user_id", before.ID).Msg("session still valid")
}
