package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper evicts sessions that expired at now and reports how many it dropped.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionSweeper periodically evicts expired cart sessions from an
// in-process store.
type SessionSweeper struct {
	store    Sweeper
	interval time.Duration
}

// NewSessionSweeper constructs a SessionSweeper.
func NewSessionSweeper(store Sweeper, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{store: store, interval: interval}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *SessionSweeper) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting session sweeper")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Session sweeper stopped")
			return
		}
	}
}

func (w *SessionSweeper) run() {
	if n := w.store.Sweep(time.Now()); n > 0 {
		log.Info().Int("count", n).Msg("Evicted expired cart sessions")
	}
}
