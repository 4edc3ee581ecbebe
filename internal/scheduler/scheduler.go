package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/boardhub/api/internal/auth"
	"github.com/boardhub/api/internal/middleware"
)

// RevocationSweeper periodically deletes revocation entries whose tokens
// have expired. The revocation store already evicts such entries lazily on
// lookup; the sweeper catches the ones nobody ever looks up again.
type RevocationSweeper struct {
	revocations *auth.RevocationStore
	interval    time.Duration
	running     bool
	sweeps      int64
	evicted     int64
	lastSweep   time.Time
	mu          sync.Mutex
	stopChan    chan struct{}
}

type SweeperConfig struct {
	Interval time.Duration
}

func NewRevocationSweeper(revocations *auth.RevocationStore, cfg SweeperConfig) *RevocationSweeper {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Minute
	}

	return &RevocationSweeper{
		revocations: revocations,
		interval:    cfg.Interval,
		stopChan:    make(chan struct{}),
	}
}

func (s *RevocationSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Sweeper] Starting with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sweeper] Context cancelled, stopping")
			return
		case <-s.stopChan:
			log.Println("[Sweeper] Stop signal received")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RevocationSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Sweeper] Stopped")
	}
}

func (s *RevocationSweeper) sweep(ctx context.Context) {
	evicted, err := s.revocations.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("[Sweeper] Error deleting expired entries: %v", err)
		return
	}

	if evicted > 0 {
		log.Printf("[Sweeper] Evicted %d expired revocation entries", evicted)
	}
	middleware.RecordTokenEvictions(evicted, "sweep")

	s.mu.Lock()
	s.sweeps++
	s.evicted += evicted
	s.lastSweep = time.Now()
	s.mu.Unlock()
}

// GetStatus returns current sweeper status
func (s *RevocationSweeper) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":      s.running,
		"interval":     s.interval.String(),
		"sweeps":       s.sweeps,
		"totalEvicted": s.evicted,
	}
	if !s.lastSweep.IsZero() {
		status["lastSweep"] = s.lastSweep
	}
	return status
}
