package services

import (
	"RestaurantRoulette/logging"
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionService hands out one SelectionService per session id. Idle sessions are dropped
// from memory after the idle TTL; their persisted state stays in the store.
type SessionService struct {
	Suggester Suggester
	Stores    StoreFactory
	Config    SelectionConfig

	mu       sync.Mutex
	sessions *cache.Cache
}

func NewSessionService(suggester Suggester, stores StoreFactory, idleTTL time.Duration, config SelectionConfig) *SessionService {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	sessions := cache.New(idleTTL, idleTTL/2)
	sessions.OnEvicted(func(id string, v interface{}) {
		if manager, ok := v.(*SelectionService); ok {
			manager.Close()
		}
		logging.Debug().Str("session_id", id).Msg("session evicted")
	})

	return &SessionService{
		Suggester: suggester,
		Stores:    stores,
		Config:    config,
		sessions:  sessions,
	}
}

// Get returns the live session for id, restoring it from the store on first use.
func (s *SessionService) Get(ctx context.Context, id string) *SelectionService {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.sessions.Get(id); ok {
		manager := v.(*SelectionService)
		s.sessions.SetDefault(id, manager)
		return manager
	}

	logger := logging.WithSession(id)
	persistence := NewPersistenceService(s.Stores.ForSession(id), logger)
	manager := NewSelectionService(s.Suggester, persistence, logger, s.Config)
	manager.Restore(ctx)

	s.sessions.SetDefault(id, manager)
	logger.Info().Msg("session opened")
	return manager
}

// Reset clears the persisted state of id and drops its live manager.
func (s *SessionService) Reset(ctx context.Context, id string) error {
	if err := s.Get(ctx, id).Reset(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions.Delete(id)
	s.mu.Unlock()
	return nil
}

// Count reports the sessions currently held in memory.
func (s *SessionService) Count() int {
	return s.sessions.ItemCount()
}

// Close ends every live session.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}
