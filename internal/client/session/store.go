// Package session holds the signed-in user for the whole client. It is the
// single source of truth for "who is logged in" and mirrors the value into
// the local store so a restart can resume without a network round trip.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/client/storage"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
	"github.com/alphasolutions/piauieventos-cli/internal/logging"
)

// Store keeps the current user. Writes replace the value wholesale; the
// last writer wins. Subscribers receive every change.
type Store struct {
	repo storage.Repository
	log  logging.Logger

	mu      sync.RWMutex
	current *models.User
	subs    map[int]chan *models.User
	nextSub int
}

func NewStore(repo storage.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		repo: repo,
		log:  log,
		subs: map[int]chan *models.User{},
	}
}

// Current returns a copy of the signed-in user, nil when signed out.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Set replaces the session with u and caches it. A nil u is the same as
// Clear.
func (s *Store) Set(ctx context.Context, u *models.User) error {
	if u == nil {
		return s.Clear(ctx)
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.Set(ctx, common.StorageKeyUser, raw); err != nil {
		return err
	}

	s.publish(u.Clone())
	return nil
}

// Clear signs the session out and removes the cached user. The in-memory
// value is cleared even when the cache write fails.
func (s *Store) Clear(ctx context.Context) error {
	s.publish(nil)
	if err := s.repo.Delete(ctx, common.StorageKeyUser); err != nil {
		return err
	}
	return nil
}

// Restore loads the cached user when memory is empty and reports whether a
// user is now present. A cache entry that cannot be decoded, or that does
// not identify a user, is deleted.
func (s *Store) Restore(ctx context.Context) bool {
	if s.Current() != nil {
		return true
	}

	raw, err := s.repo.Get(ctx, common.StorageKeyUser)
	if err != nil {
		s.log.Warn(ctx, "read cached user", "error", err)
		return false
	}
	if len(raw) == 0 {
		return false
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || !u.Valid() {
		s.log.Warn(ctx, "dropping cached user", "error", fmt.Errorf("%w: %v", common.ErrCorruptedCache, err))
		if err := s.repo.Delete(ctx, common.StorageKeyUser); err != nil {
			s.log.Error(ctx, "delete cached user", "error", err)
		}
		return false
	}

	if !s.publishIfEmpty(&u) {
		return true
	}
	s.log.Debug(ctx, "session restored from cache", "user_id", u.ID)
	return true
}

// Subscribe returns a channel that receives the user after every change
// (nil on sign-out), starting with the current value. Slow subscribers
// only ever see the latest value. cancel releases the subscription.
func (s *Store) Subscribe() (<-chan *models.User, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *models.User, 1)
	ch <- s.current.Clone()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) publish(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(u)
}

// publishIfEmpty sets u only when nobody is signed in.
func (s *Store) publishIfEmpty(u *models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return false
	}
	s.publishLocked(u)
	return true
}

func (s *Store) publishLocked(u *models.User) {
	s.current = u
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- u.Clone()
	}
}
