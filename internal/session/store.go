package session

import (
	"context"
	"sync"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/dennisdiepolder/hopwhistle/pkg/client"
)

// Listener is called with the new user after every change (nil when logged out)
type Listener func(user *types.User)

// UserFetcher resolves the user bound to the current backend session
type UserFetcher interface {
	CurrentUser(ctx context.Context) (*types.User, error)
}

type subscription struct {
	id int
	fn Listener
}

// Store holds the currently logged-in user.
//
// Create one per process (or per test) and inject it where needed. The user is
// always replaced as a whole; readers never observe a partially built value.
type Store struct {
	// changeMu serializes SetUser so listeners see changes in the order they happened
	changeMu sync.Mutex

	mu     sync.RWMutex
	user   *types.User
	subs   []subscription
	nextID int
}

// NewStore creates an empty (logged out) store
func NewStore() *Store {
	return &Store{}
}

// User returns the current user, or nil when logged out
func (s *Store) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a user is set
func (s *Store) IsAuthenticated() bool {
	return s.User() != nil
}

// SetUser replaces the current user and notifies listeners synchronously in
// subscription order. Listeners must not call SetUser or Logout.
func (s *Store) SetUser(user *types.User) {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.Lock()
	s.user = user
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(user)
	}
}

// Logout clears the current user
func (s *Store) Logout() {
	s.SetUser(nil)
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription; calling it more than once is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Rehydrate restores the user from an existing backend session, typically at
// startup. An unauthenticated answer clears the store and is not an error;
// any other failure leaves the store untouched and is returned.
func (s *Store) Rehydrate(ctx context.Context, fetcher UserFetcher) error {
	user, err := fetcher.CurrentUser(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			s.SetUser(nil)
			return nil
		}
		return err
	}
	s.SetUser(user)
	return nil
}
