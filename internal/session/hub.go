package session

import (
	"context"
	"sync"

	"desicargo-backend/internal/models"

	"github.com/google/uuid"
)

type Resolver interface {
	ResolveUser(ctx context.Context, id uuid.UUID) (*User, error)
}

type entry struct {
	refs  int
	ready chan struct{}
	user  *User
	err   error
}

// Hub keeps one resolved User per identity while at least one holder is
// active. The first Acquire resolves the user, concurrent acquirers wait
// for that result, and the last Release drops the entry.
type Hub struct {
	resolver Resolver

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func NewHub(resolver Resolver) *Hub {
	return &Hub{
		resolver: resolver,
		entries:  make(map[uuid.UUID]*entry),
	}
}

// Acquire returns the resolved user and a release func that must be called
// exactly once when err is nil.
func (h *Hub) Acquire(ctx context.Context, id uuid.UUID) (*User, func(), error) {
	h.mu.Lock()
	e, ok := h.entries[id]
	if ok {
		e.refs++
		h.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			h.release(id, e)
			return nil, nil, ctx.Err()
		}
		if e.err != nil {
			h.release(id, e)
			return nil, nil, e.err
		}
		return e.user, h.releaser(id, e), nil
	}

	e = &entry{refs: 1, ready: make(chan struct{})}
	h.entries[id] = e
	h.mu.Unlock()

	user, err := h.resolver.ResolveUser(ctx, id)

	h.mu.Lock()
	e.user, e.err = user, err
	if err != nil && h.entries[id] == e {
		// Failed resolutions are not cached; the next Acquire retries.
		delete(h.entries, id)
	}
	h.mu.Unlock()
	close(e.ready)

	if err != nil {
		h.release(id, e)
		return nil, nil, err
	}
	return user, h.releaser(id, e), nil
}

func (h *Hub) releaser(id uuid.UUID, e *entry) func() {
	var once sync.Once
	return func() {
		once.Do(func() { h.release(id, e) })
	}
}

func (h *Hub) release(id uuid.UUID, e *entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e.refs--
	if e.refs <= 0 && h.entries[id] == e {
		delete(h.entries, id)
	}
}

// Invalidate forgets the cached user so the next Acquire re-resolves it.
// Current holders keep the value they already have.
func (h *Hub) Invalidate(id uuid.UUID) {
	h.mu.Lock()
	delete(h.entries, id)
	h.mu.Unlock()
}

// Active reports how many identities currently have holders.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// UserLookup is the store contract StoreResolver needs.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type StoreResolver struct {
	Users UserLookup
}

func (r StoreResolver) ResolveUser(ctx context.Context, id uuid.UUID) (*User, error) {
	m, err := r.Users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(m), nil
}
