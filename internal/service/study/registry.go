package study

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/clozedeck-backend/internal/domain"
)

type registryEntry struct {
	rt        *Runtime
	expiresAt time.Time
}

// Registry keeps the live session of each learner in memory. Starting a
// session replaces the learner's previous one. Idle sessions expire after ttl.
type Registry struct {
	mu     sync.Mutex
	ttl    time.Duration
	clock  clock
	byID   map[uuid.UUID]*registryEntry
	byUser map[uuid.UUID]uuid.UUID
}

// NewRegistry creates an empty registry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:    ttl,
		clock:  systemClock{},
		byID:   make(map[uuid.UUID]*registryEntry),
		byUser: make(map[uuid.UUID]uuid.UUID),
	}
}

// Put stores rt as the active session of its learner.
func (r *Registry) Put(rt *Runtime) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.sweepLocked(now)

	if prev, ok := r.byUser[rt.UserID()]; ok {
		delete(r.byID, prev)
	}
	r.byID[rt.ID()] = &registryEntry{rt: rt, expiresAt: now.Add(r.ttl)}
	r.byUser[rt.UserID()] = rt.ID()
}

// Get returns session sessionID of userID and extends its lifetime.
// Sessions of other learners are reported as not found.
func (r *Registry) Get(userID, sessionID uuid.UUID) (*Runtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	e, ok := r.byID[sessionID]
	if !ok || e.rt.UserID() != userID {
		return nil, domain.ErrNotFound
	}
	if !now.Before(e.expiresAt) {
		r.removeLocked(sessionID, e)
		return nil, domain.ErrNotFound
	}
	e.expiresAt = now.Add(r.ttl)
	return e.rt, nil
}

// DropUser forgets the active session of userID, if any.
func (r *Registry) DropUser(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byUser[userID]; ok {
		delete(r.byID, id)
		delete(r.byUser, userID)
	}
}

// Len returns the number of stored sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, e := range r.byID {
		if !now.Before(e.expiresAt) {
			r.removeLocked(id, e)
		}
	}
}

func (r *Registry) removeLocked(id uuid.UUID, e *registryEntry) {
	delete(r.byID, id)
	if cur, ok := r.byUser[e.rt.UserID()]; ok && cur == id {
		delete(r.byUser, e.rt.UserID())
	}
}
