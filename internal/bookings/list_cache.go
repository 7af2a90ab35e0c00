package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"desicargo-backend/internal/models"

	"github.com/google/uuid"
)

// generationKey is bumped on every booking write; list keys embed the
// generation so stale pages are never read again.
const generationKey = "bookings:gen"

func listKey(gen int64, scope *uuid.UUID) string {
	s := "all"
	if scope != nil {
		s = scope.String()
	}
	return fmt.Sprintf("bookings:list:g%d:%s", gen, s)
}

// noGeneration marks a read that could not see the generation counter;
// nothing is cached for it.
const noGeneration int64 = -1

// readList returns the cached list and the generation it was looked up
// under. A miss still reports the generation so the caller stores the
// fresh list against the state it was read from.
func (s *Service) readList(ctx context.Context, scope *uuid.UUID) ([]models.Booking, int64, bool) {
	gen, err := s.cache.Counter(ctx, generationKey)
	if err != nil {
		s.log.WithError(err).Warn("booking cache unavailable")
		return nil, noGeneration, false
	}
	raw, ok, err := s.cache.Get(ctx, listKey(gen, scope))
	if err != nil || !ok {
		return nil, gen, false
	}
	var out []models.Booking
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.WithError(err).Warn("booking cache entry unreadable")
		return nil, gen, false
	}
	return out, gen, true
}

// writeList stores under the generation seen before the database read. A
// write that lands in between bumps the counter, so the entry is never read.
func (s *Service) writeList(ctx context.Context, gen int64, scope *uuid.UUID, list []models.Booking) {
	if gen == noGeneration {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, listKey(gen, scope), raw, s.cacheTTL); err != nil {
		s.log.WithError(err).Warn("booking cache write failed")
	}
}

// InvalidateLists drops every cached list view. Other packages that move
// bookings between statuses call it after their own writes.
func (s *Service) InvalidateLists(ctx context.Context) {
	s.invalidateLists(ctx)
}

func (s *Service) invalidateLists(ctx context.Context) {
	if _, err := s.cache.Incr(ctx, generationKey, 0); err != nil {
		s.log.WithError(err).Warn("booking cache invalidation failed")
	}
}

// cacheTTLOrDefault keeps a zero TTL from pinning entries forever.
func cacheTTLOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
