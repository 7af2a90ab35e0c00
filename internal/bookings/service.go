package bookings

import (
	"context"
	"fmt"
	"time"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/audit"
	"desicargo-backend/internal/broker/messages"
	"desicargo-backend/internal/ident"
	"desicargo-backend/internal/models"
	"desicargo-backend/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	ListBookings(ctx context.Context, branchID *uuid.UUID) ([]models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from models.BookingStatus, fields map[string]any) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID, status models.BookingStatus) error
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Counter(ctx context.Context, key string) (int64, error)
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, ev messages.BookingEvent) error
}

type Auditor interface {
	Record(ctx context.Context, opts audit.LogOptions)
}

type Service struct {
	repo     Repository
	cache    Cache
	events   Publisher
	auditor  Auditor
	log      logrus.FieldLogger
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository, cache Cache, events Publisher, auditor Auditor, log logrus.FieldLogger, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		events:   events,
		auditor:  auditor,
		log:      log.WithField("component", "bookings"),
		cacheTTL: cacheTTLOrDefault(cacheTTL),
		now:      time.Now,
	}
}

// List returns bookings whose origin or destination is the effective
// branch, newest first.
func (s *Service) List(ctx context.Context, actor *session.User, branchID string) ([]models.Booking, error) {
	scope, err := session.Scope(actor, branchID)
	if err != nil {
		return nil, err
	}

	cached, gen, ok := s.readList(ctx, scope)
	if ok {
		return cached, nil
	}

	out, err := s.repo.ListBookings(ctx, scope)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Booking{}
	}
	s.writeList(ctx, gen, scope, out)
	return out, nil
}

func (s *Service) Create(ctx context.Context, actor *session.User, d Draft) (*models.Booking, error) {
	b, err := d.toBooking()
	if err != nil {
		return nil, err
	}

	if b.BranchID == nil && actor != nil {
		b.BranchID = actor.BranchID
	}
	if actor != nil {
		b.CreatedBy = &actor.ID
	}

	if b.LRType == models.LRSystem {
		lr, err := s.nextLRNumber(ctx)
		if err != nil {
			return nil, err
		}
		b.LRNumber = lr
	} else {
		b.LRNumber = b.ManualLRNumber
	}

	b.Status = models.BookingBooked
	b.Recalculate()

	created, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	s.publish(ctx, messages.BookingCreated, created, actor)
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    created.BranchID,
		EntityType:  "booking",
		EntityID:    created.ID.String(),
		Action:      models.AuditActionCreate,
		Description: "booking " + created.LRNumber + " created",
		After:       created,
	})
	return created, nil
}

// UpdateStatus moves a booking along its lifecycle and merges the allowed
// extra fields in the same write.
func (s *Service) UpdateStatus(ctx context.Context, actor *session.User, id string, status models.BookingStatus, extra map[string]any) (*models.Booking, error) {
	bookingID, err := ident.Parse(id)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation("unknown booking status %q", status)
	}

	fields, err := sanitizeExtraFields(extra)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, apperr.Validation("booking %s cannot move from %s to %s", current.LRNumber, current.Status, status)
	}

	fields["status"] = status
	fields["updated_at"] = s.now()

	updated, err := s.repo.UpdateBookingStatus(ctx, bookingID, current.Status, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	s.publish(ctx, messages.BookingStatusChanged, updated, actor)
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    updated.BranchID,
		EntityType:  "booking",
		EntityID:    updated.ID.String(),
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("booking %s status %s -> %s", updated.LRNumber, current.Status, status),
		Before:      current,
		After:       updated,
	})
	return updated, nil
}

// Delete removes a booking that has not left the origin branch yet.
func (s *Service) Delete(ctx context.Context, actor *session.User, id string) error {
	bookingID, err := ident.Parse(id)
	if err != nil {
		return err
	}

	current, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if current.Status != models.BookingBooked {
		return apperr.Validation("only bookings in booked status can be deleted, %s is %s", current.LRNumber, current.Status)
	}

	if err := s.repo.DeleteBooking(ctx, bookingID, models.BookingBooked); err != nil {
		return err
	}

	s.invalidateLists(ctx)
	s.publish(ctx, messages.BookingDeleted, current, actor)
	s.auditor.Record(ctx, audit.LogOptions{
		Actor:       actor,
		BranchID:    current.BranchID,
		EntityType:  "booking",
		EntityID:    current.ID.String(),
		Action:      models.AuditActionDelete,
		Description: "booking " + current.LRNumber + " deleted",
		Before:      current,
	})
	return nil
}

func (s *Service) nextLRNumber(ctx context.Context) (string, error) {
	day := s.now().Format("20060102")
	n, err := s.cache.Incr(ctx, "lr:seq:"+day, 48*time.Hour)
	if err != nil {
		return "", apperr.Persistence(err, "could not allocate LR number")
	}
	return fmt.Sprintf("LR-%s-%04d", day, n), nil
}

func (s *Service) publish(ctx context.Context, typ messages.BookingEventType, b *models.Booking, actor *session.User) {
	ev := messages.BookingEvent{
		Type:       typ,
		BookingID:  b.ID.String(),
		LRNumber:   b.LRNumber,
		Status:     string(b.Status),
		Location:   eventLocation(b),
		OccurredAt: s.now(),
	}
	if b.BranchID != nil {
		ev.BranchID = b.BranchID.String()
	}
	if actor != nil {
		ev.ActorID = actor.ID.String()
	}
	if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_id": ev.BookingID,
			"type":       ev.Type,
		}).Warn("booking event not published")
	}
}

// eventLocation is the branch where the booking currently sits.
func eventLocation(b *models.Booking) string {
	branch := b.FromBranch
	if b.Status == models.BookingDelivered {
		branch = b.ToBranch
	}
	if branch == nil {
		return ""
	}
	return branch.Name
}
